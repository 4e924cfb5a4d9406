package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/contrast"
)

// usageFlags are the category flags shared by contrast and suggest.
type usageFlags struct {
	text  bool
	large bool
}

func (u *usageFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&u.text, "text", false, "treat the colour as text")
	cmd.Flags().BoolVar(&u.large, "large", false, "treat the text as large (implies --text)")
}

func (u usageFlags) resolve() (isText, isLarge bool) {
	return u.text || u.large, u.large
}

// pairReport is the JSON shape of the contrast command.
type pairReport struct {
	Foreground string            `json:"foreground"`
	Background string            `json:"background"`
	Results    []contrast.Result `json:"results"`
}

func newContrastCmd(a *app) *cobra.Command {
	var usage usageFlags

	cmd := &cobra.Command{
		Use:   "contrast <foreground> <background>",
		Short: "Measure the contrast between two colours",
		Long: `Measure the WCAG ratio (and, for text, the APCA Lc) between two colours.
Colours may be hex, CSS names or rgb()/hsl()/oklch()/oklab() functions.

Examples:
  svgtint contrast "#888888" white
  svgtint contrast --text --large "rgb(0 0 200)" "#121212"`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			fg, ok := colour.ParseCSS(args[0])
			if !ok {
				return fmt.Errorf("invalid foreground colour: %s", args[0])
			}
			bg, ok := colour.ParseCSS(args[1])
			if !ok {
				return fmt.Errorf("invalid background colour: %s", args[1])
			}

			isText, isLarge := usage.resolve()
			results := contrast.Measure(fg, bg, isText, isLarge)

			if a.format == formatJSON {
				return a.writeJSON(pairReport{Foreground: fg.Hex(), Background: bg.Hex(), Results: results})
			}

			fmt.Fprintf(a.out, "%s on %s (%s)%s\n", a.swatch(fg.Hex()), a.swatch(bg.Hex()),
				kind(isText, isLarge), a.sample(fg, bg, "Sample"))
			for _, r := range results {
				fmt.Fprintf(a.out, "  %-4s %7s  %s  %s\n", r.Check, formatValue(r), a.badge(r.Pass), threshold(r))
			}
			return nil
		},
	}
	usage.register(cmd)
	return cmd
}

// formatValue renders a ratio as "4.50:1" and an Lc as "Lc 75.4".
func formatValue(r contrast.Result) string {
	if r.Check == contrast.APCA {
		return fmt.Sprintf("Lc %.1f", r.Value)
	}
	return fmt.Sprintf("%.2f:1", r.Value)
}

func threshold(r contrast.Result) string {
	if r.Check == contrast.APCA {
		return fmt.Sprintf("needs Lc %g", r.Threshold)
	}
	return fmt.Sprintf("needs %g:1, level %s", r.Threshold, r.Level)
}
