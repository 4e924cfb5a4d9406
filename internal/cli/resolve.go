package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/svgtint/internal/svg"
)

// resolution is the JSON shape of the resolve command.
type resolution struct {
	Expression string `json:"expression"`
	Hex        string `json:"hex,omitempty"`
	Token      string `json:"token"`
	Resolved   bool   `json:"resolved"`
}

func newResolveCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "resolve <expression>",
		Short: "Resolve a colour expression to hex",
		Long: `Resolve a colour expression the way the analyser does: hex, var(),
currentColor, color-mix(), CSS names and colour functions. With --file the
expression is resolved against that document's stylesheet and root element.

Examples:
  svgtint resolve "color-mix(in srgb, red 25%, blue)"
  svgtint resolve --file logo.svg "var(--brand)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text := "<svg/>"
			if file != "" {
				doc, err := a.loader().Load(file)
				if err != nil {
					return fmt.Errorf("failed to load input: %w", err)
				}
				text = svg.ExtractFragment(doc.Text)
			}

			doc, err := svg.Parse(text)
			if err != nil {
				return err
			}
			res := doc.Resolve(args[0], doc.Root)

			if a.format == formatJSON {
				return a.writeJSON(resolution{
					Expression: args[0],
					Hex:        res.Hex,
					Token:      res.Token,
					Resolved:   res.OK,
				})
			}
			if !res.OK {
				fmt.Fprintln(a.out, "none (no contrast obligation)")
				return nil
			}
			fmt.Fprintln(a.out, a.swatch(res.Hex))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "SVG whose styles and custom properties apply")
	return cmd
}
