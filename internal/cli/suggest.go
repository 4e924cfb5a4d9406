package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/svgtint/internal/autofix"
	"github.com/jmylchreest/svgtint/internal/colour"
)

// suggestion is the JSON shape of the suggest command.
type suggestion struct {
	Input           string         `json:"input"`
	BackgroundLight string         `json:"background_light"`
	BackgroundDark  string         `json:"background_dark"`
	Hex             string         `json:"hex"`
	DarkHex         string         `json:"dark_hex"`
	Method          autofix.Method `json:"method"`
}

// singleSuggestion is the JSON shape of suggest --on.
type singleSuggestion struct {
	Input      string `json:"input"`
	Background string `json:"background"`
	Hex        string `json:"hex"`
}

func newSuggestCmd(a *app) *cobra.Command {
	var (
		usage usageFlags
		on    string
	)

	cmd := &cobra.Command{
		Use:   "suggest <colour>",
		Short: "Suggest a replacement that passes on both backgrounds",
		Long: `Suggest a colour derived from the input that meets the contrast threshold
on the configured light and dark backgrounds. Black or white is used when
it scores better than the input; otherwise only the lightness changes.
When no single colour passes on both backgrounds, separate light and dark
colours are suggested. With --on the colour is fixed against that one
background only.

Examples:
  svgtint suggest --text "#888888"
  svgtint suggest --on "#1e1e2e" "#555555"
  svgtint suggest --bg-dark "#000000" --mode apca --text steelblue`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rgb, ok := colour.ParseCSS(args[0])
			if !ok {
				return fmt.Errorf("invalid colour: %s", args[0])
			}

			opts := a.engineOptions()
			isText, isLarge := usage.resolve()
			fixOpts := autofix.Options{IsText: isText, IsLarge: isLarge, Mode: opts.Mode}

			if on != "" {
				bg, ok := colour.ParseCSS(on)
				if !ok {
					return fmt.Errorf("invalid background colour: %s", on)
				}
				hex := autofix.SuggestSingle(rgb.Hex(), bg.Hex(), fixOpts)
				if a.format == formatJSON {
					return a.writeJSON(singleSuggestion{Input: rgb.Hex(), Background: bg.Hex(), Hex: hex})
				}
				fmt.Fprintln(a.out, a.swatch(hex))
				return nil
			}

			s := autofix.Suggest(rgb.Hex(), opts.BackgroundLight, opts.BackgroundDark, fixOpts)
			a.logger.Debug("suggestion", "input", rgb.Hex(), "hex", s.Hex, "dark", s.DarkHex, "method", s.Method.String())

			if a.format == formatJSON {
				return a.writeJSON(suggestion{
					Input:           rgb.Hex(),
					BackgroundLight: opts.BackgroundLight,
					BackgroundDark:  opts.BackgroundDark,
					Hex:             s.Hex,
					DarkHex:         s.DarkHex,
					Method:          s.Method,
				})
			}

			if s.Split() {
				fmt.Fprintf(a.out, "light: %s\ndark:  %s\n", a.swatch(s.Hex), a.swatch(s.DarkHex))
			} else {
				fmt.Fprintln(a.out, a.swatch(s.Hex))
			}
			if !a.quiet {
				fmt.Fprintf(a.errOut, "method: %s\n", s.Method)
			}
			return nil
		},
	}
	usage.register(cmd)
	cmd.Flags().StringVar(&on, "on", "", "fix against this single background instead of the light/dark pair")
	return cmd
}
