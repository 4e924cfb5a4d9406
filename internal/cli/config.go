package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/svgtint/internal/config"
)

// setting is the JSON shape of one config field.
type setting struct {
	Key         string `json:"key"`
	Env         string `json:"env"`
	Value       any    `json:"value"`
	Default     any    `json:"default"`
	Description string `json:"description"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective settings and where they can be set",
		Long: `Show every setting with its effective value, its default and the
environment variable that overrides it. Settings are read from
svgtint.yaml in the config directory (or --config), SVGTINT_* environment
variables and flags, in increasing order of precedence.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			settings := make([]setting, 0, len(config.Fields))
			for _, f := range config.Fields {
				settings = append(settings, setting{
					Key:         f.Key,
					Env:         f.Env(),
					Value:       a.settings.Get(f.Key),
					Default:     f.Value,
					Description: f.Description,
				})
			}

			if a.format == formatJSON {
				return a.writeJSON(settings)
			}

			file := a.settings.ConfigFileUsed()
			if file == "" {
				file = "none (searched " + config.Dir() + ")"
			}
			fmt.Fprintf(a.out, "config file: %s\n\n", file)

			table := NewTable([]string{"Key", "Value", "Default", "Env", "Description"})
			for _, s := range settings {
				table.AddRow([]string{
					s.Key,
					fmt.Sprint(s.Value),
					fmt.Sprint(s.Default),
					s.Env,
					s.Description,
				})
			}
			fmt.Fprint(a.out, table.Render())
			return nil
		},
	}
}
