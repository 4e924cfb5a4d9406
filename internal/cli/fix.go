package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/svgtint/internal/compression"
	"github.com/jmylchreest/svgtint/internal/config"
	"github.com/jmylchreest/svgtint/internal/engine"
	"github.com/jmylchreest/svgtint/internal/security"
	"github.com/jmylchreest/svgtint/internal/source"
)

type fixOptions struct {
	write  bool
	output string
}

func newFixCmd(a *app) *cobra.Command {
	var opts fixOptions

	cmd := &cobra.Command{
		Use:   "fix <file>",
		Short: "Apply suggested colours to an SVG",
		Long: `Apply the suggested replacement for every failing colour pair, then
re-analyse, until nothing fails, nothing changes or the pass limit is
reached. Only the affected values are rewritten; the rest of the file is
left byte for byte as it was.

When one colour cannot pass on both backgrounds the light colour is
written to fill/stroke and the dark one to data-dark-fill/data-dark-stroke.

Examples:
  # Print the fixed SVG
  svgtint fix logo.svg

  # Fix in place (compressed files stay compressed)
  svgtint fix --write logo.svgz

  # Fix in APCA mode into a new file
  svgtint fix --mode apca --output logo.fixed.svg logo.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFix(args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write the result back to the input file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Int(config.KeyMaxPasses, engine.DefaultMaxPasses, "maximum analyse/fix passes")
	cmd.MarkFlagsMutuallyExclusive("write", "output")
	return cmd
}

// runFix executes the fix command.
func (a *app) runFix(path string, opts fixOptions) error {
	loader := a.loader()
	doc, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	engineOpts := a.engineOptions()
	fixed, passes, err := engine.FixAll(doc.Text, engineOpts, a.config.MaxPasses)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	report, err := engine.Analyze(fixed, engineOpts)
	if err != nil {
		return fmt.Errorf("%s: fixed output no longer parses: %w", path, err)
	}

	a.logger.Debug("fix complete", "path", path, "passes", passes, "remaining", len(report.Entries))
	a.status("%s: %d pass(es), %d failing pair(s) remain", path, passes, len(report.Entries))
	for _, e := range report.Entries {
		a.status("  %s %s", a.warn("unresolved"), e.Key)
	}

	switch {
	case opts.write:
		if fixed == doc.Text {
			return nil
		}
		return loader.Save(doc.Path, fixed, doc.Compression)
	case opts.output != "":
		if err := security.ValidateOutputPath(opts.output, ""); err != nil {
			return err
		}
		return loader.Save(opts.output, fixed, compression.Detect(opts.output, nil))
	default:
		return loader.Save(source.Stdin, fixed, compression.None)
	}
}
