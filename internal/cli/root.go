// Package cli provides the command-line interface for svgtint.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/svgtint/internal/config"
	"github.com/jmylchreest/svgtint/internal/engine"
	"github.com/jmylchreest/svgtint/internal/source"
	"github.com/jmylchreest/svgtint/internal/version"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// ErrFindings is returned by analyze when failing colour pairs remain, so
// the process exits non-zero.
var ErrFindings = errors.New("contrast findings")

// app holds the state shared by every command for one invocation.
type app struct {
	fs      afero.Fs
	cfgFile string
	verbose bool
	quiet   bool
	format  string

	settings *config.Loader
	config   *config.Config
	logger   hclog.Logger

	stdin  io.Reader
	out    io.Writer
	errOut io.Writer
}

// NewRootCmd builds the svgtint command tree over the OS filesystem.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "svgtint",
		Short: "Check and fix SVG colour contrast for light and dark backgrounds",
		Long: `svgtint resolves every fill and stroke colour in an SVG, checks each one
for WCAG 2 and APCA-style contrast against a light and a dark background,
and suggests or applies replacement colours.

Dark mode overrides are read from data-dark-fill and data-dark-stroke
attributes, and written there when one colour cannot serve both
backgrounds.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/svgtint/svgtint.yaml)")
	flags.StringVarP(&a.format, "format", "f", formatText, "output format (text, json)")
	flags.String(config.KeyBackgroundLight, engine.DefaultBackgroundLight, "light background colour")
	flags.String(config.KeyBackgroundDark, engine.DefaultBackgroundDark, "dark background colour")
	flags.StringP(config.KeyMode, "m", "wcag", "metric that drives fixes (wcag, apca)")
	flags.Bool(config.KeyPreview, true, "show colour swatches when writing to a terminal")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newFixCmd(a),
		newContrastCmd(a),
		newSuggestCmd(a),
		newResolveCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup resolves configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.stdin = cmd.InOrStdin()
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	if a.verbose {
		a.logger = hclog.New(&hclog.LoggerOptions{
			Name:   "svgtint",
			Output: a.errOut,
			Level:  hclog.Debug,
		})
	} else {
		a.logger = hclog.New(&hclog.LoggerOptions{
			Name:   "svgtint",
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}

	if a.format != formatText && a.format != formatJSON {
		return fmt.Errorf("invalid output format: %s (valid: %s, %s)", a.format, formatText, formatJSON)
	}

	a.settings = config.NewLoader(a.fs)
	if err := a.settings.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := a.settings.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.config = cfg

	if used := a.settings.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config", "file", used)
	}
	a.logger.Debug("settings",
		"bg_light", cfg.BackgroundLight,
		"bg_dark", cfg.BackgroundDark,
		"mode", cfg.Mode)
	return nil
}

// engineOptions returns the engine settings with the command logger.
func (a *app) engineOptions() engine.Options {
	opts := a.config.EngineOptions()
	opts.Logger = a.logger.Named("engine")
	return opts
}

// loader returns a source loader bound to the command's streams.
func (a *app) loader() *source.Loader {
	return source.NewLoader(a.fs).WithStdio(a.stdin, a.out)
}

// status writes progress to stderr unless --quiet is set.
func (a *app) status(format string, args ...any) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.errOut, format+"\n", args...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
