package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/svgtint/internal/engine"
	"github.com/jmylchreest/svgtint/internal/lint"
)

// analysis is the JSON shape of one analysed input.
type analysis struct {
	Path string `json:"path"`
	*engine.Report
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "analyze <file>...",
		Aliases: []string{"analyse", "lint"},
		Short:   "Report colour contrast findings for SVG files",
		Long: `Resolve every fill and stroke colour in each SVG and check it against the
light and dark backgrounds. Text is checked with WCAG and APCA, graphics
with WCAG only. Failing colour pairs are reported once each with a
suggested replacement.

Use "-" to read from stdin. Compressed inputs (.svgz, .gz, .xz, .bz2) are
decompressed automatically. The command exits non-zero when findings remain.

Examples:
  # Check a single icon
  svgtint analyze logo.svg

  # Check against a custom dark background, as JSON
  svgtint analyze --bg-dark "#1e1e2e" --format json icons/*.svg

  # Read from a pipe
  cat logo.svg | svgtint analyze -`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runAnalyze,
	}
}

// runAnalyze executes the analyze command.
func (a *app) runAnalyze(_ *cobra.Command, args []string) error {
	var (
		results  []analysis
		failures int
	)
	for _, path := range args {
		doc, err := a.loader().Load(path)
		if err != nil {
			return fmt.Errorf("failed to load input: %w", err)
		}
		a.logger.Debug("loaded input", "path", path, "bytes", len(doc.Text), "compression", doc.Compression.String())

		report, err := engine.Analyze(doc.Text, a.engineOptions())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		failures += len(report.Entries)
		results = append(results, analysis{Path: path, Report: report})
	}

	if a.format == formatJSON {
		if err := a.writeJSON(results); err != nil {
			return err
		}
	} else if !a.quiet {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(a.out)
			}
			a.printAnalysis(r)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d failing colour pair(s)", ErrFindings, failures)
	}
	return nil
}

func (a *app) printAnalysis(r analysis) {
	fmt.Fprintf(a.out, "%s: %d colour(s), %d failing pair(s)\n\n", r.Path, len(r.Colours), len(r.Entries))

	if len(r.Colours) > 0 {
		table := NewTable([]string{"Light", "Dark", "Uses", "Kind", "Tokens"})
		table.SetColumnMaxWidth(4, 40)
		for _, c := range r.Colours {
			table.AddRow([]string{
				a.swatch(c.Hex),
				a.swatch(c.DarkHex),
				strconv.Itoa(c.Count),
				kind(c.IsText, c.IsLarge),
				strings.Join(c.Tokens, " "),
			})
		}
		fmt.Fprint(a.out, table.Render())
	}

	for _, e := range r.Entries {
		fmt.Fprintln(a.out)
		a.printEntry(e)
	}
}

func (a *app) printEntry(e lint.Entry) {
	fmt.Fprintf(a.out, "%s %s %s x%d\n", a.badge(false), e.Key, kind(e.IsText, e.IsLarge), e.Count)
	for _, line := range strings.Split(e.Message, "\n") {
		fmt.Fprintf(a.out, "  %s\n", line)
	}
	if len(e.Tokens) > 0 {
		fmt.Fprintf(a.out, "  tokens: %s\n", strings.Join(append(append([]string{}, e.Tokens...), e.DarkTokens...), " "))
	}

	suggestion := a.swatch(e.Suggested)
	if e.SuggestedDark != "" && e.SuggestedDark != e.Suggested {
		suggestion += " (light), " + a.swatch(e.SuggestedDark) + " (dark)"
	}
	fmt.Fprintf(a.out, "  %s %s [%s]\n", a.warn("suggested:"), suggestion, e.Method)
}

// kind describes the usage category.
func kind(isText, isLarge bool) string {
	switch {
	case isText && isLarge:
		return "large text"
	case isText:
		return "text"
	default:
		return "graphic"
	}
}
