package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docket-cli/internal/core/ports/driving"
)

var (
	exportTemplate string
	exportPrefix   string
	exportChildren []string
	exportSkipHTML bool
	exportFormat   string
	exportTracker  string
	exportOutput   string
	exportStrict   bool
)

var childPrefixPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var exportCmd = &cobra.Command{
	Use:   "export <ref>",
	Short: "Export a record as a substitution dictionary",
	Long: `Fetch a record, normalise it and write the substitution dictionary.

The tracker is chosen from the reference unless --tracker is given:
YAML paths are record files, anything else is a GitHub issue.

Examples:
  docket export owner/repo#42
  docket export https://github.com/owner/repo/issues/42 --template report.params
  docket export owner/repo#42 --child owner/repo#43 --child task.=owner/repo#44
  docket export records/42.yaml --skip-html --format json -o 42.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "template declaring the expected parameters")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "prefix for the keys of the main record")
	exportCmd.Flags().StringArrayVar(&exportChildren, "child", nil, "embed another record as REF or PREFIX=REF (default prefix \"child.\")")
	exportCmd.Flags().BoolVar(&exportSkipHTML, "skip-html", false, "emit plain text for description and comments")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "output format (yaml, json)")
	exportCmd.Flags().StringVarP(&exportTracker, "tracker", "s", "", "tracker type (github, file)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().BoolVar(&exportStrict, "strict", false, "fail when template parameters have no value")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	req := driving.ExportRequest{
		Tracker:        exportTracker,
		Ref:            args[0],
		Prefix:         exportPrefix,
		Children:       parseChildren(exportChildren),
		TemplatePath:   exportTemplate,
		SkipHTMLFields: exportSkipHTML,
	}

	binding, err := exportService.Export(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if len(binding.Missing) > 0 {
		if exportStrict {
			return fmt.Errorf("template parameters without value: %s", strings.Join(binding.Missing, ", "))
		}
		cmd.PrintErrf("Warning: no value for %s\n", strings.Join(binding.Missing, ", "))
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := exportService.Render(cmd.Context(), binding, exportFormat, w); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if exportOutput != "" {
		cmd.PrintErrf("Wrote %d values to %s\n", binding.Dictionary.Len(), exportOutput)
	}
	return nil
}

// parseChildren splits PREFIX=REF values. A value whose part before "=" is
// not a plain key prefix is a bare reference.
func parseChildren(values []string) []driving.ChildRef {
	children := make([]driving.ChildRef, 0, len(values))
	for _, v := range values {
		prefix, ref, found := strings.Cut(v, "=")
		if !found || !childPrefixPattern.MatchString(prefix) {
			children = append(children, driving.ChildRef{Ref: v})
			continue
		}
		children = append(children, driving.ChildRef{Prefix: prefix, Ref: ref})
	}
	return children
}
