package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docket-cli/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect template documents",
}

var templateParamsCmd = &cobra.Command{
	Use:   "params <file>",
	Short: "List the parameters a template declares",
	Long: `Print the parameter names declared by the template's [[parameters]]
sections, one per line in document order. Duplicates are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateParams,
}

func init() {
	templateCmd.AddCommand(templateParamsCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateParams(cmd *cobra.Command, args []string) error {
	tmpl, err := template.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	for _, name := range tmpl.Parameters() {
		cmd.Println(name)
	}
	return nil
}
