package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docket-cli/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=1.2.3".
var version = "dev"

var (
	verbose  bool
	logLevel string
)

// Services used by the commands. Nil services make the commands fail with a
// "not configured" error.
var (
	exportService   driving.ExportService
	settingsService driving.SettingsService
	tokenProvider   driven.TokenProvider
	resourceCache   driven.ManagedCache
)

// Dependencies are the services injected by main.
type Dependencies struct {
	Export   driving.ExportService
	Settings driving.SettingsService

	// Token reports the GitHub authentication state. Optional.
	Token driven.TokenProvider

	// Cache is the persistent resource cache. Nil when caching is disabled.
	Cache driven.ManagedCache
}

var rootCmd = &cobra.Command{
	Use:   "docket",
	Short: "Bind tracker records to document templates",
	Long: `docket fetches a work item from a tracker, normalises its fields,
history and rich text, and emits the substitution dictionary a document
template is filled from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		logger.SetVerbose(verbose)
		if logLevel == "" {
			return nil
		}
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "lowest level logged to stderr: debug, info, warn or error")
}

// SetDependencies wires the services used by the commands.
func SetDependencies(deps Dependencies) {
	exportService = deps.Export
	settingsService = deps.Settings
	tokenProvider = deps.Token
	resourceCache = deps.Cache
}

// Execute runs the root command. Command output goes to stdout, errors
// and warnings to stderr.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}
