package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change rendering, GitHub and cache settings.

Settings are stored in ~/.docket/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting. Lists are comma separated.

Examples:
  docket settings set render.normalize_font true
  docket settings set render.strip_attributes style,class
  docket settings set github.base_url https://ghe.example.com/api/v3/`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	entries, err := settingsService.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Key))
	}

	section := ""
	for _, e := range entries {
		if s, _, _ := strings.Cut(e.Key, "."); s != section {
			if section != "" {
				cmd.Println()
			}
			section = s
			cmd.Printf("[%s]\n", section)
		}

		value := e.Value
		if value == "" {
			value = "(not set)"
		}
		if e.Default {
			value += " (default)"
		}
		cmd.Printf("  %-*s  %s\n", width, e.Key, value)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to save setting: %w\nvalid keys: %s", err, strings.Join(settingsService.Keys(), ", "))
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset setting: %w\nvalid keys: %s", err, strings.Join(settingsService.Keys(), ", "))
	}
	cmd.Printf("%s reset to default\n", args[0])
	return nil
}
