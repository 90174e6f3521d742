package driving

import "github.com/custodia-labs/docket-cli/internal/core/domain"

// SettingEntry is one setting in display form.
type SettingEntry struct {
	Key   string
	Value string

	// Default is true when the key is not configured.
	Default bool
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting from its textual form.
	// Returns domain.ErrInvalidInput for unknown keys or malformed values.
	Set(key, value string) error

	// Reset removes a configured value so its default applies again.
	// Returns domain.ErrInvalidInput for unknown keys.
	Reset(key string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// Entries returns every setting in display order. Secrets are masked.
	Entries() ([]SettingEntry, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
