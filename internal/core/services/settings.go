package services

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyNormalizeFont    = "render.normalize_font"
	keyInlineImages     = "render.inline_images"
	keySanitize         = "render.sanitize"
	keyStripAttributes  = "render.strip_attributes"
	keyCollapseTags     = "render.collapse_tags"
	keyDateLayout       = "render.date_layout"
	keyImageConcurrency = "render.image_concurrency"
	keyGitHubToken      = "github.token"
	keyGitHubBaseURL    = "github.base_url"
	keyCacheEnabled     = "cache.enabled"
	keyCacheDir         = "cache.dir"
)

// maxImageConcurrency caps render.image_concurrency.
const maxImageConcurrency = 32

// settingKeys is the display order of the settable keys.
var settingKeys = []string{
	keyNormalizeFont,
	keyInlineImages,
	keySanitize,
	keyStripAttributes,
	keyCollapseTags,
	keyDateLayout,
	keyImageConcurrency,
	keyGitHubToken,
	keyGitHubBaseURL,
	keyCacheEnabled,
	keyCacheDir,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values fall
// back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Render: domain.RenderSettings{
			NormalizeFont:    s.getBool(keyNormalizeFont, defaults.Render.NormalizeFont),
			InlineImages:     s.getBool(keyInlineImages, defaults.Render.InlineImages),
			Sanitize:         s.getBool(keySanitize, defaults.Render.Sanitize),
			StripAttributes:  s.getStringSlice(keyStripAttributes, defaults.Render.StripAttributes),
			CollapseTags:     s.getStringSlice(keyCollapseTags, defaults.Render.CollapseTags),
			DateLayout:       s.getString(keyDateLayout, defaults.Render.DateLayout),
			ImageConcurrency: s.getImageConcurrency(defaults.Render.ImageConcurrency),
		},
		GitHub: domain.GitHubSettings{
			Token:   s.configStore.GetString(keyGitHubToken),
			BaseURL: s.configStore.GetString(keyGitHubBaseURL),
		},
		Cache: domain.CacheSettings{
			Enabled: s.getBool(keyCacheEnabled, defaults.Cache.Enabled),
			Dir:     s.configStore.GetString(keyCacheDir),
		},
	}

	return settings, nil
}

// Save persists application settings. An empty token leaves the stored
// token untouched.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("settings: %w", domain.ErrInvalidInput)
	}

	type setting struct {
		key   string
		value any
	}
	values := []setting{
		{keyNormalizeFont, settings.Render.NormalizeFont},
		{keyInlineImages, settings.Render.InlineImages},
		{keySanitize, settings.Render.Sanitize},
		{keyStripAttributes, settings.Render.StripAttributes},
		{keyCollapseTags, settings.Render.CollapseTags},
		{keyDateLayout, settings.Render.DateLayout},
		{keyImageConcurrency, settings.Render.ImageConcurrency},
		{keyGitHubBaseURL, settings.GitHub.BaseURL},
		{keyCacheEnabled, settings.Cache.Enabled},
		{keyCacheDir, settings.Cache.Dir},
	}
	if settings.GitHub.Token != "" {
		values = append(values, setting{keyGitHubToken, settings.GitHub.Token})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	parsed, err := parseSetting(key, strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes key from the store so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// Entries returns the effective value of every setting.
func (s *SettingsService) Entries() ([]driving.SettingEntry, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	entries := make([]driving.SettingEntry, 0, len(settingKeys))
	for _, key := range settingKeys {
		_, configured := s.configStore.Get(key)
		entries = append(entries, driving.SettingEntry{
			Key:     key,
			Value:   displayValue(settings, key),
			Default: !configured,
		})
	}
	return entries, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func parseSetting(key, value string) (any, error) {
	switch key {
	case keyNormalizeFont, keyInlineImages, keySanitize, keyCacheEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		return b, nil

	case keyImageConcurrency:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > maxImageConcurrency {
			return nil, fmt.Errorf("%w: %s expects 1-%d, got %q", domain.ErrInvalidInput, key, maxImageConcurrency, value)
		}
		return n, nil

	case keyStripAttributes, keyCollapseTags:
		var attrs []string
		for _, a := range strings.Split(value, ",") {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				attrs = append(attrs, a)
			}
		}
		if attrs == nil {
			attrs = []string{}
		}
		return attrs, nil

	case keyDateLayout:
		if value == "" {
			return nil, fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		return value, nil

	case keyGitHubBaseURL:
		if value == "" {
			return value, nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: %s expects an http(s) URL, got %q", domain.ErrInvalidInput, key, value)
		}
		return value, nil

	case keyGitHubToken, keyCacheDir:
		return value, nil

	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

func displayValue(settings *domain.AppSettings, key string) string {
	switch key {
	case keyNormalizeFont:
		return strconv.FormatBool(settings.Render.NormalizeFont)
	case keyInlineImages:
		return strconv.FormatBool(settings.Render.InlineImages)
	case keySanitize:
		return strconv.FormatBool(settings.Render.Sanitize)
	case keyStripAttributes:
		return strings.Join(settings.Render.StripAttributes, ",")
	case keyCollapseTags:
		return strings.Join(settings.Render.CollapseTags, ",")
	case keyDateLayout:
		return settings.Render.DateLayout
	case keyImageConcurrency:
		return strconv.Itoa(settings.Render.ImageConcurrency)
	case keyGitHubToken:
		return maskToken(settings.GitHub.Token)
	case keyGitHubBaseURL:
		return settings.GitHub.BaseURL
	case keyCacheEnabled:
		return strconv.FormatBool(settings.Cache.Enabled)
	case keyCacheDir:
		return settings.Cache.Dir
	default:
		return ""
	}
}

// maskToken keeps the last four characters of long tokens.
func maskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 8:
		return "****"
	default:
		return "****" + token[len(token)-4:]
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getImageConcurrency(defaultVal int) int {
	n := s.configStore.GetInt(keyImageConcurrency)
	if n < 1 || n > maxImageConcurrency {
		return defaultVal
	}
	return n
}
