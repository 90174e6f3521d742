package github

import (
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

const (
	// DefaultWebURL is the web base of github.com.
	DefaultWebURL = "https://github.com"

	// TrackerType is the tracker type identifier.
	TrackerType = "github"
)

// Config holds the connection settings of a GitHub tracker.
type Config struct {
	// BaseURL is the REST API base. Empty means api.github.com.
	// GitHub Enterprise uses https://<host>/api/v3/.
	BaseURL string

	// WebURL is the web base used to build attachment URLs.
	// Defaults to https://github.com, or the scheme and host of BaseURL.
	WebURL string

	// RequestRate is the proactive throttle in requests per second.
	// Zero means ProactiveRate.
	RequestRate rate.Limit
}

// ConfigFromSettings derives the connection settings from application settings.
func ConfigFromSettings(s domain.GitHubSettings) Config {
	return Config{BaseURL: s.BaseURL}
}

func (c Config) withDefaults() Config {
	if c.WebURL == "" {
		c.WebURL = webURLFromBase(c.BaseURL)
	}
	c.WebURL = strings.TrimSuffix(c.WebURL, "/")
	if c.RequestRate == 0 {
		c.RequestRate = rate.Limit(ProactiveRate)
	}
	return c
}

// webURLFromBase maps an Enterprise API base to its web host.
func webURLFromBase(base string) string {
	if base == "" || strings.Contains(base, "api.github.com") {
		return DefaultWebURL
	}
	if i := strings.Index(base, "/api/"); i > 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, "/")
}
