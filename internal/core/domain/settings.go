package domain

// DefaultDateLayout renders dates as a locale-invariant short date (month/day/year).
const DefaultDateLayout = "01/02/2006"

// RenderSettings controls how records are normalised for embedding.
type RenderSettings struct {
	// NormalizeFont strips visual formatting attributes and collapses
	// line breaks inside paragraphs.
	NormalizeFont bool

	// InlineImages replaces remote image references with data URIs.
	InlineImages bool

	// Sanitize drops markup that cannot be embedded (scripts, frames, forms).
	Sanitize bool

	// StripAttributes lists the attributes removed when NormalizeFont is set.
	StripAttributes []string

	// CollapseTags lists elements replaced by their visible text.
	CollapseTags []string

	// DateLayout is the Go time layout used for date values.
	DateLayout string

	// ImageConcurrency bounds concurrent image fetches within one field.
	ImageConcurrency int
}

// GitHubSettings configures the GitHub tracker.
type GitHubSettings struct {
	// Token is a Personal Access Token. Empty means anonymous access.
	Token string

	// BaseURL overrides the API endpoint (GitHub Enterprise).
	BaseURL string
}

// CacheSettings configures the fetched-resource cache.
type CacheSettings struct {
	Enabled bool

	// Dir is the directory holding the cache database.
	// Empty means ~/.docket/data.
	Dir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Render RenderSettings
	GitHub GitHubSettings
	Cache  CacheSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Render: RenderSettings{
			NormalizeFont:    false,
			InlineImages:     true,
			Sanitize:         true,
			StripAttributes:  []string{"style"},
			DateLayout:       DefaultDateLayout,
			ImageConcurrency: 4,
		},
		Cache: CacheSettings{
			Enabled: true,
		},
	}
}
