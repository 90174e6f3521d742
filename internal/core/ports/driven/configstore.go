package driven

// ConfigStore holds docket's user settings as flat dotted keys such as
// "render.date_layout". Typed getters return the zero value for missing keys
// or values of another type.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores value under key and persists it. On a persistence error the
	// previous value is kept.
	Set(key string, value any) error

	// Unset removes key and persists the change. Removing a missing key is
	// not an error.
	Unset(key string) error

	// Keys returns the set keys in sorted order.
	Keys() []string

	Save() error
	Load() error

	// Path identifies the backing file, or ":memory:".
	Path() string
}
