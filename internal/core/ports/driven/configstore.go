package driven

// ConfigStore holds configuration as dotted keys such as "folder.watch".
// Typed getters return the zero value when a key is missing or holds
// another type; callers apply their own defaults.
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns a string value.
	GetString(key string) string

	// GetInt returns an integer value. Stores decoding numbers as int64
	// convert them.
	GetInt(key string) int

	// GetBool returns a boolean value.
	GetBool(key string) bool

	// GetStringSlice returns a copy of a list of strings. Non-string
	// elements of lists decoded as []any are skipped.
	GetStringSlice(key string) []string

	// Set stores a value and persists it. On failure the previous value
	// is kept.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load replaces the current configuration with the persisted one.
	Load() error

	// Path returns where the configuration is persisted.
	Path() string
}
