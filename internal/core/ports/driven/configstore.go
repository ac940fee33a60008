package driven

// ConfigStore provides typed access to application configuration.
// Implementations own persistence (the TOML file under ~/.recall)
// and the coercion rules for mismatched types.
type ConfigStore interface {
	// Get returns the raw value for key and whether it exists.
	Get(key string) (any, bool)

	// GetString returns the string value for key, or "" when the
	// key is missing or holds a different type.
	GetString(key string) string

	// GetInt returns the integer value for key, or 0 when the key
	// is missing or holds a non-numeric type.
	GetInt(key string) int

	// GetBool returns the boolean value for key, or false when the
	// key is missing or holds a different type.
	GetBool(key string) bool

	// GetStringSlice returns the string slice for key, or nil when
	// the key is missing or holds a non-slice type.
	GetStringSlice(key string) []string

	// Set stores a value under key. The value is persisted
	// immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
