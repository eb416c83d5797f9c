package driven

// ConfigStore provides key/value access to application configuration.
// Keys use dot notation ("storage.backend"). Implementations handle
// persistence and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when missing or not a string.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when missing or not an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false when missing or not a boolean.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Unset removes a key and persists immediately. Removing a missing key is not an error.
	Unset(key string) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
