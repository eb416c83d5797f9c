package domain

const unknownDescription = "Unknown"

// StorageBackend selects the medium that holds the employee collection.
type StorageBackend string

// Available storage backends.
const (
	// StorageFile keeps the collection in a human-readable JSON file.
	StorageFile StorageBackend = "file"

	// StorageSQLite keeps the collection in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres keeps the collection in a PostgreSQL table.
	StoragePostgres StorageBackend = "postgres"

	// StorageMemory keeps the collection in process memory. Nothing survives a restart.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageFile, StorageSQLite, StoragePostgres, StorageMemory:
		return true
	default:
		return false
	}
}

// IsLocalFile returns true if the backend persists to a path on the local filesystem.
func (b StorageBackend) IsLocalFile() bool {
	return b == StorageFile || b == StorageSQLite
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageFile:
		return "JSON file"
	case StorageSQLite:
		return "SQLite database"
	case StoragePostgres:
		return "PostgreSQL"
	case StorageMemory:
		return "In-memory (volatile)"
	default:
		return unknownDescription
	}
}

// StorageSettings configures the record store.
type StorageSettings struct {
	// Backend selects the storage medium.
	Backend StorageBackend

	// Path is the JSON file (file backend) or data directory (sqlite backend).
	Path string

	// DSN is the connection string for the postgres backend.
	DSN string
}

// HTTPSettings configures the dashboard HTTP server.
type HTTPSettings struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string

	// RateLimit is the sustained requests per second allowed. Zero disables limiting.
	RateLimit int

	// Burst is the token bucket size used with RateLimit.
	Burst int
}

// Settings holds application configuration.
type Settings struct {
	Storage StorageSettings
	HTTP    HTTPSettings
}

// DefaultSettings returns the default configuration.
// Storage.Path is left empty and resolved against the config directory.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{
			Backend: StorageFile,
		},
		HTTP: HTTPSettings{
			Addr:      ":3000",
			RateLimit: 0,
			Burst:     20,
		},
	}
}
