package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/ports/driven"
	"github.com/custodia-labs/payroll/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyStorageBackend = "storage.backend"
	KeyStoragePath    = "storage.path"
	KeyStorageDSN     = "storage.dsn"
	KeyHTTPAddr       = "http.addr"
	KeyHTTPRateLimit  = "http.rate_limit"
	KeyHTTPBurst      = "http.burst"
)

// Default locations under the data directory.
const (
	defaultFileName  = "employees.json"
	defaultSQLiteDir = "data"
)

var settingKeys = []string{
	KeyStorageBackend,
	KeyStoragePath,
	KeyStorageDSN,
	KeyHTTPAddr,
	KeyHTTPRateLimit,
	KeyHTTPBurst,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
}

// NewSettingsService creates a new settings service.
// Relative and default storage paths are resolved against dataDir.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		dataDir:     dataDir,
	}
}

// Get retrieves current settings with defaults applied.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	backend := s.getBackend(defaults.Storage.Backend)
	settings := &domain.Settings{
		Storage: domain.StorageSettings{
			Backend: backend,
			Path:    s.resolvePath(backend, s.configStore.GetString(KeyStoragePath)),
			DSN:     s.configStore.GetString(KeyStorageDSN),
		},
		HTTP: domain.HTTPSettings{
			Addr:      s.getString(KeyHTTPAddr, defaults.HTTP.Addr),
			RateLimit: s.getInt(KeyHTTPRateLimit, defaults.HTTP.RateLimit),
			Burst:     s.getInt(KeyHTTPBurst, defaults.HTTP.Burst),
		},
	}

	if backend == domain.StoragePostgres && settings.Storage.DSN == "" {
		return settings, fmt.Errorf("%w: %s is required for the postgres backend", domain.ErrInvalidInput, KeyStorageDSN)
	}
	return settings, nil
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyStorageBackend:
		backend := domain.StorageBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
		return s.set(key, backend.String())
	case KeyStoragePath, KeyStorageDSN:
		return s.set(key, value)
	case KeyHTTPAddr:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		return s.set(key, value)
	case KeyHTTPRateLimit, KeyHTTPBurst:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.set(key, n)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Unset removes a stored setting so its default applies again.
func (s *SettingsService) Unset(key string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Keys lists the setting keys understood by Set.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// ConfigPath returns where settings are persisted.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) set(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// resolvePath applies the backend's default location and anchors relative paths.
func (s *SettingsService) resolvePath(backend domain.StorageBackend, path string) string {
	if !backend.IsLocalFile() {
		return path
	}
	if path == "" {
		if backend == domain.StorageSQLite {
			path = defaultSQLiteDir
		} else {
			path = defaultFileName
		}
	}
	if filepath.IsAbs(path) || s.dataDir == "" {
		return path
	}
	return filepath.Join(s.dataDir, path)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(KeyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(strings.ToLower(val))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func isSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}
