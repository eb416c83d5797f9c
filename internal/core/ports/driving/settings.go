package driving

import "github.com/custodia-labs/payroll/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings with defaults applied.
	Get() (*domain.Settings, error)

	// Set validates and stores a single setting by key.
	Set(key, value string) error

	// Unset removes a stored setting so its default applies again.
	Unset(key string) error

	// Keys lists the setting keys understood by Set.
	Keys() []string

	// ConfigPath returns where settings are persisted.
	ConfigPath() string
}
