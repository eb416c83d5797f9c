// Package env layers environment variable overrides over another config store.
//
// A key such as "http.rate_limit" is read from PAYROLL_HTTP_RATE_LIMIT.
// Variables may also come from a .env file loaded with LoadDotEnv.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/payroll/internal/core/ports/driven"
	"github.com/custodia-labs/payroll/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Prefix is prepended to every environment variable name.
const Prefix = "PAYROLL_"

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are given. Missing files are ignored. Variables already set in the
// environment are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
		logger.Debug("Loaded environment from %s", p)
	}
	return nil
}

// VarName returns the environment variable consulted for a config key.
func VarName(key string) string {
	return Prefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// ConfigStore reads overrides from the environment and delegates the rest.
// Writes go to the underlying store only, so a set variable keeps winning
// over a persisted value until it is unset.
type ConfigStore struct {
	base   driven.ConfigStore
	lookup func(string) (string, bool)
}

// NewConfigStore wraps base with environment overrides.
func NewConfigStore(base driven.ConfigStore) *ConfigStore {
	return &ConfigStore{base: base, lookup: os.LookupEnv}
}

func (s *ConfigStore) env(key string) (string, bool) {
	return s.lookup(VarName(key))
}

// Get returns the raw environment string when set, otherwise the base value.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := s.env(key); ok {
		return v, true
	}
	return s.base.Get(key)
}

// GetString retrieves a string value.
func (s *ConfigStore) GetString(key string) string {
	if v, ok := s.env(key); ok {
		return v
	}
	return s.base.GetString(key)
}

// GetInt retrieves an integer value. An unparsable variable reads as 0.
func (s *ConfigStore) GetInt(key string) int {
	if v, ok := s.env(key); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			logger.Warn("Ignoring %s=%q: not an integer", VarName(key), v)
			return 0
		}
		return n
	}
	return s.base.GetInt(key)
}

// GetBool retrieves a boolean value. An unparsable variable reads as false.
func (s *ConfigStore) GetBool(key string) bool {
	if v, ok := s.env(key); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			logger.Warn("Ignoring %s=%q: not a boolean", VarName(key), v)
			return false
		}
		return b
	}
	return s.base.GetBool(key)
}

// Set stores a value in the underlying store.
func (s *ConfigStore) Set(key string, value any) error {
	if _, ok := s.env(key); ok {
		logger.Warn("%s is set and overrides %s", VarName(key), key)
	}
	return s.base.Set(key, value)
}

// Unset removes a value from the underlying store.
func (s *ConfigStore) Unset(key string) error {
	return s.base.Unset(key)
}

// Save persists the underlying store.
func (s *ConfigStore) Save() error {
	return s.base.Save()
}

// Load reloads the underlying store.
func (s *ConfigStore) Load() error {
	return s.base.Load()
}

// Path returns the underlying configuration file path.
func (s *ConfigStore) Path() string {
	return s.base.Path()
}
