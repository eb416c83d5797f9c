// Package bootstrap wires driven adapters and core services for the payroll binary.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/payroll/internal/adapters/driven/avatar"
	"github.com/custodia-labs/payroll/internal/adapters/driven/config/env"
	configfile "github.com/custodia-labs/payroll/internal/adapters/driven/config/file"
	filestore "github.com/custodia-labs/payroll/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/payroll/internal/adapters/driving/cli"
	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/ports/driven"
	"github.com/custodia-labs/payroll/internal/core/services"
	"github.com/custodia-labs/payroll/internal/logger"
)

// connectTimeout bounds opening a remote record store.
const connectTimeout = 10 * time.Second

// Ensure Build satisfies the CLI bootstrap contract.
var _ cli.Bootstrapper = Build

// Build loads configuration and opens the configured record store.
func Build(opts cli.BootstrapOptions) (*cli.Services, func() error, error) {
	if err := env.LoadDotEnv(); err != nil {
		return nil, nil, err
	}

	dir := opts.ConfigDir
	if dir == "" {
		d, err := configfile.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
		dir = d
	}

	fileConfig, err := configfile.NewConfigStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(env.NewConfigStore(fileConfig), dir)

	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, noop, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}

	store, watch, closer, err := OpenRecordStore(settings.Storage)
	if err != nil {
		return nil, nil, err
	}

	logger.Section("Storage")
	logger.Info("Backend: %s", settings.Storage.Backend.Description())
	if settings.Storage.Backend.IsLocalFile() {
		logger.Info("Path: %s", settings.Storage.Path)
	}

	payroll := services.NewPayrollService(store, avatar.NewURLBuilder(""))
	return &cli.Services{
		Payroll:  payroll,
		Settings: settingsService,
		Watch:    watch,
	}, closer, nil
}

// OpenRecordStore opens the record store selected by cfg.
// The watch function is nil for backends that cannot be observed.
func OpenRecordStore(cfg domain.StorageSettings) (driven.RecordStore, cli.Watch, func() error, error) {
	switch cfg.Backend {
	case domain.StorageFile:
		store, err := filestore.NewRecordStore(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		watch := func() (<-chan struct{}, func() error, error) {
			w, err := filestore.NewWatcher(store.Path())
			if err != nil {
				return nil, nil, err
			}
			return w.Changes(), w.Close, nil
		}
		return store, watch, noop, nil

	case domain.StorageSQLite:
		db, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return db.RecordStore(), nil, db.Close, nil

	case domain.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		pg, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return pg, nil, func() error {
			pg.Close()
			return nil
		}, nil

	case domain.StorageMemory:
		return memory.NewRecordStore(), nil, noop, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}

func noop() error { return nil }
