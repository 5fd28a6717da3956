package app

import (
	"fmt"
	"io/fs"

	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/store"
	"github.com/rs/zerolog"
)

type App struct {
	Service *service.Service
	Store   store.Repository
	Config  *config.Config
	Log     *zerolog.Logger

	// StoragePath is the resolved database or log file location
	StoragePath string
	// Recovered counts torn records dropped while opening a file store
	Recovered int
}

// NewApp opens the configured store and wires the services on top of it
func NewApp(cfg *config.Config, migrationFS fs.FS, log *zerolog.Logger) (*App, func(), error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve storage path: %w", err)
	}

	repo, recovered, err := OpenStore(cfg.Storage.Driver, path, migrationFS, log)
	if err != nil {
		return nil, nil, err
	}

	svc, err := service.NewService(repo, cfg, log)
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Str("path", path).Msg("error closing store")
		}
	}

	return &App{
		Service:     svc,
		Store:       repo,
		Config:      cfg,
		Log:         log,
		StoragePath: path,
		Recovered:   recovered,
	}, cleanup, nil
}

// OpenStore opens the repository for driver at path. For the file driver it
// also reports how many torn records were dropped.
func OpenStore(driver, path string, migrationFS fs.FS, log *zerolog.Logger) (store.Repository, int, error) {
	switch driver {
	case constants.DriverSQLite:
		s, err := store.NewStore(path, migrationFS, log)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to initialize database: %w", err)
		}
		return s, 0, nil
	case constants.DriverFile:
		s, err := store.OpenFileStore(path, log)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to open store file: %w", err)
		}
		return s, s.RecoveredRecords(), nil
	default:
		return nil, 0, fmt.Errorf("%w: %s", store.ErrUnknownDriver, driver)
	}
}
