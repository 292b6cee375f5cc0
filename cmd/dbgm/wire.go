package main

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/dbgm/internal/adapters/driven/config/file"
	"github.com/custodia-labs/dbgm/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dbgm/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dbgm/internal/adapters/driving/cli"
	"github.com/custodia-labs/dbgm/internal/connectors/folder"
	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
	"github.com/custodia-labs/dbgm/internal/core/ports/driving"
	"github.com/custodia-labs/dbgm/internal/core/services"
	"github.com/custodia-labs/dbgm/internal/logger"
)

// buildServices wires the file config store into the settings service.
func buildServices(configDir string) (*cli.Services, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("config: %s", store.Path())

	return &cli.Services{
		Settings: services.NewSettingsService(store),
		Catalogs: openCatalog,
	}, nil
}

// cachedCatalog closes the dimension cache store along with the catalog.
type cachedCatalog struct {
	*services.Catalog
	store *sqlite.Store
}

func (c *cachedCatalog) Close() error {
	return errors.Join(c.Catalog.Close(), c.store.Close())
}

// openCatalog builds a catalog with one folder source per folder. The
// dimension cache lives in SQLite when cache.path is set.
func openCatalog(settings *domain.Settings, folders []string) (driving.Catalog, error) {
	var (
		cache driven.DimensionCache = memory.NewDimensionCache()
		store *sqlite.Store
	)
	if settings.Cache.Path != "" {
		s, err := sqlite.NewStore(settings.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("open dimension cache: %w", err)
		}
		logger.Debug("dimension cache: %s", s.Path())
		store, cache = s, s.DimensionCache()
	}

	catalog := services.NewCatalog()
	if settings.Catalog.Name != "" {
		catalog.SetName(settings.Catalog.Name)
	}
	if settings.Catalog.ImageFolder != "" {
		catalog.SetImageFolder(settings.Catalog.ImageFolder)
	}

	for _, path := range folders {
		src, err := folder.New(path, folder.OptionsFromSettings(settings.Folder, cache))
		if err == nil {
			catalog.AddSource(src.Erased())
			continue
		}
		err = errors.Join(err, catalog.Close())
		if store != nil {
			err = errors.Join(err, store.Close())
		}
		return nil, err
	}

	if store == nil {
		return catalog, nil
	}
	return &cachedCatalog{Catalog: catalog, store: store}, nil
}
