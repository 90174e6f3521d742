// Command docket binds tracker records to document templates.
package main

import (
	"os"

	"github.com/custodia-labs/docket-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/docket-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docket-cli/internal/adapters/driven/render"
	"github.com/custodia-labs/docket-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docket-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docket-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/core/services"
	"github.com/custodia-labs/docket-cli/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Error("failed to open config: %v", err)
		return 1
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		logger.Error("failed to load settings: %v", err)
		return 1
	}

	tokenProvider := auth.NewTokenProvider(configStore)
	trackers := services.NewTrackerRegistry(tokenProvider)

	// Images are cached for this run only when the database cannot be opened.
	var cache driven.ManagedCache
	var exportCache driven.ResourceCache = memory.NewResourceCache()
	if settings.Cache.Enabled {
		store, err := sqlite.NewStore(settings.Cache.Dir)
		if err != nil {
			logger.Warn("resource cache unavailable, caching in memory: %v", err)
		} else {
			defer store.Close()
			cache = store.ResourceCache()
			exportCache = cache
		}
	}

	cli.SetDependencies(cli.Dependencies{
		Export: services.NewExportService(
			settingsService,
			trackers,
			exportCache,
			render.NewYAMLRenderer(),
			render.NewJSONRenderer(),
		),
		Settings: settingsService,
		Token:    tokenProvider,
		Cache:    cache,
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
