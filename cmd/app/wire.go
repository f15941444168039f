//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/mstolarz/astro-advisor/internal/bootstrap"
	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/planner"
	"github.com/mstolarz/astro-advisor/internal/infra/config"
	httpiface "github.com/mstolarz/astro-advisor/internal/interface/http"
	"github.com/mstolarz/astro-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideCatalog,
		providePlannerConfig,
		provideConditionsConfig,
		provideWeatherFetcher,
		provideConditionsCache,
		provideGenerator,
		provideVisibilitySource,
		provideArchive,
		provideReportStore,
		conditions.NewService,
		planner.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
