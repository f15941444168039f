package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	"github.com/mstolarz/astro-advisor/internal/domain/planner"
	"github.com/mstolarz/astro-advisor/internal/infra/conditionscache"
	"github.com/mstolarz/astro-advisor/internal/infra/config"
	"github.com/mstolarz/astro-advisor/internal/infra/equipmentfile"
	"github.com/mstolarz/astro-advisor/internal/infra/llm/canned"
	"github.com/mstolarz/astro-advisor/internal/infra/llm/gemini"
	"github.com/mstolarz/astro-advisor/internal/infra/llm/openai"
	"github.com/mstolarz/astro-advisor/internal/infra/reportarchive"
	"github.com/mstolarz/astro-advisor/internal/infra/reportstore"
	"github.com/mstolarz/astro-advisor/internal/infra/visibilityfile"
	"github.com/mstolarz/astro-advisor/internal/infra/weather/openweather"
)

func provideCatalog(cfg *config.Config) (*equipment.Catalog, error) {
	return equipmentfile.Load(cfg.Equipment.Path)
}

func providePlannerConfig(cfg *config.Config) planner.Config {
	return planner.Config{
		LocationName:    cfg.Site.Name,
		Latitude:        cfg.Site.Latitude,
		Longitude:       cfg.Site.Longitude,
		BortleClass:     cfg.Site.BortleClass,
		LightDome:       cfg.Site.LightDome,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		MaxTargetRows:   cfg.Planner.MaxTargetRows,
		MaxPromptTokens: cfg.Planner.MaxPromptTokens,
		Instructions:    cfg.Planner.Instructions,
	}
}

func provideConditionsConfig(cfg *config.Config) conditions.Config {
	return conditions.Config{
		Latitude:  cfg.Site.Latitude,
		Longitude: cfg.Site.Longitude,
		CacheTTL:  cfg.Weather.CacheTTL,
	}
}

func provideWeatherFetcher(cfg *config.Config) conditions.Fetcher {
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Timeout)
}

func provideConditionsCache(cfg *config.Config, logger *slog.Logger) conditions.Cache {
	if cfg.Weather.Valkey.Enabled {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{cfg.Weather.Valkey.Addr},
		})
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return conditionscache.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("conditions valkey cache enabled", "addr", cfg.Weather.Valkey.Addr)
			return conditionscache.NewValkeyCache(client)
		}
	}
	return conditionscache.NewMemoryCache()
}

func provideGenerator(cfg *config.Config) (planner.Generator, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	case "openai":
		return openai.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	case "canned":
		return canned.New(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func provideVisibilitySource(cfg *config.Config) planner.VisibilitySource {
	return visibilityfile.New(cfg.Planner.VisibilityPath)
}

func provideArchive(cfg *config.Config, logger *slog.Logger) planner.Archive {
	fallback := reportarchive.NewMemoryArchive()
	dsn := strings.TrimSpace(cfg.Reports.Postgres.DSN)
	if dsn == "" {
		logger.Info("reports postgres dsn not set, using memory archive")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory archive", "error", err)
		return fallback
	}
	if cfg.Reports.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Reports.Postgres.MaxConns
	}
	if cfg.Reports.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Reports.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory archive", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory archive", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("reports postgres archive enabled")
	return reportarchive.NewPostgresArchive(pool)
}

func provideReportStore(cfg *config.Config, logger *slog.Logger) (planner.ReportStore, error) {
	if cfg.Reports.S3.Enabled {
		store, err := reportstore.NewS3Store(
			cfg.Reports.S3.Endpoint,
			cfg.Reports.S3.AccessKey,
			cfg.Reports.S3.SecretKey,
			cfg.Reports.S3.Bucket,
			cfg.Reports.S3.UseSSL,
			logger,
		)
		if err != nil {
			return nil, err
		}
		logger.Info("s3 report store enabled", "bucket", cfg.Reports.S3.Bucket)
		return store, nil
	}
	return reportstore.NewLocalStore(cfg.Reports.Dir)
}
