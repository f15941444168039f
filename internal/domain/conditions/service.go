package conditions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
)

// Service exposes the current sky conditions for the configured site.
type Service interface {
	Current(ctx context.Context) (Conditions, error)
}

// Fetcher abstracts the upstream weather provider.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (Reading, error)
}

// Cache is a read-through store for normalized conditions so repeated report
// runs within the TTL do not hammer the provider.
type Cache interface {
	Get(ctx context.Context, key string) (Conditions, bool, error)
	Set(ctx context.Context, key string, cond Conditions, ttl time.Duration) error
}

// Config carries the site coordinates and caching policy.
type Config struct {
	Latitude  float64
	Longitude float64
	CacheTTL  time.Duration
}

type service struct {
	cfg     Config
	fetcher Fetcher
	cache   Cache
	logger  *slog.Logger
}

// NewService wires up the conditions domain.
func NewService(cfg Config, fetcher Fetcher, cache Cache, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		fetcher: fetcher,
		cache:   cache,
		logger:  logger.With("component", "conditions.service"),
	}
}

func (s *service) Current(ctx context.Context) (Conditions, error) {
	key := s.cacheKey()
	if s.cache != nil && s.cfg.CacheTTL > 0 {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("conditions cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	reading, err := s.fetcher.Fetch(ctx, s.cfg.Latitude, s.cfg.Longitude)
	if err != nil {
		return Conditions{}, apperrors.Wrap(apperrors.CodeWeather, "weather fetch failed", err)
	}

	cond := Normalize(reading)
	s.logger.Info("conditions fetched",
		"seeing", cond.Seeing,
		"description", cond.Description,
	)

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := s.cache.Set(ctx, key, cond, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("conditions cache write failed", "error", err)
		}
	}
	return cond, nil
}

func (s *service) cacheKey() string {
	return fmt.Sprintf("conditions:%.4f:%.4f", s.cfg.Latitude, s.cfg.Longitude)
}
