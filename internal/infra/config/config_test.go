package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-dir", "config.yaml"))

	_, err := Load()
	require.Error(t, err, "explicit CONFIG_PATH pointing nowhere must fail loudly")

	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "gemini", cfg.LLM.Provider)
	require.Equal(t, 12, cfg.Planner.MaxTargetRows)
	require.Equal(t, 15*time.Minute, cfg.Weather.CacheTTL)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
site:
  name: "Cherry Springs"
  latitude: 41.6626
  longitude: -77.8261
  bortleClass: 2
  lightDome: "northeast"
llm:
  provider: canned
  model: stub-1
weather:
  cacheTtl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "stub-2")
	t.Setenv("SITE_BORTLE_CLASS", "3")
	t.Setenv("HTTP_RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "Cherry Springs", cfg.Site.Name)
	require.Equal(t, "canned", cfg.LLM.Provider)
	// Environment wins over the file.
	require.Equal(t, "stub-2", cfg.LLM.Model)
	require.Equal(t, 3, cfg.Site.BortleClass)
	require.False(t, cfg.HTTP.RateLimit.Enabled)
	require.Equal(t, 5*time.Minute, cfg.Weather.CacheTTL)
	// Untouched sections keep their defaults.
	require.Equal(t, "configs/equipment.json", cfg.Equipment.Path)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.LLM.Provider = "mystery" }},
		{"empty model", func(c *Config) { c.LLM.Model = " " }},
		{"latitude out of range", func(c *Config) { c.Site.Latitude = 123 }},
		{"bortle out of range", func(c *Config) { c.Site.BortleClass = 10 }},
		{"temperature out of range", func(c *Config) { c.LLM.Temperature = 1.5 }},
		{"negative cache ttl", func(c *Config) { c.Weather.CacheTTL = -time.Minute }},
		{"valkey enabled without addr", func(c *Config) { c.Weather.Valkey.Enabled = true }},
		{"s3 enabled without bucket", func(c *Config) {
			c.Reports.S3.Enabled = true
			c.Reports.S3.Endpoint = "minio:9000"
		}},
		{"auth enabled without secret", func(c *Config) { c.Auth.Enabled = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
