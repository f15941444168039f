package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Site      SiteConfig      `yaml:"site"`
	Equipment EquipmentConfig `yaml:"equipment"`
	Weather   WeatherConfig   `yaml:"weather"`
	LLM       LLMConfig       `yaml:"llm"`
	Planner   PlannerConfig   `yaml:"planner"`
	Reports   ReportsConfig   `yaml:"reports"`
	Auth      AuthConfig      `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// SiteConfig describes the fixed observing location.
type SiteConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	// BortleClass is the local sky brightness class (1 darkest, 9 inner
	// city). LightDome names the compass direction of the worst glow.
	BortleClass int    `yaml:"bortleClass"`
	LightDome   string `yaml:"lightDome"`
}

// EquipmentConfig points at the equipment catalog document.
type EquipmentConfig struct {
	Path string `yaml:"path"`
}

// WeatherConfig contains the weather provider settings and caching policy.
type WeatherConfig struct {
	APIKey   string        `yaml:"apiKey"`
	BaseURL  string        `yaml:"baseUrl"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cacheTtl"`
	Valkey   ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the conditions cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LLMConfig selects and configures the generation backend.
type LLMConfig struct {
	// Provider is one of gemini, openai, or canned.
	Provider        string  `yaml:"provider"`
	APIKey          string  `yaml:"apiKey"`
	BaseURL         string  `yaml:"baseUrl"`
	Model           string  `yaml:"model"`
	MaxOutputTokens int     `yaml:"maxOutputTokens"`
	Temperature     float32 `yaml:"temperature"`
}

// PlannerConfig tunes prompt assembly.
type PlannerConfig struct {
	MaxTargetRows   int    `yaml:"maxTargetRows"`
	MaxPromptTokens int    `yaml:"maxPromptTokens"`
	VisibilityPath  string `yaml:"visibilityPath"`
	Instructions    string `yaml:"instructions"`
}

// ReportsConfig controls where generated documents and run records land.
type ReportsConfig struct {
	Dir      string         `yaml:"dir"`
	Postgres PostgresConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
}

// PostgresConfig contains DSN and pooling settings for the report archive.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// S3Config contains object storage settings for report documents.
type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSsl"`
}

// AuthConfig guards the report generation endpoint.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwtSecret"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = envBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("SITE_NAME"); v != "" {
		cfg.Site.Name = v
	}
	if v := os.Getenv("SITE_LATITUDE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Site.Latitude = parsed
		}
	}
	if v := os.Getenv("SITE_LONGITUDE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Site.Longitude = parsed
		}
	}
	if v := os.Getenv("SITE_BORTLE_CLASS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Site.BortleClass = parsed
		}
	}
	if v := os.Getenv("SITE_LIGHT_DOME"); v != "" {
		cfg.Site.LightDome = v
	}
	if v := os.Getenv("EQUIPMENT_PATH"); v != "" {
		cfg.Equipment.Path = v
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.CacheTTL = parsed
		}
	}
	if v := os.Getenv("WEATHER_VALKEY_ENABLED"); v != "" {
		cfg.Weather.Valkey.Enabled = envBool(v)
	}
	if v := os.Getenv("WEATHER_VALKEY_ADDR"); v != "" {
		cfg.Weather.Valkey.Addr = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_MAX_OUTPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxOutputTokens = parsed
		}
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("PLANNER_MAX_TARGET_ROWS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Planner.MaxTargetRows = parsed
		}
	}
	if v := os.Getenv("PLANNER_MAX_PROMPT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Planner.MaxPromptTokens = parsed
		}
	}
	if v := os.Getenv("PLANNER_VISIBILITY_PATH"); v != "" {
		cfg.Planner.VisibilityPath = v
	}
	if v := os.Getenv("PLANNER_INSTRUCTIONS"); v != "" {
		cfg.Planner.Instructions = v
	}
	if v := os.Getenv("REPORTS_DIR"); v != "" {
		cfg.Reports.Dir = v
	}
	if v := os.Getenv("REPORTS_POSTGRES_DSN"); v != "" {
		cfg.Reports.Postgres.DSN = v
	}
	if v := os.Getenv("REPORTS_S3_ENABLED"); v != "" {
		cfg.Reports.S3.Enabled = envBool(v)
	}
	if v := os.Getenv("REPORTS_S3_ENDPOINT"); v != "" {
		cfg.Reports.S3.Endpoint = v
	}
	if v := os.Getenv("REPORTS_S3_ACCESS_KEY"); v != "" {
		cfg.Reports.S3.AccessKey = v
	}
	if v := os.Getenv("REPORTS_S3_SECRET_KEY"); v != "" {
		cfg.Reports.S3.SecretKey = v
	}
	if v := os.Getenv("REPORTS_S3_BUCKET"); v != "" {
		cfg.Reports.S3.Bucket = v
	}
	if v := os.Getenv("AUTH_ENABLED"); v != "" {
		cfg.Auth.Enabled = envBool(v)
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

func envBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		Site: SiteConfig{
			Name:        "Beaverton, Oregon",
			Latitude:    45.514595,
			Longitude:   -122.847565,
			BortleClass: 8,
			LightDome:   "south",
		},
		Equipment: EquipmentConfig{
			Path: "configs/equipment.json",
		},
		Weather: WeatherConfig{
			BaseURL:  "https://api.openweathermap.org/data/2.5/weather",
			Timeout:  10 * time.Second,
			CacheTTL: 15 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:        "gemini",
			Model:           "gemini-1.5-flash",
			MaxOutputTokens: 8192,
			Temperature:     0.7,
		},
		Planner: PlannerConfig{
			MaxTargetRows:   12,
			MaxPromptTokens: 16000,
			VisibilityPath:  "configs/targets.json",
		},
		Reports: ReportsConfig{
			Dir: "reports",
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Site.Latitude < -90 || c.Site.Latitude > 90 {
		return errors.New("site.latitude must be within [-90, 90]")
	}
	if c.Site.Longitude < -180 || c.Site.Longitude > 180 {
		return errors.New("site.longitude must be within [-180, 180]")
	}
	if c.Site.BortleClass < 0 || c.Site.BortleClass > 9 {
		return errors.New("site.bortleClass must be within [0, 9]")
	}
	if strings.TrimSpace(c.Equipment.Path) == "" {
		return errors.New("equipment.path cannot be empty")
	}
	if c.Weather.CacheTTL < 0 {
		return errors.New("weather.cacheTtl cannot be negative")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if c.Weather.Valkey.Enabled && strings.TrimSpace(c.Weather.Valkey.Addr) == "" {
		return errors.New("weather.valkey.addr cannot be empty when the cache is enabled")
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "canned":
	default:
		return fmt.Errorf("llm.provider must be gemini, openai, or canned, got %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxOutputTokens <= 0 {
		return errors.New("llm.maxOutputTokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return errors.New("llm.temperature must be within [0, 1]")
	}
	if c.Planner.MaxTargetRows < 0 {
		return errors.New("planner.maxTargetRows cannot be negative")
	}
	if c.Planner.MaxPromptTokens < 0 {
		return errors.New("planner.maxPromptTokens cannot be negative")
	}
	if c.Reports.S3.Enabled {
		if strings.TrimSpace(c.Reports.S3.Endpoint) == "" {
			return errors.New("reports.s3.endpoint cannot be empty when s3 is enabled")
		}
		if strings.TrimSpace(c.Reports.S3.Bucket) == "" {
			return errors.New("reports.s3.bucket cannot be empty when s3 is enabled")
		}
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwtSecret cannot be empty when auth is enabled")
	}
	return nil
}
