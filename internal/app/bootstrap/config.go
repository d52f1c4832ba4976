package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the SDK and the CLI.
// It merges file defaults and environment overrides so local runs need no
// setup while deployed runs stay configurable.
type Config struct {
	BaseURL     string
	Environment string

	RequestTimeout time.Duration

	// CacheFreshFor is the freshness window: entries older than this are
	// stale and trigger a refetch on read. CacheEvictAfter is the idle
	// window after which unused entries are dropped entirely.
	CacheFreshFor   time.Duration
	CacheEvictAfter time.Duration

	// RedisURL switches the cache to the shared Redis store when set.
	RedisURL string

	// CredentialsPath overrides the well-known token file location.
	CredentialsPath string
}

// IsProduction gates debug-only behavior such as transport logging.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// configFile mirrors the YAML schema of configs/default.yaml.
type configFile struct {
	Backend struct {
		BaseURL        string `yaml:"base_url"`
		RequestTimeout string `yaml:"request_timeout"`
	} `yaml:"backend"`
	Cache struct {
		FreshFor   string `yaml:"fresh_for"`
		EvictAfter string `yaml:"evict_after"`
		RedisURL   string `yaml:"redis_url"`
	} `yaml:"cache"`
	Environment     string `yaml:"environment"`
	CredentialsPath string `yaml:"credentials_path"`
}

// LoadConfig resolves configuration in priority order: defaults -> file ->
// env. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		BaseURL:         "http://localhost:8000",
		Environment:     "development",
		RequestTimeout:  30 * time.Second,
		CacheFreshFor:   5 * time.Minute,
		CacheEvictAfter: 10 * time.Minute,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Backend.BaseURL != "" {
			cfg.BaseURL = f.Backend.BaseURL
		}
		if f.Environment != "" {
			cfg.Environment = f.Environment
		}
		if f.Cache.RedisURL != "" {
			cfg.RedisURL = f.Cache.RedisURL
		}
		if f.CredentialsPath != "" {
			cfg.CredentialsPath = f.CredentialsPath
		}
		if d, parseErr := parseDuration(f.Backend.RequestTimeout); parseErr == nil && d > 0 {
			cfg.RequestTimeout = d
		}
		if d, parseErr := parseDuration(f.Cache.FreshFor); parseErr == nil && d > 0 {
			cfg.CacheFreshFor = d
		}
		if d, parseErr := parseDuration(f.Cache.EvictAfter); parseErr == nil && d > 0 {
			cfg.CacheEvictAfter = d
		}
	}

	applyEnvString(&cfg.BaseURL, "SPORTADMIN_BASE_URL")
	applyEnvString(&cfg.Environment, "SPORTADMIN_ENV")
	applyEnvString(&cfg.RedisURL, "SPORTADMIN_REDIS_URL")
	applyEnvString(&cfg.CredentialsPath, "SPORTADMIN_CREDENTIALS_PATH")
	applyEnvDuration(&cfg.RequestTimeout, "SPORTADMIN_REQUEST_TIMEOUT")
	applyEnvDuration(&cfg.CacheFreshFor, "SPORTADMIN_CACHE_FRESH_FOR")
	applyEnvDuration(&cfg.CacheEvictAfter, "SPORTADMIN_CACHE_EVICT_AFTER")

	if cfg.CacheEvictAfter < cfg.CacheFreshFor {
		return Config{}, fmt.Errorf("cache evict_after (%s) must not be shorter than fresh_for (%s)", cfg.CacheEvictAfter, cfg.CacheFreshFor)
	}
	return cfg, nil
}

func applyEnvString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func applyEnvDuration(dst *time.Duration, name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if d, err := parseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}

// parseDuration accepts Go duration strings and bare second counts.
func parseDuration(v string) (time.Duration, error) {
	if v == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
