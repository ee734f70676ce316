package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultEnvironment is the environment name assigned to the key from
// HONEYCOMB_API_KEY when no named environments are configured.
const DefaultEnvironment = "default"

// Transport values accepted by Config.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configuration for honeycomb-mcp.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Runtime environment name (local, staging, production)
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	// LogLevel controls zap's minimum level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// Transport selects how the MCP server is served: "stdio" for direct
	// MCP client launches, "http" for the streamable HTTP transport.
	Transport string `yaml:"transport" env:"MCP_TRANSPORT" env-default:"stdio"`

	// HTTP transport settings (ignored for stdio)
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8787"`

	Version string `yaml:"-"` // Set at load time, not from config

	Honeycomb HoneycombConfig `yaml:"honeycomb"`
	Cache     CacheConfig     `yaml:"cache"`
}

// HoneycombConfig holds Honeycomb API connection settings.
type HoneycombConfig struct {
	// APIEndpoint is the Honeycomb API base URL. Override for EU instances
	// (https://api.eu1.honeycomb.io).
	APIEndpoint string `yaml:"api_endpoint" env:"HONEYCOMB_API_ENDPOINT" env-default:"https://api.honeycomb.io"`

	// UIEndpoint is the base URL used for deep links in tool responses.
	UIEndpoint string `yaml:"ui_endpoint" env:"HONEYCOMB_UI_ENDPOINT" env-default:"https://ui.honeycomb.io"`

	// APIKey is the key for a single-environment setup. Secret - not in YAML.
	APIKey string `yaml:"-" env:"HONEYCOMB_API_KEY"`

	// EnvKeysStr is a comma-separated list of environment=api_key pairs for
	// multi-environment setups. Format: "production=key1,staging=key2".
	// Secret - not in YAML.
	EnvKeysStr string `yaml:"-" env:"HONEYCOMB_ENV_KEYS"`

	// EnvKeys is the parsed map from EnvKeysStr (not from config file).
	EnvKeys map[string]string `yaml:"-"`

	// QueryPollIntervalMS is the initial delay between query-result polls.
	QueryPollIntervalMS int `yaml:"query_poll_interval_ms" env:"QUERY_POLL_INTERVAL_MS" env-default:"250"`

	// QueryTimeoutSeconds caps how long a single query execution may poll.
	QueryTimeoutSeconds int `yaml:"query_timeout_seconds" env:"QUERY_TIMEOUT_SECONDS" env-default:"60"`
}

// CacheConfig holds metadata cache settings.
type CacheConfig struct {
	// TTLSeconds is how long dataset/column listings are cached.
	TTLSeconds int `yaml:"ttl_seconds" env:"CACHE_TTL_SECONDS" env-default:"300"`
	// Disabled turns the metadata cache off entirely.
	Disabled bool `yaml:"disabled" env:"CACHE_DISABLED" env-default:"false"`
}

// Load reads configuration from config.yaml (when present) with environment
// variable overrides. The version parameter is injected at build time and set
// on the returned Config. Secrets (HONEYCOMB_API_KEY, HONEYCOMB_ENV_KEYS)
// must come from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("failed to parse config fields: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() error {
	c.Honeycomb.EnvKeys = parseEnvKeys(c.Honeycomb.EnvKeysStr)

	// A bare HONEYCOMB_API_KEY becomes the "default" environment so
	// single-environment setups need no extra configuration.
	if c.Honeycomb.APIKey != "" {
		if _, exists := c.Honeycomb.EnvKeys[DefaultEnvironment]; !exists {
			c.Honeycomb.EnvKeys[DefaultEnvironment] = c.Honeycomb.APIKey
		}
	}
	return nil
}

// validate ensures the configuration is usable before the server starts.
func (c *Config) validate() error {
	if len(c.Honeycomb.EnvKeys) == 0 {
		return fmt.Errorf("no API keys configured: set HONEYCOMB_API_KEY or HONEYCOMB_ENV_KEYS")
	}
	if c.Transport != TransportStdio && c.Transport != TransportHTTP {
		return fmt.Errorf("transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}
	if c.Honeycomb.QueryTimeoutSeconds <= 0 {
		return fmt.Errorf("query_timeout_seconds must be positive")
	}
	return nil
}

// parseEnvKeys parses the environment keys string into a map.
// Format: "env1=key1,env2=key2"
func parseEnvKeys(value string) map[string]string {
	keys := make(map[string]string)
	if value == "" {
		return keys
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			env := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if env != "" && key != "" {
				keys[env] = key
			}
		}
	}
	return keys
}

// Environments returns the configured environment names.
func (c *HoneycombConfig) Environments() []string {
	envs := make([]string, 0, len(c.EnvKeys))
	for env := range c.EnvKeys {
		envs = append(envs, env)
	}
	return envs
}

// APIKeyFor returns the API key for an environment, or false when the
// environment is not configured.
func (c *HoneycombConfig) APIKeyFor(environment string) (string, bool) {
	key, ok := c.EnvKeys[environment]
	return key, ok
}
