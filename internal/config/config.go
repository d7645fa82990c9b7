package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tropelink/internal/logging"
	"github.com/aretw0/tropelink/pkg/adapters/memory"
	"github.com/aretw0/tropelink/pkg/adapters/tvtropes"
	"github.com/aretw0/tropelink/pkg/search"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "tropelink.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TROPELINK_"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the runtime configuration of the CLI and servers.
// The wiki settings sit at the top level of the file.
type Config struct {
	Wiki          tvtropes.Config `mapstructure:",squash" yaml:",inline"`
	Policy        string          `mapstructure:"policy" yaml:"policy"`
	MaxExpansions int             `mapstructure:"max_expansions" yaml:"max_expansions"`
	LogLevel      string          `mapstructure:"log_level" yaml:"log_level"`
	// Graph points to an offline graph file; when set the wiki is not contacted.
	Graph  string       `mapstructure:"graph" yaml:"graph"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// CacheConfig selects where discovered neighbor sets are kept.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend" yaml:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"`
	// Capacity bounds the memory backend; zero means unbounded.
	Capacity int    `mapstructure:"capacity" yaml:"capacity"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Wiki:     tvtropes.DefaultConfig(),
		Policy:   string(search.PolicyBreadthFirst),
		LogLevel: "info",
		Cache: CacheConfig{
			Backend:  CacheMemory,
			TTL:      24 * time.Hour,
			Capacity: memory.DefaultCapacity,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// envKeys maps environment variables (without prefix) to configuration keys.
var envKeys = map[string][]string{
	"BASE_URL":        {"base_url"},
	"DELAY":           {"delay"},
	"TIMEOUT":         {"timeout"},
	"MAX_RETRIES":     {"max_retries"},
	"RETRY_BACKOFF":   {"retry_backoff"},
	"CONCURRENCY":     {"concurrency"},
	"PAGE_CACHE_SIZE": {"page_cache_size"},
	"PAGE_CACHE_TTL":  {"page_cache_ttl"},
	"USER_AGENT":      {"user_agent"},
	"POLICY":          {"policy"},
	"MAX_EXPANSIONS":  {"max_expansions"},
	"LOG_LEVEL":       {"log_level"},
	"GRAPH":           {"graph"},
	"CACHE_BACKEND":   {"cache", "backend"},
	"REDIS_ADDR":      {"cache", "redis_addr"},
	"REDIS_PASSWORD":  {"cache", "redis_password"},
	"REDIS_DB":        {"cache", "redis_db"},
	"CACHE_TTL":       {"cache", "ttl"},
	"CACHE_PREFIX":    {"cache", "prefix"},
	"CACHE_CAPACITY":  {"cache", "capacity"},
	"SERVER_ADDR":     {"server", "addr"},
}

// Load builds the configuration: defaults, then the YAML file, then TROPELINK_* variables.
// An empty path reads DefaultFile if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		raw := make(map[string]any)
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := decode(raw, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := decode(fromEnv(), cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(input map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// fromEnv collects TROPELINK_* variables into the nested shape of the config file.
func fromEnv() map[string]any {
	out := make(map[string]any)
	for name, path := range envKeys {
		val, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		node := out
		for _, key := range path[:len(path)-1] {
			child, ok := node[key].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[key] = child
			}
			node = child
		}
		node[path[len(path)-1]] = val
	}
	return out
}

// Validate checks cross-field constraints and fills wiki defaults.
func (c *Config) Validate() error {
	if err := c.Wiki.Validate(); err != nil {
		return err
	}
	if _, err := search.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.MaxExpansions < 0 {
		return fmt.Errorf("max_expansions must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = CacheMemory
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required when cache.backend is redis")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must not be negative")
	}
	return nil
}
