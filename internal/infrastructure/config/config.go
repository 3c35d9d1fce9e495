package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   CollaboratorConfig
	Inventory CollaboratorConfig
	Redis     RedisConfig
	Cache     CacheConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// CollaboratorConfig holds connection settings for a remote collaborator
// (acquisitions storage or inventory)
type CollaboratorConfig struct {
	BaseURL string
	Timeout time.Duration
	Tenant  string
	Token   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds reference-id cache settings
type CacheConfig struct {
	TTL time.Duration
}

// Load reads configuration from file and environment.
// Environment variables use the ACQ prefix, e.g. ACQ_STORAGE_BASEURL.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("ACQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// A config file is optional; env and defaults are enough to run
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "acquisitions")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.readtimeout", 15*time.Second)
	v.SetDefault("http.writetimeout", 30*time.Second)
	v.SetDefault("http.shutdowntimeout", 10*time.Second)
	v.SetDefault("http.maxbodybytes", 1<<20)

	v.SetDefault("storage.baseurl", "http://localhost:9130")
	v.SetDefault("storage.timeout", 30*time.Second)
	v.SetDefault("inventory.baseurl", "http://localhost:9131")
	v.SetDefault("inventory.timeout", 30*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl", 10*time.Minute)
}

// Validate checks the configuration for obvious misconfiguration
func (c *Config) Validate() error {
	for name, collab := range map[string]CollaboratorConfig{
		"storage":   c.Storage,
		"inventory": c.Inventory,
	} {
		if collab.BaseURL == "" {
			return fmt.Errorf("%s.baseurl is required", name)
		}
		parsed, err := url.Parse(collab.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s.baseurl %q is not a valid URL", name, collab.BaseURL)
		}
		if collab.Timeout <= 0 {
			return fmt.Errorf("%s.timeout must be positive", name)
		}
	}
	return nil
}

// Addr returns the redis address in host:port form
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsProduction returns true when running in the production environment
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}
