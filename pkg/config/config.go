package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Store struct {
		Path string `yaml:"path"`
		// BusyTimeout bounds how long a writer waits for the store lock
		// before the write is rejected as transient-busy.
		BusyTimeout time.Duration `yaml:"busy_timeout"`
		// RetryAttempts is how many times a busy write is retried
		// internally before surfacing a "try again" reply.
		RetryAttempts     int           `yaml:"retry_attempts"`
		RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`
	} `yaml:"store"`

	Sessions struct {
		Backend string        `yaml:"backend"` // "memory" or "redis"
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Address  string `yaml:"address"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			PoolSize int    `yaml:"pool_size"`
		} `yaml:"redis"`
	} `yaml:"sessions"`

	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Conference struct {
		// DefaultGroupID is the group every conference is attached to.
		// The creation flow takes the group as an explicit input and the
		// router defaults it from here.
		DefaultGroupID int64 `yaml:"default_group_id"`
	} `yaml:"conference"`

	RateLimiting struct {
		Enabled           bool    `yaml:"enabled"`
		MessagesPerSecond float64 `yaml:"messages_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limiting"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		JaegerURL   string  `yaml:"jaeger_url"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Store.BusyTimeout <= 0 {
		return fmt.Errorf("store.busy_timeout must be > 0")
	}
	if c.Store.RetryAttempts < 0 {
		return fmt.Errorf("store.retry_attempts must be >= 0")
	}
	if c.Store.RetryInitialDelay <= 0 {
		return fmt.Errorf("store.retry_initial_delay must be > 0")
	}

	switch c.Sessions.Backend {
	case "memory":
	case "redis":
		if c.Sessions.Redis.Address == "" {
			return fmt.Errorf("sessions.redis.address must not be empty when backend=redis")
		}
		if c.Sessions.Redis.PoolSize <= 0 {
			return fmt.Errorf("sessions.redis.pool_size must be > 0 when backend=redis")
		}
	default:
		return fmt.Errorf("sessions.backend must be \"memory\" or \"redis\"")
	}
	if c.Sessions.TTL < 0 {
		return fmt.Errorf("sessions.ttl must be >= 0")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}

	if c.Conference.DefaultGroupID <= 0 {
		return fmt.Errorf("conference.default_group_id must be > 0")
	}

	if c.RateLimiting.Enabled {
		if c.RateLimiting.MessagesPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.messages_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be > 0 when rate limiting is enabled")
		}
	}

	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	if c.Tracing.Enabled {
		if c.Tracing.JaegerURL == "" {
			return fmt.Errorf("tracing.jaeger_url must not be empty when tracing is enabled")
		}
		if c.Tracing.SampleRate <= 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing.sample_rate must be in (0, 1] when tracing is enabled")
		}
	}

	return nil
}

// Load reads configuration from YAML file, applies defaults and env overrides.
func Load(configPath string) (*Config, error) {
	// If file does not exist, fall back to defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":8080"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Store.Path = "confbot.db"
	cfg.Store.BusyTimeout = 3 * time.Second
	cfg.Store.RetryAttempts = 3
	cfg.Store.RetryInitialDelay = 100 * time.Millisecond

	cfg.Sessions.Backend = "memory"
	cfg.Sessions.TTL = 30 * time.Minute
	cfg.Sessions.Redis.Address = "localhost:6379"
	cfg.Sessions.Redis.DB = 0
	cfg.Sessions.Redis.PoolSize = 10

	cfg.Auth.JWTSecret = "change-me-in-production"
	cfg.Auth.TokenTTL = 24 * time.Hour

	cfg.Conference.DefaultGroupID = 1

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.MessagesPerSecond = 5
	cfg.RateLimiting.Burst = 10

	cfg.Monitoring.PrometheusEnabled = true

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.Tracing.Enabled = false
	cfg.Tracing.ServiceName = "confbot"
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.SampleRate = 1.0

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("CONFBOT_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if path := os.Getenv("CONFBOT_STORE_PATH"); path != "" {
		c.Store.Path = path
	}
	if level := os.Getenv("CONFBOT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("CONFBOT_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if group := os.Getenv("CONFBOT_DEFAULT_GROUP_ID"); group != "" {
		if id, err := strconv.ParseInt(group, 10, 64); err == nil {
			c.Conference.DefaultGroupID = id
		}
	}
}
