package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file with environment variable overrides
func Load(configFile string) (*Config, error) {
	cfg := Default()

	// Load from file if it exists
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      ":8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Repository: RepositoryConfig{
			Type: "postgres",
			Postgres: PostgresConfig{
				DSN:             "",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
				MigrationPath:   "file://internal/showcase/repository/postgres/migrations",
			},
		},
		Cache: CacheConfig{
			Enabled:   false,
			Type:      "memory",
			Address:   "localhost:6379",
			Database:  0,
			KeyPrefix: "pmhelper",
			TTL:       30 * time.Second,
		},
		JWT: JWTConfig{
			Secret:    "",
			Algorithm: "HS256",
			ExpiresIn: 24 * time.Hour,
			Issuer:    "pm-helper",
		},
		CORS: CORSConfig{
			Enabled:          true,
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "pmhelper",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "pm-helper",
			Endpoint:    "",
			SampleRate:  1.0,
		},
		Feed: FeedConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if addr := os.Getenv("PMHELPER_SERVER_ADDRESS"); addr != "" {
		cfg.Server.Address = addr
	}
	if dsn := os.Getenv("PMHELPER_DATABASE_DSN"); dsn != "" {
		cfg.Repository.Postgres.DSN = dsn
	}
	if repoType := os.Getenv("PMHELPER_REPOSITORY_TYPE"); repoType != "" {
		cfg.Repository.Type = repoType
	}
	if secret := os.Getenv("PMHELPER_JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if addr := os.Getenv("PMHELPER_REDIS_ADDRESS"); addr != "" {
		cfg.Cache.Address = addr
	}
	if password := os.Getenv("PMHELPER_REDIS_PASSWORD"); password != "" {
		cfg.Cache.Password = password
	}
	if level := os.Getenv("PMHELPER_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate checks the configuration for fatal startup conditions
func Validate(cfg *Config) error {
	switch cfg.Repository.Type {
	case "memory":
	case "postgres":
		// The store connection string is the one piece of required
		// configuration; starting without it is a fatal condition.
		if cfg.Repository.Postgres.DSN == "" {
			return fmt.Errorf("repository.postgres.dsn is required (set PMHELPER_DATABASE_DSN)")
		}
	default:
		return fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}

	if cfg.Cache.Enabled {
		switch cfg.Cache.Type {
		case "memory":
		case "redis":
			if cfg.Cache.Address == "" {
				return fmt.Errorf("cache.address is required when cache.type is redis")
			}
		default:
			return fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}

	return nil
}
