package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Repository RepositoryConfig `yaml:"repository"`
	Cache      CacheConfig      `yaml:"cache"`
	JWT        JWTConfig        `yaml:"jwt"`
	CORS       CORSConfig       `yaml:"cors"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Feed       FeedConfig       `yaml:"feed"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// RepositoryConfig selects and configures the document store backend
type RepositoryConfig struct {
	// Type selects the backend: "memory" or "postgres"
	Type     string         `yaml:"type"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig represents PostgreSQL repository configuration
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MigrationPath   string        `yaml:"migration_path"`
}

// CacheConfig represents the listing cache configuration
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	// Type selects the backend: "memory" or "redis"
	Type      string        `yaml:"type"`
	Address   string        `yaml:"address"`
	Password  string        `yaml:"password"`
	Database  int           `yaml:"database"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// JWTConfig represents login token configuration
type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	Algorithm string        `yaml:"algorithm"`
	ExpiresIn time.Duration `yaml:"expires_in"`
	Issuer    string        `yaml:"issuer"`
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig represents distributed tracing configuration
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// FeedConfig represents the websocket activity feed configuration
type FeedConfig struct {
	Enabled bool `yaml:"enabled"`
}
