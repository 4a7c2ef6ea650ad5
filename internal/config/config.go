package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "fraud-tracker"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "fraud_tracker"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultMaxClicksPerMinute = 30
	defaultWindowSeconds      = 60

	defaultStatsCacheTTLS  = 15
	defaultCacheBackend    = "memory"
	defaultCacheMaxEntries = 1024
	defaultRedisAddr       = "localhost:6379"

	defaultSessionLimit = 50
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"FRAUD_TRACKER_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"          yaml:"debug"`

	// SessionQueryLimit caps the number of session summaries returned by
	// the advertiser sessions endpoint when the client omits a limit.
	SessionQueryLimit int `yaml:"session_query_limit"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_FRAUD_TRACKER_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_FRAUD_TRACKER_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_FRAUD_TRACKER_USER"     yaml:"user"`
	Password string `env:"POSTGRES_FRAUD_TRACKER_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_FRAUD_TRACKER_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_FRAUD_TRACKER_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection URL used by golang-migrate.
func (d *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// CacheConfig holds the advertiser stats cache configuration.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend       string        `env:"FRAUD_TRACKER_CACHE" yaml:"backend"`
	StatsTTL      time.Duration `yaml:"stats_ttl"`
	MaxEntries    int           `yaml:"max_entries"`
	RedisAddr     string        `env:"REDIS_ADDR"     yaml:"redis_addr"`
	RedisPassword string        `env:"REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB       int           `env:"REDIS_DB"       yaml:"redis_db"`
}

// RateLimitConfig holds rate limiting configuration for the click endpoint.
type RateLimitConfig struct {
	MaxClicksPerMinute int `yaml:"max_clicks_per_minute"`
	WindowSeconds      int `yaml:"window_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg); err != nil {
		return nil, err
	}

	setDefaults(&cfg)

	// Re-apply env overrides after defaults (env always wins).
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setCacheDefaults(&cfg.Cache)
	setRateLimitDefaults(&cfg.RateLimit)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.SessionQueryLimit == 0 {
		svc.SessionQueryLimit = defaultSessionLimit
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

// setCacheDefaults applies default values to CacheConfig.
func setCacheDefaults(c *CacheConfig) {
	if c.Backend == "" {
		c.Backend = defaultCacheBackend
	}
	if c.StatsTTL == 0 {
		c.StatsTTL = defaultStatsCacheTTLS * time.Second
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = defaultCacheMaxEntries
	}
	if c.RedisAddr == "" {
		c.RedisAddr = defaultRedisAddr
	}
}

// setRateLimitDefaults applies default values to RateLimitConfig.
func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxClicksPerMinute == 0 {
		rl.MaxClicksPerMinute = defaultMaxClicksPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port: %d is out of range", c.Service.Port)
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend: %q is not supported (want memory or redis)", c.Cache.Backend)
	}
	return nil
}
