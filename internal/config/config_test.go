package config

import (
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	assertStringEqual(t, "service.name", defaultServiceName, cfg.Service.Name)
	assertStringEqual(t, "service.version", defaultVersion, cfg.Service.Version)
	assertIntEqual(t, "service.port", defaultServicePort, cfg.Service.Port)
	assertIntEqual(t, "service.session_query_limit", defaultSessionLimit, cfg.Service.SessionQueryLimit)

	assertStringEqual(t, "database.host", defaultDBHost, cfg.Database.Host)
	assertIntEqual(t, "database.port", defaultDBPort, cfg.Database.Port)
	assertStringEqual(t, "database.user", defaultDBUser, cfg.Database.User)
	assertStringEqual(t, "database.database", defaultDBName, cfg.Database.Database)
	assertStringEqual(t, "database.sslmode", defaultDBSSLMode, cfg.Database.SSLMode)

	assertStringEqual(t, "cache.backend", defaultCacheBackend, cfg.Cache.Backend)
	assertStringEqual(t, "cache.redis_addr", defaultRedisAddr, cfg.Cache.RedisAddr)

	expectedTTL := defaultStatsCacheTTLS * time.Second
	if cfg.Cache.StatsTTL != expectedTTL {
		t.Errorf("cache.stats_ttl: got %v, want %v", cfg.Cache.StatsTTL, expectedTTL)
	}

	assertIntEqual(t, "rate_limit.max_clicks_per_minute",
		defaultMaxClicksPerMinute, cfg.RateLimit.MaxClicksPerMinute)
	assertIntEqual(t, "rate_limit.window_seconds",
		defaultWindowSeconds, cfg.RateLimit.WindowSeconds)

	assertStringEqual(t, "logging.level", defaultLoggingLevel, cfg.Logging.Level)
	assertStringEqual(t, "logging.format", defaultLoggingFmt, cfg.Logging.Format)
}

func TestValidate_BadCacheBackend(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Cache.Backend = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for unsupported cache backend, got nil")
	}
}

func TestValidate_BadPort(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.Port = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative port, got nil")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("expected no validation error, got: %v", err)
	}
}

func TestDSN(t *testing.T) {
	t.Helper()

	db := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Database: "fraud_tracker",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=postgres password=secret dbname=fraud_tracker sslmode=disable"
	got := db.DSN()

	if got != expected {
		t.Errorf("DSN:\ngot:  %q\nwant: %q", got, expected)
	}
}

func TestMigrateURL(t *testing.T) {
	t.Helper()

	db := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "tracker",
		Password: "pw",
		Database: "fraud_tracker",
		SSLMode:  "require",
	}

	expected := "postgres://tracker:pw@db.internal:5433/fraud_tracker?sslmode=require"
	if got := db.URL(); got != expected {
		t.Errorf("URL:\ngot:  %q\nwant: %q", got, expected)
	}
}

// assertStringEqual is a test helper that checks string equality.
func assertStringEqual(t *testing.T, field, want, got string) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}

// assertIntEqual is a test helper that checks int equality.
func assertIntEqual(t *testing.T, field string, want, got int) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %d, want %d", field, got, want)
	}
}
