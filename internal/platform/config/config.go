package config

import (
	"os"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// PublicBaseURL is the externally reachable origin used when building
	// public passport links and asset URLs (no trailing slash).
	PublicBaseURL string
	// UploadDir is the filesystem root for stored photos and QR images,
	// served under /uploads.
	UploadDir string
	// JWTSigningKey verifies inbound identity tokens.
	JWTSigningKey string
	// PostgresURL enables the postgres stores when set; the in-memory
	// stores back the service otherwise.
	PostgresURL string
	// RedisURL enables the public passport view cache when set.
	RedisURL string
	// ExpiryCronSpec is the cadence of the expiration scheduler,
	// interpreted in server-local time.
	ExpiryCronSpec string
	// PublicCacheTTL bounds staleness of cached public passport views.
	PublicCacheTTL time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:           getenv("PASSREG_ADDR", ":8080"),
		PublicBaseURL:  getenv("PASSREG_PUBLIC_BASE_URL", "http://localhost:8080"),
		UploadDir:      getenv("PASSREG_UPLOAD_DIR", "uploads"),
		JWTSigningKey:  getenv("PASSREG_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresURL:    os.Getenv("PASSREG_POSTGRES_URL"),
		RedisURL:       os.Getenv("PASSREG_REDIS_URL"),
		ExpiryCronSpec: getenv("PASSREG_EXPIRY_CRON", "0 3 * * *"),
		PublicCacheTTL: 5 * time.Minute,
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
