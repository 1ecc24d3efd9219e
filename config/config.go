package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Firebase FirebaseConfig
	Storage  StorageConfig
	Redis    RedisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// Requests per second allowed per client IP on login and contact endpoints.
	PublicRateLimit float64 `env:"PUBLIC_RATE_LIMIT" envDefault:"0.5"`
	PublicBurst     int     `env:"PUBLIC_RATE_BURST" envDefault:"5"`
	// Proxies whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// DatabaseConfig configures Postgres. DSN takes precedence over the discrete
// fields; an empty Host and DSN disables the database.
type DatabaseConfig struct {
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"bytedocker"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns int    `env:"DB_MIN_CONNS" envDefault:"2"`
	// Apply pending migrations on API startup.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

func (d DatabaseConfig) Enabled() bool {
	return d.DSN != "" || d.Host != ""
}

type FirebaseConfig struct {
	CredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	// Inline service account JSON, used when no credentials file is mounted.
	ServiceAccountJSON string `env:"FIREBASE_SERVICE_ACCOUNT"`
	ProjectID          string `env:"FIREBASE_PROJECT_ID"`
	StorageBucket      string `env:"FIREBASE_STORAGE_BUCKET"`
}

type StorageConfig struct {
	Driver         string `env:"STORAGE_DRIVER" envDefault:"firebase"`
	MaxUploadBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	// Whole admin request body, covering forms with several images.
	MaxBodyBytes int64 `env:"ADMIN_MAX_BODY_BYTES" envDefault:"52428800"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	// Public base URL objects are served from, e.g. a CloudFront domain.
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

type RedisConfig struct {
	URL      string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

type AppConfig struct {
	Environment  string `env:"APP_ENV" envDefault:"development"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	Version      string `env:"APP_VERSION" envDefault:"1.0.0"`
	SyncSchedule string `env:"SYNC_CRON" envDefault:"0 0 3 * * *"`
	SeedDefaults bool   `env:"SEED_DEFAULTS" envDefault:"true"`
	// Directory served at /static/img for the images seeded cards point at.
	StaticDir string `env:"STATIC_DIR"`
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Firebase.CredentialsPath == "" && c.Firebase.ServiceAccountJSON == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH or FIREBASE_SERVICE_ACCOUNT is required")
	}

	switch c.Storage.Driver {
	case "firebase":
		if c.Firebase.StorageBucket == "" {
			return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required for the firebase storage driver")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Storage.MaxBodyBytes < c.Storage.MaxUploadBytes {
		return fmt.Errorf("ADMIN_MAX_BODY_BYTES must be at least UPLOAD_MAX_BYTES")
	}

	return nil
}
