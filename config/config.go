package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AWS      AWSConfig
	Stripe   StripeConfig
	Email    EmailConfig
	Notify   NotifyConfig
	Stats    StatsConfig
}

// StripeConfig for payment intents.
type StripeConfig struct {
	SecretKey     string
	Currency      string
	VerifyBooking bool // check booking price against the authorized intent amount
}

// EmailConfig for the SMTP notification sink.
type EmailConfig struct {
	FromAddress string
	FromName    string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

// NotifyConfig controls the notification queue and worker.
type NotifyConfig struct {
	MaxAttempts  int  // 1 = deliver at most once, failures go straight to the DLQ
	InlineWorker bool // run the worker inside the API process
}

// StatsConfig controls chart label compatibility.
type StatsConfig struct {
	LegacyLabels bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	Env                string // "production" switches cookies to Secure + SameSite=None
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins []string
	AuthRatePerMinute  int
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/stayvista?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds session token signing settings.
type JWTConfig struct {
	Secret     string
	ExpireDays int
}

// AWSConfig holds AWS credentials and the room images bucket.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ImagesBucket    string
}

// IsProduction reports whether the server runs with production cookie attributes.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8000"),
			Env:                getEnv("NODE_ENV", getEnv("APP_ENV", "development")),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: splitTrim(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174,https://vistastay-live.web.app"), ","),
			AuthRatePerMinute:  getEnvInt("AUTH_RATE_PER_MINUTE", 60),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "stayvista"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("ACCESS_TOKEN_SECRET", ""),
			ExpireDays: getEnvInt("JWT_EXPIRE_DAYS", 365),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ImagesBucket:    getEnv("AWS_S3_IMAGES_BUCKET", "stayvista-room-images"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			Currency:      getEnv("STRIPE_CURRENCY", "usd"),
			VerifyBooking: getEnvBool("STRIPE_VERIFY_BOOKING", true),
		},
		Email: EmailConfig{
			FromAddress: getEnv("TRANSPORTER_EMAIL", ""),
			FromName:    getEnv("EMAIL_FROM_NAME", "StayVista"),
			SMTPHost:    getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:    getEnvInt("SMTP_PORT", 587),
			SMTPUser:    getEnv("SMTP_USER", getEnv("TRANSPORTER_EMAIL", "")),
			SMTPPass:    getEnv("TRANSPORTER_PASS", ""),
		},
		Notify: NotifyConfig{
			MaxAttempts:  getEnvInt("NOTIFY_MAX_ATTEMPTS", 1),
			InlineWorker: getEnvBool("NOTIFY_INLINE_WORKER", true),
		},
		Stats: StatsConfig{
			LegacyLabels: getEnvBool("STATS_LEGACY_LABELS", false),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.JWT.ExpireDays <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRE_DAYS must be positive, got %d", cfg.JWT.ExpireDays)
	}
	if cfg.Notify.MaxAttempts < 1 {
		cfg.Notify.MaxAttempts = 1
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
