package app

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/medstudy-backend/internal/data/db"
	"github.com/yungbote/medstudy-backend/internal/http/middleware"
	"github.com/yungbote/medstudy-backend/internal/observability"
	"github.com/yungbote/medstudy-backend/internal/platform/envutil"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/platform/openai"
)

type Config struct {
	Port    string
	GinMode string

	DB db.Config

	JWTSecretKey string
	JWTIssuer    string

	OpenAI openai.Config

	RedisAddr            string
	AIRateLimitPerMinute int

	MetricsEnabled bool
	MetricsAddr    string
	Otel           observability.OtelConfig

	AllowedOrigins []string
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	cfg := Config{
		Port:    envutil.String("PORT", "5000"),
		GinMode: envutil.String("GIN_MODE", "release"),
		DB: db.Config{
			Driver:           strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres)),
			DatabaseURL:      envutil.String("DATABASE_URL", ""),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "medstudy"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "medstudy.db"),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  envutil.Seconds("DB_CONN_MAX_LIFETIME_SECONDS", 30*time.Minute),
		},
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		JWTIssuer:    envutil.String("JWT_ISSUER", ""),
		OpenAI: openai.Config{
			APIKey:  envutil.String("OPENAI_API_KEY", ""),
			BaseURL: envutil.String("OPENAI_BASE_URL", openai.DefaultBaseURL),
			Model:   envutil.String("OPENAI_MODEL", openai.DefaultModel),
			Timeout: envutil.Seconds("OPENAI_TIMEOUT_SECONDS", openai.DefaultTimeout),
		},
		RedisAddr:            envutil.String("REDIS_ADDR", ""),
		AIRateLimitPerMinute: envutil.Int("AI_RATE_LIMIT_PER_MINUTE", 20),
		MetricsEnabled:       envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:          envutil.String("METRICS_ADDR", ":9090"),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "medstudy-api"),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development"),
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1),
		},
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins),
	}

	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return Config{}, errors.New("JWT_SECRET_KEY is required")
	}
	switch cfg.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return Config{}, errors.New("DB_DRIVER must be postgres or sqlite")
	}
	return cfg, nil
}
