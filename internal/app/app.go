package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/medstudy-backend/internal/data/db"
	apphttp "github.com/yungbote/medstudy-backend/internal/http"
	"github.com/yungbote/medstudy-backend/internal/observability"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/platform/ratelimit"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Redis    *goredis.Client
	Repos    Repos
	Services Services
	Server   *apphttp.Server

	metrics      *observability.Metrics
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := strings.TrimSpace(os.Getenv("LOG_MODE"))
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)
	a.metrics = observability.Init(cfg.MetricsEnabled, 15*time.Second)

	a.DB, err = db.NewService(cfg.DB, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := db.AutoMigrateAll(a.DB.DB()); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	if cfg.RedisAddr != "" {
		a.Redis, err = ratelimit.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		log.Info("Redis connected", "addr", cfg.RedisAddr)
	} else {
		log.Info("REDIS_ADDR not set; using in-process rate limiter")
	}

	llm, err := newLLMClient(log, cfg.OpenAI)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init openai: %w", err)
	}

	a.Repos = wireRepos(a.DB.DB(), log)
	a.Services, err = wireServices(a.DB.DB(), log, cfg, a.Repos, llm)
	if err != nil {
		a.Close()
		return nil, err
	}
	handlers := wireHandlers(a.DB.DB(), log, a.Services)
	limiter := wireAILimiter(log, cfg, a.Redis)
	a.Server = apphttp.NewServer(log, ":"+cfg.Port, wireRouterConfig(log, cfg, a.Services, handlers, limiter))
	return a, nil
}

// Run blocks until ctx is cancelled or the HTTP server fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	if a.metrics != nil {
		a.metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.metrics.StartDBCollector(ctx, a.Log, a.DB.DB())
		a.metrics.StartRedisCollector(ctx, a.Log, a.Redis)
	}
	return a.Server.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
