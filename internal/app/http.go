package app

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apphttp "github.com/yungbote/medstudy-backend/internal/http"
	httpH "github.com/yungbote/medstudy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/medstudy-backend/internal/http/middleware"
	"github.com/yungbote/medstudy-backend/internal/observability"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/platform/ratelimit"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Subject      *httpH.SubjectHandler
	Progress     *httpH.ProgressHandler
	StudySession *httpH.StudySessionHandler
	Note         *httpH.NoteHandler
	AI           *httpH.AIHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Auth:         httpH.NewAuthHandler(log, s.User),
		Subject:      httpH.NewSubjectHandler(log, s.Subject),
		Progress:     httpH.NewProgressHandler(log, s.Progress, s.Stats),
		StudySession: httpH.NewStudySessionHandler(log, s.StudySession),
		Note:         httpH.NewNoteHandler(log, s.Note),
		AI:           httpH.NewAIHandler(log, s.Chat),
	}
}

// aiLimitWindow is the window AI_RATE_LIMIT_PER_MINUTE is counted over.
const aiLimitWindow = time.Minute

func wireAILimiter(log *logger.Logger, cfg Config, rdb *goredis.Client) ratelimit.Limiter {
	if rdb != nil {
		return ratelimit.NewRedisLimiter(log, rdb, "medstudy:ratelimit:ai", cfg.AIRateLimitPerMinute, aiLimitWindow)
	}
	return ratelimit.NewMemoryLimiter(cfg.AIRateLimitPerMinute, aiLimitWindow)
}

func wireRouterConfig(log *logger.Logger, cfg Config, s Services, h Handlers, limiter ratelimit.Limiter) apphttp.RouterConfig {
	rc := apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        observability.Current(),

		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Auth),

		HealthHandler:       h.Health,
		AuthHandler:         h.Auth,
		SubjectHandler:      h.Subject,
		ProgressHandler:     h.Progress,
		StudySessionHandler: h.StudySession,
		NoteHandler:         h.Note,
		AIHandler:           h.AI,
	}
	if limiter != nil && cfg.AIRateLimitPerMinute > 0 {
		rc.AIRateLimit = httpMW.RateLimit(log, limiter, "ai")
	}
	return rc
}
