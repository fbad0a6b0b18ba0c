package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/medstudy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/medstudy-backend/internal/http/middleware"
	"github.com/yungbote/medstudy-backend/internal/observability"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware
	// AIRateLimit guards the language model routes; nil disables it.
	AIRateLimit gin.HandlerFunc

	HealthHandler       *httpH.HealthHandler
	AuthHandler         *httpH.AuthHandler
	SubjectHandler      *httpH.SubjectHandler
	ProgressHandler     *httpH.ProgressHandler
	StudySessionHandler *httpH.StudySessionHandler
	NoteHandler         *httpH.NoteHandler
	AIHandler           *httpH.AIHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth
		if cfg.AuthHandler != nil {
			protected.POST("/auth/session", cfg.AuthHandler.Session)
			protected.GET("/auth/user", cfg.AuthHandler.GetUser)
			protected.DELETE("/auth/user", cfg.AuthHandler.DeleteUser)
		}

		// Subjects
		if cfg.SubjectHandler != nil {
			protected.GET("/subjects", cfg.SubjectHandler.List)
			protected.POST("/subjects", cfg.SubjectHandler.Create)
			protected.POST("/initialize", cfg.SubjectHandler.Initialize)
		}

		// Progress + stats
		if cfg.ProgressHandler != nil {
			protected.GET("/user/progress", cfg.ProgressHandler.List)
			protected.POST("/user/progress", cfg.ProgressHandler.Upsert)
			protected.GET("/user/stats", cfg.ProgressHandler.GetStats)
			protected.PATCH("/user/stats", cfg.ProgressHandler.UpdateStats)
		}

		// Study sessions
		if cfg.StudySessionHandler != nil {
			protected.GET("/study-sessions", cfg.StudySessionHandler.List)
			protected.GET("/study-sessions/weekly", cfg.StudySessionHandler.Weekly)
			protected.GET("/study-sessions/weekly/summary", cfg.StudySessionHandler.WeeklySummary)
			protected.POST("/study-sessions", cfg.StudySessionHandler.Create)
		}

		// Notes
		if cfg.NoteHandler != nil {
			protected.GET("/notes", cfg.NoteHandler.List)
			protected.POST("/notes", cfg.NoteHandler.Create)
			protected.PATCH("/notes/:id", cfg.NoteHandler.Update)
			protected.DELETE("/notes/:id", cfg.NoteHandler.Delete)
		}

		// AI assistant
		if cfg.AIHandler != nil {
			ai := protected.Group("/ai")
			if cfg.AIRateLimit != nil {
				ai.Use(cfg.AIRateLimit)
			}
			ai.POST("/ask", cfg.AIHandler.Ask)
			ai.POST("/enhance-notes", cfg.AIHandler.EnhanceNotes)
			ai.POST("/generate-mcqs", cfg.AIHandler.GenerateMCQs)
			ai.GET("/recommendations", cfg.AIHandler.Recommendations)
			protected.GET("/ai/chat-history", cfg.AIHandler.ChatHistory)
		}
	}

	return r
}
