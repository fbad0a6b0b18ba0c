package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/medstudy-backend/internal/http/response"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/apierr"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type StudySessionHandler struct {
	log      *logger.Logger
	sessions services.StudySessionService
}

func NewStudySessionHandler(log *logger.Logger, sessions services.StudySessionService) *StudySessionHandler {
	return &StudySessionHandler{log: log.With("handler", "StudySessionHandler"), sessions: sessions}
}

// GET /api/study-sessions?limit=10
func (h *StudySessionHandler) List(c *gin.Context) {
	out, err := h.sessions.List(dbctx.New(c.Request.Context()), queryLimit(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/study-sessions/weekly
func (h *StudySessionHandler) Weekly(c *gin.Context) {
	out, err := h.sessions.Weekly(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/study-sessions/weekly/summary?tz=Europe/Berlin
func (h *StudySessionHandler) WeeklySummary(c *gin.Context) {
	loc := time.UTC
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			response.RespondErr(c, h.log, apierr.Validation("unknown time zone: "+tz))
			return
		}
		loc = l
	}
	out, err := h.sessions.WeeklySummary(dbctx.New(c.Request.Context()), loc)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/study-sessions
func (h *StudySessionHandler) Create(c *gin.Context) {
	var req services.StudySessionInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.sessions.Create(dbctx.New(c.Request.Context()), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}
