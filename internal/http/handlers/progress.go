package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/medstudy-backend/internal/http/response"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
	stats    services.StatsService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService, stats services.StatsService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress, stats: stats}
}

// GET /api/user/progress
func (h *ProgressHandler) List(c *gin.Context) {
	out, err := h.progress.List(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/user/progress
func (h *ProgressHandler) Upsert(c *gin.Context) {
	var req services.ProgressInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.progress.Upsert(dbctx.New(c.Request.Context()), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/user/stats
func (h *ProgressHandler) GetStats(c *gin.Context) {
	out, err := h.stats.Get(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// PATCH /api/user/stats
func (h *ProgressHandler) UpdateStats(c *gin.Context) {
	var req services.StatsPatchInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.stats.Update(dbctx.New(c.Request.Context()), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}
