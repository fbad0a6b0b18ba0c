package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/medstudy-backend/internal/http/response"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type SubjectHandler struct {
	log      *logger.Logger
	subjects services.SubjectService
}

func NewSubjectHandler(log *logger.Logger, subjects services.SubjectService) *SubjectHandler {
	return &SubjectHandler{log: log.With("handler", "SubjectHandler"), subjects: subjects}
}

// GET /api/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	out, err := h.subjects.List(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req services.SubjectInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.subjects.Create(dbctx.New(c.Request.Context()), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/initialize
func (h *SubjectHandler) Initialize(c *gin.Context) {
	out, err := h.subjects.InitializeDefaults(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Default subjects initialized", "subjects": out})
}
