package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/medstudy-backend/internal/http/response"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type AIHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewAIHandler(log *logger.Logger, chat services.ChatService) *AIHandler {
	return &AIHandler{log: log.With("handler", "AIHandler"), chat: chat}
}

type askReq struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// POST /api/ai/ask
func (h *AIHandler) Ask(c *gin.Context) {
	var req askReq
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.chat.Ask(dbctx.New(c.Request.Context()), req.Question, req.Context)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/ai/chat-history?limit=50
func (h *AIHandler) ChatHistory(c *gin.Context) {
	out, err := h.chat.History(dbctx.New(c.Request.Context()), queryLimit(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

type enhanceNotesReq struct {
	Notes   string `json:"notes"`
	Subject string `json:"subject"`
}

// POST /api/ai/enhance-notes
func (h *AIHandler) EnhanceNotes(c *gin.Context) {
	var req enhanceNotesReq
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.chat.EnhanceNotes(dbctx.New(c.Request.Context()), req.Notes, req.Subject)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"enhancedNotes": out})
}

type generateMCQsReq struct {
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// POST /api/ai/generate-mcqs
func (h *AIHandler) GenerateMCQs(c *gin.Context) {
	var req generateMCQsReq
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.chat.GenerateMCQs(dbctx.New(c.Request.Context()), req.Subject, req.Topic, req.Difficulty)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": out})
}

// GET /api/ai/recommendations
func (h *AIHandler) Recommendations(c *gin.Context) {
	out, err := h.chat.Recommendations(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": out})
}
