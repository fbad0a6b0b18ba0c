package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/medstudy-backend/internal/http/response"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewAuthHandler(log *logger.Logger, userService services.UserService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), userService: userService}
}

// POST /api/auth/session
// Syncs the local user row from the bearer token claims.
func (h *AuthHandler) Session(c *gin.Context) {
	u, err := h.userService.SyncFromToken(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /api/auth/user
func (h *AuthHandler) GetUser(c *gin.Context) {
	u, err := h.userService.GetMe(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, u)
}

// DELETE /api/auth/user
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteMe(dbctx.New(c.Request.Context())); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Account deleted successfully"})
}
