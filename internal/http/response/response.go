package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/medstudy-backend/internal/platform/apierr"
	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr classifies err and writes the envelope. Internal errors are
// logged with the request id and their message is hidden from the caller.
func RespondErr(c *gin.Context, log *logger.Logger, err error) {
	status, code := apierr.Classify(err)
	if status >= http.StatusInternalServerError {
		if log != nil {
			fields := []any{"path", c.FullPath(), "error", err.Error()}
			if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
				fields = append(fields, "request_id", td.RequestID, "trace_id", td.TraceID)
			}
			log.Error("Request failed", fields...)
		}
		_ = c.Error(err)
		RespondError(c, status, code, publicServerError(status))
		return
	}
	RespondError(c, status, code, errors.New(apierr.PublicMessage(code, err)))
}

func publicServerError(status int) error {
	if status == http.StatusBadGateway {
		return errAIUnavailable
	}
	return errInternal
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

var (
	errInternal      = errors.New("internal server error")
	errAIUnavailable = errors.New("Failed to get AI response. Please try again.")
)
