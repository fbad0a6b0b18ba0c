package middleware

import (
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxRequestIDLen = 64
)

// AttachTraceContext stores request and trace ids on the request context and
// echoes them in response headers. The active span's trace id wins over a
// client supplied X-Trace-Id. Client ids that are not well formed are replaced.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := requestIDFrom(c.GetHeader(headerRequestID))
		traceID := traceIDFrom(c)

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

// requestIDFrom accepts a client request id only when it is a UUID.
func requestIDFrom(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" && len(raw) <= maxRequestIDLen {
		if id, err := uuid.Parse(raw); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

func traceIDFrom(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	if id, err := trace.TraceIDFromHex(strings.ToLower(strings.TrimSpace(c.GetHeader(headerTraceID)))); err == nil {
		return id.String()
	}
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
