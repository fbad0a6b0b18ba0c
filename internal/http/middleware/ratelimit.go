package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/medstudy-backend/internal/http/response"
	"github.com/yungbote/medstudy-backend/internal/observability"
	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/platform/ratelimit"
)

// RateLimit budgets requests per authenticated user, falling back to the
// client IP. Limiter errors fail open.
func RateLimit(log *logger.Logger, limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("Middleware", "RateLimit", "scope", scope)
	return func(c *gin.Context) {
		key := ctxutil.UserID(c.Request.Context())
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		d, err := limiter.Allow(c.Request.Context(), scope+":"+key)
		if err != nil {
			log.Warn("Rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			observability.Current().IncRateLimited(scope)
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", errors.New("too many requests, slow down"))
			c.Abort()
			return
		}
		c.Next()
	}
}
