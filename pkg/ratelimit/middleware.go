package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/logger"
	"github.com/tasafe/tasafe-api/pkg/middleware"
)

// Middleware enforces per-caller request budgets. Authenticated callers
// are keyed by user id, anonymous callers by client IP. Redis failures
// fail open: a broken limiter must not take the API down with it.
func Middleware(limiter *Limiter, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !limiter.Enabled() {
			c.Next()
			return
		}

		identity, subject := identify(c, jwtSecret)
		rule := limiter.RuleFor(c.FullPath(), identity)

		result, err := limiter.Allow(c.Request.Context(), subject, rule)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("Rate limiter unavailable, failing open",
				zap.Error(err))
			c.Next()
			return
		}

		if !result.Allowed {
			c.Writer.Header().Set("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
			common.ErrorResponse(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}

// identify resolves who is calling. The limiter is installed ahead of the
// route-group auth middleware, so it validates the bearer token itself
// when the context carries no identity yet. Anything without a usable
// identity shares the per-IP budget.
func identify(c *gin.Context, jwtSecret string) (Identity, string) {
	if userID, err := middleware.GetUserID(c); err == nil {
		return IdentityAuthenticated, "user:" + userID.String()
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if claims, err := middleware.ParseToken(parts[1], jwtSecret); err == nil {
			if userID, err := uuid.Parse(claims.Subject); err == nil {
				return IdentityAuthenticated, "user:" + userID.String()
			}
		}
	}

	return IdentityAnonymous, "ip:" + c.ClientIP()
}
