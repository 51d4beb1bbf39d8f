package handler

import (
	"strconv"
	"strings"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/metric"
	"dokan-backend/internal/models"
	"dokan-backend/internal/ratelimit"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticate and read by the handlers.
const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
)

// Authenticate parses the bearer token and stores the session identity
// on the context. With required=false an absent header passes through
// as a guest, but a present-and-broken token still fails: a stale
// session must never silently downgrade to anonymous.
func Authenticate(tokens *service.TokenManager, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				fail(c, apperr.Auth("missing", "authentication required"))
				return
			}
			c.Next()
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			fail(c, apperr.Auth("invalid", "malformed authorization header"))
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			fail(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates the back-office routes. It must sit behind
// Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, found := c.Get(ctxRole)
		if !found || role != models.RoleAdmin {
			fail(c, apperr.Forbidden("admin access required"))
			return
		}
		c.Next()
	}
}

// RateLimit counts hits per client IP under the scope's ceiling and
// rejects the overflow with a retry hint. Every response carries the
// X-RateLimit headers so clients can pace themselves.
func RateLimit(limiter *ratelimit.Limiter, scope string, conf ratelimit.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := limiter.Allow(scope, c.ClientIP(), conf)

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			retryAfter := int(d.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			fail(c, apperr.RateLimited(retryAfter))
			return
		}
		c.Next()
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metric.ObserveRequest(duration, status)
	}
}

// authedUserID returns the id Authenticate stored, if any.
func authedUserID(c *gin.Context) (string, bool) {
	v, found := c.Get(ctxUserID)
	if !found {
		return "", false
	}
	id, isString := v.(string)
	return id, isString && id != ""
}
