package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"namidia/internal/logger"
	"namidia/internal/metrics"
	"namidia/internal/ratelimit"
	"namidia/internal/supabase"

	"github.com/gin-gonic/gin"
)

// Ctx key and helpers for the authenticated backend user
// Using unexported type to avoid collisions

type ctxKey string

const userKey ctxKey = "auth_user"

func ContextWithUser(ctx context.Context, user *supabase.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*supabase.User, bool) {
	user, ok := ctx.Value(userKey).(*supabase.User)
	return user, ok
}

// CORS handles cross-origin requests from the storefront
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID tags each request with an id for log correlation, honoring
// one supplied by the caller in X-Request-ID and echoing it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = logger.NewRequestID()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), "request_id", id))
		c.Next()
	}
}

// Logger emits one structured log line per request and feeds the request
// counter
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if status >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			logger.WithContext(c.Request.Context()).Error("Request completed with error", logFields...)
		}
	}
}

// Recovery turns panics into 500 responses with detailed logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// bearerToken pulls the access token out of the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// resolveUser turns the Bearer token into a user via the backend's auth
// endpoint and attaches it to the request context. It aborts with a 401
// on failure and never advances the handler chain; the caller decides
// when to call c.Next().
func resolveUser(c *gin.Context, sb *supabase.Client) (*supabase.User, bool) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
		return nil, false
	}

	user, err := sb.GetUser(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
		return nil, false
	}

	c.Set("user_email", user.Email)
	ctx := context.WithValue(c.Request.Context(), "user_id", user.ID)
	c.Request = c.Request.WithContext(ContextWithUser(ctx, user))
	return user, true
}

// RequireUser resolves the Bearer token through the backend's auth
// endpoint. Token validation itself is the backend's job; this code only
// forwards the token and keeps the resolved user on the context.
func RequireUser(sb *supabase.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := resolveUser(c, sb); !ok {
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireUser plus the e-mail allow-list check used by
// the back office endpoints. The allow-list is checked before the chain
// advances, so a non-admin never reaches the protected handler.
func RequireAdmin(sb *supabase.Client, allowedEmails []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		allowed[strings.ToLower(email)] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := resolveUser(c, sb)
		if !ok {
			return
		}

		if _, ok := allowed[strings.ToLower(user.Email)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}

// RateLimit applies the fixed-window limiter keyed by client IP, plus an
// optional resource suffix so different endpoints get separate budgets.
func RateLimit(limiter *ratelimit.Limiter, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if resource != "" {
			key += ":" + resource
		}

		result := limiter.Allow(key)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			metrics.RateLimited.Inc()
			retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "Too many requests",
				"reset_at": result.ResetAt.Unix(),
			})
			return
		}

		c.Next()
	}
}
