package rest

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/mustafa-shahin/lf10-project/pkg/auth"
	"github.com/mustafa-shahin/lf10-project/pkg/observability"
)

const claimsKey = "claims"

// Authenticate validates the bearer token and stores the claims on both the
// gin context and the request context.
func Authenticate(jwtService *auth.JWTService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{Message: "Unauthorized"}})
			return
		}
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			logger.Debug("failed to validate token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{Message: "Invalid token"}})
			return
		}
		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(auth.ContextWithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// actorID returns the authenticated person. Only valid behind Authenticate.
func actorID(c *gin.Context) string {
	claims, ok := c.MustGet(claimsKey).(*auth.Claims)
	if !ok {
		return ""
	}
	return claims.PersonID
}

// RateLimit limits requests per client IP.
func RateLimit(instance *limiter.Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		lctx, err := instance.Get(c.Request.Context(), ip)
		if err != nil {
			logger.Error("failed to get rate limit context", "ip", ip, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Message: "rate limit check failed"}})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		if lctx.Reached {
			logger.Warn("rate limit exceeded", "ip", ip, "limit", lctx.Limit)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: ErrorDetail{Message: "Too many requests. Please try again later."}})
			return
		}
		c.Next()
	}
}

// RequestLogger logs each request and records it in the request metrics.
func RequestLogger(logger *slog.Logger, requests *observability.RequestMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		requests.Record(c.Request.Context(), "http", route, strconv.Itoa(status), elapsed)

		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
