package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	ctxRequestIDKey = "request_id"
	ctxLoggerKey    = "logger"
)

// RequestID propagates an incoming X-Request-Id or generates one, and stores
// a logger carrying it in the gin context.
func RequestID(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(ctxRequestIDKey, id)
		c.Set(ctxLoggerKey, log.With("request_id", id))
		c.Next()
	}
}

// RequestLog writes one structured line per request.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		Logger(c).Log(c.Request.Context(), level, "http_request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// Logger returns the request-scoped logger, or slog.Default outside a request.
func Logger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(ctxLoggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// RequestIDFrom returns the id set by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}
