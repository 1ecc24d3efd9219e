package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/requestctx"
)

const HeaderRequestID = "X-Request-Id"

// RequestLogger ensures every request has a stable request ID.
// - Reads X-Request-Id header if present, otherwise generates one
// - Puts the id and a request-scoped logger into the request context
// - Echoes the id back in the response header
// - Logs method, route, status and latency once the handler returns
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		log := base.With(zap.String("request_id", rid))
		ctx := requestctx.WithRequestID(c.Request.Context(), rid)
		ctx = logging.WithContext(ctx, log)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(HeaderRequestID, rid)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// Handlers may have enriched the logger (e.g. with the uid).
		log = logging.FromContext(c.Request.Context())
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns a panic into a logged 500 with the JSON error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Op(c.Request.Context(), "http.recover").Error("panic", zap.Any("panic", recovered), zap.Stack("stack"))
		c.AbortWithStatusJSON(500, gin.H{"ok": false, "error": "internal server error"})
	})
}
