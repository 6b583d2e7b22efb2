package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDContextKey is the gin key the request id middleware writes to.
const RequestIDContextKey = "request_id"

// AccessLogOptions tunes AccessLog.
type AccessLogOptions struct {
	// QuietPaths are only logged when they fail. Used for health probes.
	QuietPaths []string
}

// AccessLog opens a request scope on the request context and writes one line
// per request once the handler chain returns.
func AccessLog(log *zap.Logger, opts AccessLogOptions) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(opts.QuietPaths))
	for _, p := range opts.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		reqLog := log.With(zap.String("method", c.Request.Method), zap.String("path", path))
		ctx := c.Request.Context()
		if id := c.GetString(RequestIDContextKey); id != "" {
			ctx, _ = WithRequest(ctx, reqLog, id)
		} else {
			ctx = Attach(ctx, reqLog)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		if _, ok := quiet[path]; ok && status < http.StatusBadRequest {
			return
		}

		// handlers replace the request context when they authenticate
		ctx = c.Request.Context()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		out := From(ctx)
		switch {
		case status >= http.StatusInternalServerError:
			out.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			out.Warn("HTTP request", fields...)
		default:
			out.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 with the standard error envelope.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error("Panic recovered",
				zap.String("request_id", c.GetString(RequestIDContextKey)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Internal server error",
				},
			})
		}()
		c.Next()
	}
}
