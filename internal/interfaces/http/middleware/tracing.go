package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request through otelgin and tags it with
// the request id and the signed-in staff member once the handlers ran.
// Requests to skipPaths are not traced.
func Tracing(serviceName string, tp trace.TracerProvider, skipPaths ...string) gin.HandlersChain {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	base := otelgin.Middleware(serviceName, otelgin.WithTracerProvider(tp))
	traced := func(c *gin.Context) {
		if _, skipped := skip[c.Request.URL.Path]; skipped {
			c.Next()
			return
		}
		base(c)
	}
	return gin.HandlersChain{traced, enrichSpan}
}

// enrichSpan runs inside the otelgin span so attributes land before it ends.
func enrichSpan(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	if id := c.GetString(RequestIDKey); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if actor, ok := GetActor(c); ok {
		span.SetAttributes(
			attribute.String("staff.id", actor.ID.String()),
			attribute.String("staff.role", string(actor.Role)),
		)
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
