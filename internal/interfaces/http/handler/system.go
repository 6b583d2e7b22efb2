package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teashop/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// poolReporter is implemented by stores that expose their connection pool.
type poolReporter interface {
	Stats() sql.DBStats
}

type SystemHandler struct {
	db      Pinger
	appName string
}

func NewSystemHandler(db Pinger, appName string) *SystemHandler {
	return &SystemHandler{db: db, appName: appName}
}

// Health answers 200 when the database responds within healthPingTimeout and
// 503 otherwise.
func (h *SystemHandler) Health(c *gin.Context) {
	body := gin.H{
		"service": h.appName,
		"time":    time.Now().Format(time.RFC3339),
	}
	if pr, ok := h.db.(poolReporter); ok {
		stats := pr.Stats()
		body["pool"] = gin.H{
			"open":   stats.OpenConnections,
			"in_use": stats.InUse,
			"idle":   stats.Idle,
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		logger.From(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		body["status"], body["database"] = "unhealthy", "error"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"], body["database"] = "healthy", "ok"
	c.JSON(http.StatusOK, body)
}
