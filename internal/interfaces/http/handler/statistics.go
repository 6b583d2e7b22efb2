package handler

import (
	"github.com/gin-gonic/gin"
	activityapp "github.com/teashop/backend/internal/application/activity"
)

// StatisticsHandler serves per-user activity statistics
type StatisticsHandler struct {
	BaseHandler
	activityService *activityapp.Service
}

// NewStatisticsHandler creates a new StatisticsHandler
func NewStatisticsHandler(base BaseHandler, activityService *activityapp.Service) *StatisticsHandler {
	return &StatisticsHandler{BaseHandler: base, activityService: activityService}
}

// GetUserStatistics returns the action counts and recent activity of a user
func (h *StatisticsHandler) GetUserStatistics(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.activityService.GetUserStatistics(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListActivities returns the newest activity entries, ?limit= caps them
func (h *StatisticsHandler) ListActivities(c *gin.Context) {
	logs, err := h.activityService.ListRecent(c.Request.Context(), queryInt(c, "limit", activityapp.DefaultRecentLimit))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}
