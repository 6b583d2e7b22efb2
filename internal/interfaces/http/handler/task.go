package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	taskapp "github.com/teashop/backend/internal/application/task"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

// TaskHandler serves tasks and the daily checklist
type TaskHandler struct {
	BaseHandler
	taskService *taskapp.Service
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(base BaseHandler, taskService *taskapp.Service) *TaskHandler {
	return &TaskHandler{BaseHandler: base, taskService: taskService}
}

// List returns the tasks visible to the caller
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input taskapp.ListTasksInput
	if !h.bindQuery(c, &input) {
		return
	}
	tasks, err := h.taskService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// GetScheduled returns the caller's upcoming dated tasks
func (h *TaskHandler) GetScheduled(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.GetScheduledTasks(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// GetDaily returns the recurring checklist for ?weekday= (0 is Sunday), today by default
func (h *TaskHandler) GetDaily(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	weekday := time.Now().Weekday()
	if raw := c.Query("weekday"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 6 {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "weekday must be between 0 and 6")
			return
		}
		weekday = time.Weekday(n)
	}
	tasks, err := h.taskService.GetDailyTasks(c.Request.Context(), actor, weekday)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// Get returns one task
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Create adds a task
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input taskapp.CreateTaskInput
	if !h.bindJSON(c, &input) {
		return
	}
	t, err := h.taskService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// Update changes a task
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input taskapp.UpdateTaskInput
	if !h.bindJSON(c, &input) {
		return
	}
	t, err := h.taskService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete removes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// UpdateProgress sets the completion percentage
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input taskapp.ProgressInput
	if !h.bindJSON(c, &input) {
		return
	}
	t, err := h.taskService.UpdateProgress(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Complete marks a task done
func (h *TaskHandler) Complete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.taskService.Complete(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}
