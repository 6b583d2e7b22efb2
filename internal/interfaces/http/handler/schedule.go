package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	scheduleapp "github.com/teashop/backend/internal/application/schedule"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/shared"
)

// ScheduleHandler serves the weekly schedule and its time slots
type ScheduleHandler struct {
	BaseHandler
	scheduleService *scheduleapp.Service
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(base BaseHandler, scheduleService *scheduleapp.Service) *ScheduleHandler {
	return &ScheduleHandler{BaseHandler: base, scheduleService: scheduleService}
}

// ListTimeSlots returns the slots ordered by start time
func (h *ScheduleHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.scheduleService.ListTimeSlots(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slots)
}

// CreateTimeSlot adds a slot
func (h *ScheduleHandler) CreateTimeSlot(c *gin.Context) {
	var input scheduleapp.TimeSlotInput
	if !h.bindJSON(c, &input) {
		return
	}
	slot, err := h.scheduleService.CreateTimeSlot(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, slot)
}

// UpdateTimeSlot changes a slot
func (h *ScheduleHandler) UpdateTimeSlot(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input scheduleapp.UpdateTimeSlotInput
	if !h.bindJSON(c, &input) {
		return
	}
	slot, err := h.scheduleService.UpdateTimeSlot(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slot)
}

// DeleteTimeSlot removes a slot
func (h *ScheduleHandler) DeleteTimeSlot(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.scheduleService.DeleteTimeSlot(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// CreateWeek returns the week containing the date, creating it when missing
func (h *ScheduleHandler) CreateWeek(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input scheduleapp.CreateWeekInput
	if !h.bindJSON(c, &input) {
		return
	}
	week, err := h.scheduleService.CreateWeeklySchedule(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, week)
}

// GetWeek returns the week containing ?date=, or null when none exists
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	week, err := h.scheduleService.GetWeeklySchedule(c.Request.Context(), c.Query("date"))
	if errors.Is(err, shared.ErrNotFound) {
		h.Success(c, nil)
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, week)
}

// GetGrid returns the day by slot grid of the week containing ?date=
func (h *ScheduleHandler) GetGrid(c *gin.Context) {
	grid, err := h.scheduleService.GetWeekGrid(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grid)
}

// AddAssignment adds an assignment to a week
func (h *ScheduleHandler) AddAssignment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	weekID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input scheduleapp.AddAssignmentInput
	if !h.bindJSON(c, &input) {
		return
	}
	assignment, err := h.scheduleService.AddAssignment(c.Request.Context(), actor, weekID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, assignment)
}

// UpdateAssignment changes an assignment
func (h *ScheduleHandler) UpdateAssignment(c *gin.Context) {
	actor, weekID, assignmentID, ok := h.assignmentRef(c)
	if !ok {
		return
	}
	var input scheduleapp.UpdateAssignmentInput
	if !h.bindJSON(c, &input) {
		return
	}
	assignment, err := h.scheduleService.UpdateAssignment(c.Request.Context(), actor, weekID, assignmentID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignment)
}

// DeleteAssignment removes an assignment
func (h *ScheduleHandler) DeleteAssignment(c *gin.Context) {
	actor, weekID, assignmentID, ok := h.assignmentRef(c)
	if !ok {
		return
	}
	if err := h.scheduleService.DeleteAssignment(c.Request.Context(), actor, weekID, assignmentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// AddTask appends a task to an assignment
func (h *ScheduleHandler) AddTask(c *gin.Context) {
	actor, weekID, assignmentID, ok := h.assignmentRef(c)
	if !ok {
		return
	}
	var input scheduleapp.TaskInput
	if !h.bindJSON(c, &input) {
		return
	}
	assignment, err := h.scheduleService.AddTaskToAssignment(c.Request.Context(), actor, weekID, assignmentID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, assignment)
}

// RemoveTask drops a task from an assignment
func (h *ScheduleHandler) RemoveTask(c *gin.Context) {
	actor, weekID, assignmentID, ok := h.assignmentRef(c)
	if !ok {
		return
	}
	taskID, ok := h.pathID(c, "tid")
	if !ok {
		return
	}
	assignment, err := h.scheduleService.RemoveTaskFromAssignment(c.Request.Context(), actor, weekID, assignmentID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignment)
}

// CompleteAssignment marks an assignment done
func (h *ScheduleHandler) CompleteAssignment(c *gin.Context) {
	actor, weekID, assignmentID, ok := h.assignmentRef(c)
	if !ok {
		return
	}
	assignment, err := h.scheduleService.MarkAssignmentComplete(c.Request.Context(), actor, weekID, assignmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignment)
}

// GetEmployeeSchedule lists an employee's assignments in the week of ?date=
func (h *ScheduleHandler) GetEmployeeSchedule(c *gin.Context) {
	employeeID, ok := h.pathID(c, "employeeId")
	if !ok {
		return
	}
	assignments, err := h.scheduleService.GetEmployeeSchedule(c.Request.Context(), employeeID, c.Query("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignments)
}

func (h *ScheduleHandler) assignmentRef(c *gin.Context) (actor appshared.Actor, weekID, assignmentID uuid.UUID, ok bool) {
	if actor, ok = h.actor(c); !ok {
		return
	}
	if weekID, ok = h.pathID(c, "id"); !ok {
		return
	}
	assignmentID, ok = h.pathID(c, "aid")
	return
}
