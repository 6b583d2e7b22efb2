package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	trainingapp "github.com/teashop/backend/internal/application/training"
	"github.com/teashop/backend/internal/domain/training"
)

// TrainingHandler serves training modules, their contents and sessions
type TrainingHandler struct {
	BaseHandler
	trainingService *trainingapp.Service
}

// NewTrainingHandler creates a new TrainingHandler
func NewTrainingHandler(base BaseHandler, trainingService *trainingapp.Service) *TrainingHandler {
	return &TrainingHandler{BaseHandler: base, trainingService: trainingService}
}

// List returns modules, optionally narrowed by ?category=
func (h *TrainingHandler) List(c *gin.Context) {
	modules, err := h.trainingService.List(c.Request.Context(), training.Category(c.Query("category")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modules)
}

// GetByCategory returns the modules of one category
func (h *TrainingHandler) GetByCategory(c *gin.Context) {
	modules, err := h.trainingService.GetModulesByCategory(c.Request.Context(), training.Category(c.Param("category")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modules)
}

// Get returns one module
func (h *TrainingHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	module, err := h.trainingService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, module)
}

// Create adds a module
func (h *TrainingHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input trainingapp.CreateModuleInput
	if !h.bindJSON(c, &input) {
		return
	}
	module, err := h.trainingService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, module)
}

// Update changes a module
func (h *TrainingHandler) Update(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	var input trainingapp.UpdateModuleInput
	if !h.bindJSON(c, &input) {
		return
	}
	module, err := h.trainingService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, module)
}

// Delete removes a module
func (h *TrainingHandler) Delete(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	if err := h.trainingService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// AddContent appends a content block
func (h *TrainingHandler) AddContent(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	var input trainingapp.ContentInput
	if !h.bindJSON(c, &input) {
		return
	}
	module, err := h.trainingService.AddContent(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, module)
}

// UpdateContent changes one content block
func (h *TrainingHandler) UpdateContent(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	contentID, ok := h.pathID(c, "cid")
	if !ok {
		return
	}
	var input trainingapp.UpdateContentInput
	if !h.bindJSON(c, &input) {
		return
	}
	module, err := h.trainingService.UpdateContent(c.Request.Context(), actor, id, contentID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, module)
}

// RemoveContent drops one content block
func (h *TrainingHandler) RemoveContent(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	contentID, ok := h.pathID(c, "cid")
	if !ok {
		return
	}
	module, err := h.trainingService.RemoveContent(c.Request.Context(), actor, id, contentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, module)
}

// ReorderContent renumbers the content blocks in the posted order
func (h *TrainingHandler) ReorderContent(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	var input trainingapp.ReorderInput
	if !h.bindJSON(c, &input) {
		return
	}
	module, err := h.trainingService.ReorderContent(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, module)
}

// Complete records that the caller finished the module
func (h *TrainingHandler) Complete(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	module, err := h.trainingService.MarkModuleComplete(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, module)
}

// AddSchedule plans a training session for the module
func (h *TrainingHandler) AddSchedule(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	var input trainingapp.ScheduleInput
	if !h.bindJSON(c, &input) {
		return
	}
	session, err := h.trainingService.AddSchedule(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// UpdateSchedule replaces a planned session
func (h *TrainingHandler) UpdateSchedule(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	scheduleID, ok := h.pathID(c, "sid")
	if !ok {
		return
	}
	var input trainingapp.ScheduleInput
	if !h.bindJSON(c, &input) {
		return
	}
	session, err := h.trainingService.UpdateSchedule(c.Request.Context(), actor, id, scheduleID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// RemoveSchedule cancels a planned session
func (h *TrainingHandler) RemoveSchedule(c *gin.Context) {
	actor, id, ok := h.moduleRef(c)
	if !ok {
		return
	}
	scheduleID, ok := h.pathID(c, "sid")
	if !ok {
		return
	}
	if err := h.trainingService.RemoveSchedule(c.Request.Context(), actor, id, scheduleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// ListSchedules returns the sessions between ?from= and ?to=
func (h *TrainingHandler) ListSchedules(c *gin.Context) {
	var input trainingapp.DateRangeInput
	if !h.bindQuery(c, &input) {
		return
	}
	sessions, err := h.trainingService.GetSchedulesByDateRange(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sessions)
}

func (h *TrainingHandler) moduleRef(c *gin.Context) (appshared.Actor, uuid.UUID, bool) {
	actor, ok := h.actor(c)
	if !ok {
		return actor, uuid.Nil, false
	}
	id, ok := h.pathID(c, "id")
	return actor, id, ok
}
