package handler

import (
	"github.com/gin-gonic/gin"
	situationapp "github.com/teashop/backend/internal/application/situation"
	"github.com/teashop/backend/internal/domain/situation"
)

// SituationHandler serves the service situation playbook
type SituationHandler struct {
	BaseHandler
	situationService *situationapp.Service
}

// NewSituationHandler creates a new SituationHandler
func NewSituationHandler(base BaseHandler, situationService *situationapp.Service) *SituationHandler {
	return &SituationHandler{BaseHandler: base, situationService: situationService}
}

// List returns situations filtered by the query string
func (h *SituationHandler) List(c *gin.Context) {
	var input situationapp.ListSituationsInput
	if !h.bindQuery(c, &input) {
		return
	}
	list, err := h.situationService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetHighPriority returns the active high priority situations
func (h *SituationHandler) GetHighPriority(c *gin.Context) {
	list, err := h.situationService.GetHighPrioritySituations(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetByCategory returns the situations of one category
func (h *SituationHandler) GetByCategory(c *gin.Context) {
	list, err := h.situationService.GetByCategory(c.Request.Context(), situation.Category(c.Param("category")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get returns one situation
func (h *SituationHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	sit, err := h.situationService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sit)
}

// Create adds a situation
func (h *SituationHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input situationapp.CreateSituationInput
	if !h.bindJSON(c, &input) {
		return
	}
	sit, err := h.situationService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sit)
}

// Update changes a situation
func (h *SituationHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input situationapp.UpdateSituationInput
	if !h.bindJSON(c, &input) {
		return
	}
	sit, err := h.situationService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sit)
}

// Delete removes a situation
func (h *SituationHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.situationService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// AddResponse appends a suggested response
func (h *SituationHandler) AddResponse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input situationapp.ResponseInput
	if !h.bindJSON(c, &input) {
		return
	}
	sit, err := h.situationService.AddResponse(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sit)
}

// UpdateResponse changes a suggested response
func (h *SituationHandler) UpdateResponse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	responseID, ok := h.pathID(c, "rid")
	if !ok {
		return
	}
	var input situationapp.UpdateResponseInput
	if !h.bindJSON(c, &input) {
		return
	}
	sit, err := h.situationService.UpdateResponse(c.Request.Context(), actor, id, responseID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sit)
}

// RemoveResponse drops a suggested response
func (h *SituationHandler) RemoveResponse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	responseID, ok := h.pathID(c, "rid")
	if !ok {
		return
	}
	sit, err := h.situationService.RemoveResponse(c.Request.Context(), actor, id, responseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sit)
}
