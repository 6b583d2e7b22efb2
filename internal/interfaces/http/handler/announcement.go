package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	announcementapp "github.com/teashop/backend/internal/application/announcement"
	appshared "github.com/teashop/backend/internal/application/shared"
)

// AnnouncementHandler serves announcements, read receipts and questions
type AnnouncementHandler struct {
	BaseHandler
	announcementService *announcementapp.Service
}

// NewAnnouncementHandler creates a new AnnouncementHandler
func NewAnnouncementHandler(base BaseHandler, announcementService *announcementapp.Service) *AnnouncementHandler {
	return &AnnouncementHandler{BaseHandler: base, announcementService: announcementService}
}

// List returns every announcement the caller may see, expired ones included
func (h *AnnouncementHandler) List(c *gin.Context) {
	h.listWith(c, h.announcementService.List)
}

// GetVisible returns the announcements currently in their validity window
func (h *AnnouncementHandler) GetVisible(c *gin.Context) {
	h.listWith(c, h.announcementService.GetVisibleAnnouncements)
}

// GetUnread returns the visible announcements the caller has not read
func (h *AnnouncementHandler) GetUnread(c *gin.Context) {
	h.listWith(c, h.announcementService.GetUnread)
}

func (h *AnnouncementHandler) listWith(c *gin.Context, list func(ctx context.Context, actor appshared.Actor) ([]announcementapp.AnnouncementView, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	views, err := list(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Get returns one announcement
func (h *AnnouncementHandler) Get(c *gin.Context) {
	actor, id, ok := h.announcementRef(c)
	if !ok {
		return
	}
	view, err := h.announcementService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Create publishes an announcement
func (h *AnnouncementHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input announcementapp.CreateAnnouncementInput
	if !h.bindJSON(c, &input) {
		return
	}
	view, err := h.announcementService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// Update changes an announcement
func (h *AnnouncementHandler) Update(c *gin.Context) {
	actor, id, ok := h.announcementRef(c)
	if !ok {
		return
	}
	var input announcementapp.UpdateAnnouncementInput
	if !h.bindJSON(c, &input) {
		return
	}
	view, err := h.announcementService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Delete removes an announcement
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	actor, id, ok := h.announcementRef(c)
	if !ok {
		return
	}
	if err := h.announcementService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// MarkAsRead records that the caller read the announcement
func (h *AnnouncementHandler) MarkAsRead(c *gin.Context) {
	actor, id, ok := h.announcementRef(c)
	if !ok {
		return
	}
	view, err := h.announcementService.MarkAsRead(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// AddQuestion posts a question under the announcement
func (h *AnnouncementHandler) AddQuestion(c *gin.Context) {
	actor, id, ok := h.announcementRef(c)
	if !ok {
		return
	}
	var input announcementapp.QuestionInput
	if !h.bindJSON(c, &input) {
		return
	}
	view, err := h.announcementService.AddQuestion(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// AnswerQuestion answers a question
func (h *AnnouncementHandler) AnswerQuestion(c *gin.Context) {
	actor, id, ok := h.announcementRef(c)
	if !ok {
		return
	}
	questionID, ok := h.pathID(c, "qid")
	if !ok {
		return
	}
	var input announcementapp.AnswerInput
	if !h.bindJSON(c, &input) {
		return
	}
	view, err := h.announcementService.AnswerQuestion(c.Request.Context(), actor, id, questionID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

func (h *AnnouncementHandler) announcementRef(c *gin.Context) (appshared.Actor, uuid.UUID, bool) {
	actor, ok := h.actor(c)
	if !ok {
		return actor, uuid.Nil, false
	}
	id, ok := h.pathID(c, "id")
	return actor, id, ok
}
