package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/teashop/backend/internal/domain/activity"
	"github.com/teashop/backend/internal/domain/announcement"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/domain/task"
	"go.uber.org/zap"
)

var eventActions = map[string]activity.Action{
	identity.EventTypeUserLoggedIn:            activity.ActionLogin,
	identity.EventTypeUserLoggedOut:           activity.ActionLogout,
	task.EventTypeTaskCompleted:               activity.ActionTaskComplete,
	announcement.EventTypeAnnouncementCreated: activity.ActionAnnouncementCreate,
	activity.EventTypeContentEdited:           activity.ActionContentEdit,
}

// EventHandler turns domain events into activity entries
type EventHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewEventHandler creates a handler writing through service
func NewEventHandler(service *Service, logger *zap.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

// EventTypes returns the events that are tracked
func (h *EventHandler) EventTypes() []string {
	return []string{
		identity.EventTypeUserLoggedIn,
		identity.EventTypeUserLoggedOut,
		task.EventTypeTaskCompleted,
		announcement.EventTypeAnnouncementCreated,
		activity.EventTypeContentEdited,
	}
}

// Handle records the event against its actor. System events without an
// actor are ignored.
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	action, ok := eventActions[event.EventType()]
	if !ok || event.ActorID() == uuid.Nil {
		return nil
	}
	if err := h.service.Record(ctx, event.ActorID(), action, details(event)); err != nil {
		h.logger.Error("Failed to record activity",
			zap.String("event_type", event.EventType()),
			zap.String("actor_id", event.ActorID().String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func details(event shared.DomainEvent) string {
	switch e := event.(type) {
	case *task.TaskCompletedEvent:
		return e.Title
	case *announcement.AnnouncementCreatedEvent:
		return e.Title
	case *activity.ContentEditedEvent:
		return e.Summary
	case *identity.UserLoggedInEvent:
		return e.Username
	}
	return ""
}

var _ shared.EventHandler = (*EventHandler)(nil)
