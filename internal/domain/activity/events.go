package activity

import (
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// EventTypeContentEdited is raised when staff-facing content changes
const EventTypeContentEdited = "ContentEdited"

// ContentEditedEvent is raised by the content stores after an edit
type ContentEditedEvent struct {
	shared.BaseDomainEvent
	Summary string `json:"summary"`
}

// NewContentEditedEvent creates a new ContentEditedEvent for the aggregate
func NewContentEditedEvent(aggType string, aggID, actorID uuid.UUID, summary string) *ContentEditedEvent {
	return &ContentEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContentEdited, aggType, aggID, actorID),
		Summary:         summary,
	}
}
