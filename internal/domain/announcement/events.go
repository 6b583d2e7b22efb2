package announcement

import (
	"github.com/teashop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAnnouncement = "Announcement"

// EventTypeAnnouncementCreated is raised when an announcement is posted
const EventTypeAnnouncementCreated = "AnnouncementCreated"

// AnnouncementCreatedEvent is raised when an announcement is posted
type AnnouncementCreatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewAnnouncementCreatedEvent creates a new AnnouncementCreatedEvent
func NewAnnouncementCreatedEvent(a *Announcement) *AnnouncementCreatedEvent {
	return &AnnouncementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAnnouncementCreated, AggregateTypeAnnouncement, a.ID, a.CreatedBy),
		Title:           a.Title,
	}
}
