package training

import (
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeModule = "TrainingModule"

// EventTypeModuleCompleted is raised the first time a user completes a module
const EventTypeModuleCompleted = "TrainingModuleCompleted"

// ModuleCompletedEvent is raised the first time a user completes a module
type ModuleCompletedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewModuleCompletedEvent creates a new ModuleCompletedEvent
func NewModuleCompletedEvent(m *Module, userID uuid.UUID) *ModuleCompletedEvent {
	return &ModuleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeModuleCompleted, AggregateTypeModule, m.ID, userID),
		Title:           m.Title,
	}
}
