package task

import (
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTask = "Task"

// Event type constants
const (
	EventTypeTaskCreated   = "TaskCreated"
	EventTypeTaskCompleted = "TaskCompleted"
)

// TaskCreatedEvent is raised when a task is posted
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Type  Type   `json:"task_type"`
}

// NewTaskCreatedEvent creates a new TaskCreatedEvent
func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, AggregateTypeTask, t.ID, t.CreatedBy),
		Title:           t.Title,
		Type:            t.Type,
	}
}

// TaskCompletedEvent is raised the first time a task is completed
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent
func NewTaskCompletedEvent(t *Task) *TaskCompletedEvent {
	actor := uuid.Nil
	if t.CompletedBy != nil {
		actor = *t.CompletedBy
	}
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, AggregateTypeTask, t.ID, actor),
		Title:           t.Title,
	}
}
