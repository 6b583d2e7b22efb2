package schedule

import (
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// Aggregate type constant for WeeklySchedule
const AggregateTypeWeeklySchedule = "WeeklySchedule"

// Schedule domain event types
const (
	EventTypeWeeklyScheduleCreated = "WeeklyScheduleCreated"
	EventTypeAssignmentCompleted   = "AssignmentCompleted"
)

// WeeklyScheduleCreatedEvent is published when a week document is first created
type WeeklyScheduleCreatedEvent struct {
	shared.BaseDomainEvent
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// NewWeeklyScheduleCreatedEvent creates a new WeeklyScheduleCreatedEvent
func NewWeeklyScheduleCreatedEvent(s *WeeklySchedule) *WeeklyScheduleCreatedEvent {
	return &WeeklyScheduleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWeeklyScheduleCreated, AggregateTypeWeeklySchedule, s.ID, s.CreatedBy),
		StartDate:       FormatDate(s.StartDate),
		EndDate:         FormatDate(s.EndDate),
	}
}

// AssignmentCompletedEvent is published the first time an assignment is completed
type AssignmentCompletedEvent struct {
	shared.BaseDomainEvent
	AssignmentID uuid.UUID `json:"assignment_id"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	Date         string    `json:"date"`
}

// NewAssignmentCompletedEvent creates a new AssignmentCompletedEvent
func NewAssignmentCompletedEvent(s *WeeklySchedule, a Assignment) *AssignmentCompletedEvent {
	actor := uuid.Nil
	if a.CompletedBy != nil {
		actor = *a.CompletedBy
	}
	return &AssignmentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssignmentCompleted, AggregateTypeWeeklySchedule, s.ID, actor),
		AssignmentID:    a.ID,
		EmployeeID:      a.EmployeeID,
		Date:            FormatDate(a.Date),
	}
}
