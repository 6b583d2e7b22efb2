package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/task"
)

// TaskModel is the persistence model for a board task.
// Audience and recurrence lists are JSON columns.
type TaskModel struct {
	AggregateModel
	Title         string        `gorm:"type:varchar(200);not null"`
	Description   string        `gorm:"type:text"`
	Type          task.Type     `gorm:"type:varchar(20);not null;index"`
	Category      task.Category `gorm:"type:varchar(20);not null;index"`
	Priority      task.Priority `gorm:"type:varchar(20);not null"`
	Status        task.Status   `gorm:"type:varchar(20);not null;index"`
	StartDate     *time.Time
	DurationDays  int                     `gorm:"not null"`
	DueDate       *time.Time              `gorm:"index"`
	Progress      int                     `gorm:"not null"`
	VisibleTo     JSONList[identity.Role] `gorm:"not null"`
	AssignedTo    JSONList[uuid.UUID]     `gorm:"not null"`
	ScheduledTime string                  `gorm:"type:varchar(5)"`
	Position      string                  `gorm:"type:varchar(50)"`
	IsRecurring   bool                    `gorm:"not null;index"`
	RecurringDays JSONList[time.Weekday]  `gorm:"not null"`
	CompletedAt   *time.Time
	CompletedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task
func (m *TaskModel) ToDomain() *task.Task {
	return &task.Task{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Type:              m.Type,
		Category:          m.Category,
		Priority:          m.Priority,
		Status:            m.Status,
		StartDate:         m.StartDate,
		DurationDays:      m.DurationDays,
		DueDate:           m.DueDate,
		Progress:          m.Progress,
		VisibleTo:         []identity.Role(m.VisibleTo),
		AssignedTo:        []uuid.UUID(m.AssignedTo),
		ScheduledTime:     m.ScheduledTime,
		Position:          m.Position,
		IsRecurring:       m.IsRecurring,
		RecurringDays:     []time.Weekday(m.RecurringDays),
		CompletedAt:       m.CompletedAt,
		CompletedBy:       m.CompletedBy,
	}
}

// FromDomain populates the persistence model from a domain Task
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Title = t.Title
	m.Description = t.Description
	m.Type = t.Type
	m.Category = t.Category
	m.Priority = t.Priority
	m.Status = t.Status
	m.StartDate = t.StartDate
	m.DurationDays = t.DurationDays
	m.DueDate = t.DueDate
	m.Progress = t.Progress
	m.VisibleTo = JSONList[identity.Role](t.VisibleTo)
	m.AssignedTo = JSONList[uuid.UUID](t.AssignedTo)
	m.ScheduledTime = t.ScheduledTime
	m.Position = t.Position
	m.IsRecurring = t.IsRecurring
	m.RecurringDays = JSONList[time.Weekday](t.RecurringDays)
	m.CompletedAt = t.CompletedAt
	m.CompletedBy = t.CompletedBy
}

// TaskModelFromDomain creates a new persistence model from domain entity
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
