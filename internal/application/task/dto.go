package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/task"
)

// CreateTaskInput contains the fields of a new task
type CreateTaskInput struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=2000"`
	Type          task.Type       `json:"type"`
	Category      task.Category   `json:"category"`
	Priority      task.Priority   `json:"priority"`
	StartDate     *time.Time      `json:"start_date"`
	DurationDays  int             `json:"duration_days" validate:"min=0,max=3650"`
	DueDate       *time.Time      `json:"due_date"`
	VisibleTo     []identity.Role `json:"visible_to"`
	AssignedTo    []uuid.UUID     `json:"assigned_to"`
	ScheduledTime string          `json:"scheduled_time" validate:"omitempty,clock"`
	Position      string          `json:"position" validate:"max=50"`
	IsRecurring   bool            `json:"is_recurring"`
	RecurringDays []int           `json:"recurring_days" validate:"dive,min=0,max=6"`
}

// UpdateTaskInput changes a task; nil fields are kept
type UpdateTaskInput struct {
	Title         *string          `json:"title" validate:"omitempty,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	Type          *task.Type       `json:"type"`
	Category      *task.Category   `json:"category"`
	Priority      *task.Priority   `json:"priority"`
	StartDate     *time.Time       `json:"start_date"`
	DurationDays  *int             `json:"duration_days" validate:"omitempty,min=0,max=3650"`
	DueDate       *time.Time       `json:"due_date"`
	VisibleTo     *[]identity.Role `json:"visible_to"`
	AssignedTo    *[]uuid.UUID     `json:"assigned_to"`
	ScheduledTime *string          `json:"scheduled_time" validate:"omitempty,clock"`
	Position      *string          `json:"position" validate:"omitempty,max=50"`
	IsRecurring   *bool            `json:"is_recurring"`
	RecurringDays *[]int           `json:"recurring_days"`
}

// ListTasksInput filters task listings
type ListTasksInput struct {
	Type     task.Type     `form:"type"`
	Category task.Category `form:"category"`
	Status   task.Status   `form:"status"`
	Priority task.Priority `form:"priority"`
}

// ProgressInput sets the completion percentage. Values are clamped to 0..100.
type ProgressInput struct {
	Progress *int `json:"progress" validate:"required"`
}

// TaskView is a task with resolved names
type TaskView struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Type            task.Type       `json:"type"`
	Category        task.Category   `json:"category"`
	Priority        task.Priority   `json:"priority"`
	Status          task.Status     `json:"status"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	DurationDays    int             `json:"duration_days"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	RemainingDays   int             `json:"remaining_days"`
	Progress        int             `json:"progress"`
	VisibleTo       []identity.Role `json:"visible_to"`
	AssignedTo      []uuid.UUID     `json:"assigned_to"`
	AssignedToNames []string        `json:"assigned_to_names"`
	ScheduledTime   string          `json:"scheduled_time"`
	Position        string          `json:"position"`
	IsRecurring     bool            `json:"is_recurring"`
	RecurringDays   []int           `json:"recurring_days"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CompletedBy     *uuid.UUID      `json:"completed_by,omitempty"`
	CompletedByName string          `json:"completed_by_name,omitempty"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	CreatedByName   string          `json:"created_by_name"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toWeekdays(days []int) []time.Weekday {
	if days == nil {
		return nil
	}
	out := make([]time.Weekday, len(days))
	for i, d := range days {
		out[i] = time.Weekday(d)
	}
	return out
}

func fromWeekdays(days []time.Weekday) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}

func toTaskView(t *task.Task, names map[uuid.UUID]string, now time.Time) TaskView {
	v := TaskView{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Type:            t.Type,
		Category:        t.Category,
		Priority:        t.Priority,
		Status:          t.Status,
		StartDate:       t.StartDate,
		DurationDays:    t.DurationDays,
		DueDate:         t.DueDate,
		RemainingDays:   t.RemainingDays(now),
		Progress:        t.EffectiveProgress(),
		VisibleTo:       t.VisibleTo,
		AssignedTo:      t.AssignedTo,
		AssignedToNames: make([]string, len(t.AssignedTo)),
		ScheduledTime:   t.ScheduledTime,
		Position:        t.Position,
		IsRecurring:     t.IsRecurring,
		RecurringDays:   fromWeekdays(t.RecurringDays),
		CompletedAt:     t.CompletedAt,
		CompletedBy:     t.CompletedBy,
		CreatedBy:       t.CreatedBy,
		CreatedByName:   names[t.CreatedBy],
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	for i, id := range t.AssignedTo {
		v.AssignedToNames[i] = names[id]
	}
	if t.CompletedBy != nil {
		v.CompletedByName = names[*t.CompletedBy]
	}
	return v
}
