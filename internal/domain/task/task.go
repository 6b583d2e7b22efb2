package task

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
)

// Type classifies where a task comes from
type Type string

const (
	TypeUrgent       Type = "urgent"
	TypeHeadquarters Type = "headquarters"
	TypeSpecial      Type = "special"
	TypeScheduled    Type = "scheduled"
)

// Category is the team a task belongs to
type Category string

const (
	CategoryService Category = "service"
	CategoryBar     Category = "bar"
	CategoryAll     Category = "all"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// Status of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (t Type) IsValid() bool {
	return slices.Contains([]Type{TypeUrgent, TypeHeadquarters, TypeSpecial, TypeScheduled}, t)
}

func (c Category) IsValid() bool {
	return slices.Contains([]Category{CategoryService, CategoryBar, CategoryAll}, c)
}

func (p Priority) IsValid() bool {
	return slices.Contains([]Priority{PriorityLow, PriorityNormal, PriorityUrgent}, p)
}

func (s Status) IsValid() bool {
	return slices.Contains([]Status{StatusPending, StatusInProgress, StatusCompleted}, s)
}

// StatusForProgress maps a progress percentage onto a status
func StatusForProgress(progress int) Status {
	switch {
	case progress <= 0:
		return StatusPending
	case progress >= 100:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// Task is a work item on the board. Recurring tasks form the daily checklist.
type Task struct {
	shared.BaseAggregateRoot
	Title         string
	Description   string
	Type          Type
	Category      Category
	Priority      Priority
	Status        Status
	StartDate     *time.Time
	DurationDays  int
	DueDate       *time.Time
	Progress      int
	VisibleTo     []identity.Role
	AssignedTo    []uuid.UUID
	ScheduledTime string
	Position      string
	IsRecurring   bool
	RecurringDays []time.Weekday
	CompletedAt   *time.Time
	CompletedBy   *uuid.UUID
}

// Fields is the editable content of a task
type Fields struct {
	Title         string
	Description   string
	Type          Type
	Category      Category
	Priority      Priority
	StartDate     *time.Time
	DurationDays  int
	DueDate       *time.Time
	VisibleTo     []identity.Role
	AssignedTo    []uuid.UUID
	ScheduledTime string
	Position      string
	IsRecurring   bool
	RecurringDays []time.Weekday
}

// NewTask creates a pending task
func NewTask(createdBy uuid.UUID, f Fields) (*Task, error) {
	t := &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		Status:            StatusPending,
	}
	if err := t.Apply(f); err != nil {
		return nil, err
	}
	t.AddDomainEvent(NewTaskCreatedEvent(t))
	return t, nil
}

// Fields returns the editable content, for patching
func (t *Task) Fields() Fields {
	return Fields{
		Title:         t.Title,
		Description:   t.Description,
		Type:          t.Type,
		Category:      t.Category,
		Priority:      t.Priority,
		StartDate:     t.StartDate,
		DurationDays:  t.DurationDays,
		DueDate:       t.DueDate,
		VisibleTo:     slices.Clone(t.VisibleTo),
		AssignedTo:    slices.Clone(t.AssignedTo),
		ScheduledTime: t.ScheduledTime,
		Position:      t.Position,
		IsRecurring:   t.IsRecurring,
		RecurringDays: slices.Clone(t.RecurringDays),
	}
}

// Apply validates and stores f. When a duration is given the due date is
// derived from the start date, or from now when no start date is set.
func (t *Task) Apply(f Fields) error {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return shared.InvalidInput("Task title cannot be empty")
	}
	if f.Type == "" {
		f.Type = TypeSpecial
	}
	if f.Category == "" {
		f.Category = CategoryAll
	}
	if f.Priority == "" {
		f.Priority = PriorityNormal
	}
	if !f.Type.IsValid() {
		return shared.InvalidInput("Unknown task type %q", f.Type)
	}
	if !f.Category.IsValid() {
		return shared.InvalidInput("Unknown task category %q", f.Category)
	}
	if !f.Priority.IsValid() {
		return shared.InvalidInput("Unknown task priority %q", f.Priority)
	}
	if f.DurationDays < 0 {
		return shared.InvalidInput("Task duration cannot be negative")
	}
	for _, r := range f.VisibleTo {
		if !r.IsValid() {
			return shared.InvalidInput("Unknown role %q", r)
		}
	}
	for _, d := range f.RecurringDays {
		if d < time.Sunday || d > time.Saturday {
			return shared.InvalidInput("Recurring day %d must be 0-6", d)
		}
	}
	if f.IsRecurring && len(f.RecurringDays) == 0 {
		return shared.InvalidInput("Recurring task needs at least one day")
	}
	if f.DurationDays > 0 {
		start := time.Now()
		if f.StartDate != nil {
			start = *f.StartDate
		}
		due := start.AddDate(0, 0, f.DurationDays)
		f.StartDate = &start
		f.DueDate = &due
	}
	if f.Type == TypeScheduled && f.DueDate == nil {
		return shared.InvalidInput("Scheduled task needs a due date or duration")
	}

	t.Title = f.Title
	t.Description = strings.TrimSpace(f.Description)
	t.Type = f.Type
	t.Category = f.Category
	t.Priority = f.Priority
	t.StartDate = f.StartDate
	t.DurationDays = f.DurationDays
	t.DueDate = f.DueDate
	t.VisibleTo = nonNil(f.VisibleTo)
	t.AssignedTo = nonNil(f.AssignedTo)
	t.ScheduledTime = strings.TrimSpace(f.ScheduledTime)
	t.Position = strings.TrimSpace(f.Position)
	t.IsRecurring = f.IsRecurring
	t.RecurringDays = nonNil(f.RecurringDays)
	t.Touch()
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return make([]T, 0)
	}
	return slices.Clone(s)
}

// UpdateProgress clamps progress to 0..100 and moves the status accordingly
func (t *Task) UpdateProgress(progress int, actor uuid.UUID) {
	progress = max(0, min(100, progress))
	if progress >= 100 {
		t.Complete(actor)
		return
	}
	t.Progress = progress
	t.Status = StatusForProgress(progress)
	t.CompletedAt = nil
	t.CompletedBy = nil
	t.Touch()
}

// Complete marks the task done. Completing twice keeps the first completion.
func (t *Task) Complete(actor uuid.UUID) bool {
	if t.Status == StatusCompleted {
		return false
	}
	now := time.Now()
	by := actor
	t.Status = StatusCompleted
	t.Progress = 100
	t.CompletedAt = &now
	t.CompletedBy = &by
	t.Touch()
	t.AddDomainEvent(NewTaskCompletedEvent(t))
	return true
}

// EffectiveProgress is 100 for completed tasks, otherwise the stored progress
func (t *Task) EffectiveProgress() int {
	if t.Status == StatusCompleted {
		return 100
	}
	return t.Progress
}

// RemainingDays returns whole days until the due date, truncated toward zero.
// Completed tasks and tasks without a due date have none left.
func (t *Task) RemainingDays(now time.Time) int {
	if t.Status == StatusCompleted || t.DueDate == nil {
		return 0
	}
	return int(t.DueDate.Sub(now).Hours() / 24)
}

// IsVisibleTo reports whether a user with role and id may see the task.
// Superusers see everything; an empty audience means everyone.
func (t *Task) IsVisibleTo(role identity.Role, userID uuid.UUID) bool {
	if role.IsSuperuser() {
		return true
	}
	if len(t.VisibleTo) == 0 && len(t.AssignedTo) == 0 {
		return true
	}
	return slices.Contains(t.VisibleTo, role) || slices.Contains(t.AssignedTo, userID)
}

// OccursOn reports whether a recurring task is due on weekday
func (t *Task) OccursOn(weekday time.Weekday) bool {
	return t.IsRecurring && slices.Contains(t.RecurringDays, weekday)
}

// IsUpcoming reports whether a scheduled task is still open and not overdue
func (t *Task) IsUpcoming(now time.Time) bool {
	return t.Type == TypeScheduled && t.Status != StatusCompleted &&
		t.DueDate != nil && !t.DueDate.Before(now)
}
