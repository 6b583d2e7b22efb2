package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows task listings. Zero values do not filter.
type Filter struct {
	Type       Type
	Category   Category
	Status     Status
	Priority   Priority
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
	Recurring  *bool
}

// Repository persists tasks
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindAll returns matching tasks, newest first
	FindAll(ctx context.Context, filter Filter) ([]*Task, error)
}
