package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WeeklyScheduleRepository persists week documents with their assignments
type WeeklyScheduleRepository interface {
	// Create inserts a new week. It returns shared.ErrAlreadyExists when a
	// week with the same start date exists.
	Create(ctx context.Context, s *WeeklySchedule) error

	// Save writes the week and replaces its assignments
	Save(ctx context.Context, s *WeeklySchedule) error

	FindByID(ctx context.Context, id uuid.UUID) (*WeeklySchedule, error)

	// FindByStartDate finds the week beginning on start
	FindByStartDate(ctx context.Context, start time.Time) (*WeeklySchedule, error)

	// FindContaining finds the week whose [start, end] contains date
	FindContaining(ctx context.Context, date time.Time) (*WeeklySchedule, error)
}
