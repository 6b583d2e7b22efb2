package training

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists training modules with their contents and schedules
type Repository interface {
	Create(ctx context.Context, m *Module) error
	Update(ctx context.Context, m *Module) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Module, error)
	// FindAll returns modules ordered by creation time; an empty category matches all
	FindAll(ctx context.Context, category Category) ([]*Module, error)
}
