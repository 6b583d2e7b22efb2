package situation

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows situation listings. Zero values do not filter.
type Filter struct {
	Category   Category
	Priority   Priority
	ActiveOnly bool
}

// Repository persists situations together with their responses
type Repository interface {
	Create(ctx context.Context, s *Situation) error
	// Update writes the situation and replaces its responses
	Update(ctx context.Context, s *Situation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Situation, error)
	FindAll(ctx context.Context, filter Filter) ([]*Situation, error)
}
