package announcement

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists announcements
type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Announcement, error)
	// FindAll returns every announcement, newest first
	FindAll(ctx context.Context) ([]*Announcement, error)
}
