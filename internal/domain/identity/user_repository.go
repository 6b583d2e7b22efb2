package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository stores staff accounts. Lookups return shared.ErrNotFound
// for missing rows.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername matches the normalized username
	FindByUsername(ctx context.Context, username string) (*User, error)
	// FindByIDs skips ids that do not exist
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	// FindAll returns the roster ordered by username
	FindAll(ctx context.Context, filter RosterFilter) ([]*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// TouchLastActive stamps last_active_at without loading the user
	TouchLastActive(ctx context.Context, id uuid.UUID) error
}

// RosterFilter narrows the staff roster. The zero value lists everyone.
type RosterFilter struct {
	// Search matches username or display name, case-insensitively
	Search     string
	Role       *Role
	ActiveOnly bool
}
