package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UserDirectory resolves user references for read models.
// References are not enforced by the database: a missing user resolves to a
// placeholder naming the raw id instead of failing the read.
type UserDirectory struct {
	repo UserRepository
}

// NewUserDirectory creates a directory backed by repo
func NewUserDirectory(repo UserRepository) *UserDirectory {
	return &UserDirectory{repo: repo}
}

// Placeholder is the display name used for an id that does not resolve
func Placeholder(id uuid.UUID) string {
	return fmt.Sprintf("未知使用者 (%s)", id)
}

// Resolve maps each id to a display name. Unknown ids map to Placeholder(id).
// A lookup failure degrades every id to its placeholder.
func (d *UserDirectory) Resolve(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, seen := names[id]; seen || id == uuid.Nil {
			continue
		}
		names[id] = Placeholder(id)
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return names
	}

	users, err := d.repo.FindByIDs(ctx, unique)
	if err != nil {
		return names
	}
	for _, u := range users {
		names[u.ID] = u.DisplayName()
	}
	return names
}

// Name resolves a single id
func (d *UserDirectory) Name(ctx context.Context, id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return d.Resolve(ctx, []uuid.UUID{id})[id]
}
