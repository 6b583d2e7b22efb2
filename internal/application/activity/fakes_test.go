package activity

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/activity"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
)

type memLogs struct {
	mu   sync.Mutex
	logs []*activity.Log
}

func (m *memLogs) Create(_ context.Context, log *activity.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *memLogs) CountByAction(_ context.Context, userID uuid.UUID) (map[activity.Action]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[activity.Action]int64)
	for _, l := range m.logs {
		if l.UserID == userID {
			counts[l.Action]++
		}
	}
	return counts, nil
}

func (m *memLogs) LastOf(_ context.Context, userID uuid.UUID, action activity.Action) (*activity.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range slices.Backward(m.logs) {
		if l.UserID == userID && l.Action == action {
			return l, nil
		}
	}
	return nil, nil
}

func (m *memLogs) FindRecent(_ context.Context, userID *uuid.UUID, limit int) ([]*activity.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*activity.Log, 0)
	for _, l := range slices.Backward(m.logs) {
		if userID != nil && l.UserID != *userID {
			continue
		}
		out = append(out, l)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memLogs) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.logs[:0]
	var removed int64
	for _, l := range m.logs {
		if l.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	m.logs = kept
	return removed, nil
}

type stubUsers struct {
	identity.UserRepository
	users []*identity.User
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.NotFound("user", id)
}

func (s *stubUsers) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*identity.User, error) {
	out := make([]*identity.User, 0)
	for _, u := range s.users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}
