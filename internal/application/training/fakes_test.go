package training

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/domain/training"
)

type memModules struct {
	mu      sync.Mutex
	modules []*training.Module
}

func (r *memModules) Create(_ context.Context, m *training.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
	return nil
}

func (r *memModules) Update(_ context.Context, m *training.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.modules {
		if existing.ID == m.ID {
			r.modules[i] = m
			return nil
		}
	}
	return shared.NotFound("training module", m.ID)
}

func (r *memModules) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.modules {
		if existing.ID == id {
			r.modules = slices.Delete(r.modules, i, i+1)
			return nil
		}
	}
	return shared.NotFound("training module", id)
}

func (r *memModules) FindByID(_ context.Context, id uuid.UUID) (*training.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.modules {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.NotFound("training module", id)
}

func (r *memModules) FindAll(_ context.Context, category training.Category) ([]*training.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*training.Module, 0)
	for _, m := range r.modules {
		if category == "" || m.Category == category {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubUsers struct {
	identity.UserRepository
	users []*identity.User
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

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	n := 0
	for _, e := range p.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}
