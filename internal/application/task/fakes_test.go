package task

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/domain/task"
)

type memTasks struct {
	mu    sync.Mutex
	tasks []*task.Task
}

func (r *memTasks) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *memTasks) Update(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tasks {
		if existing.ID == t.ID {
			r.tasks[i] = t
			return nil
		}
	}
	return shared.NotFound("task", t.ID)
}

func (r *memTasks) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tasks {
		if existing.ID == id {
			r.tasks = slices.Delete(r.tasks, i, i+1)
			return nil
		}
	}
	return shared.NotFound("task", id)
}

func (r *memTasks) FindByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.NotFound("task", id)
}

func (r *memTasks) FindAll(_ context.Context, f task.Filter) ([]*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*task.Task, 0)
	for _, t := range slices.Backward(r.tasks) {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Recurring != nil && t.IsRecurring != *f.Recurring {
			continue
		}
		if f.DueFrom != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueFrom)) {
			continue
		}
		out = append(out, t)
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

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
