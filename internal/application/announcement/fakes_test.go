package announcement

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/announcement"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
)

type memAnnouncements struct {
	mu      sync.Mutex
	items   []*announcement.Announcement
	updates int
}

func (m *memAnnouncements) Create(_ context.Context, a *announcement.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, a)
	return nil
}

func (m *memAnnouncements) Update(_ context.Context, a *announcement.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.items, func(x *announcement.Announcement) bool { return x.ID == a.ID })
	if i < 0 {
		return shared.NotFound("announcement", a.ID)
	}
	m.items[i] = a
	m.updates++
	return nil
}

func (m *memAnnouncements) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.items, func(x *announcement.Announcement) bool { return x.ID == id })
	if i < 0 {
		return shared.NotFound("announcement", id)
	}
	m.items = slices.Delete(m.items, i, i+1)
	return nil
}

func (m *memAnnouncements) FindByID(_ context.Context, id uuid.UUID) (*announcement.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.NotFound("announcement", id)
}

func (m *memAnnouncements) FindAll(context.Context) ([]*announcement.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.items)
	slices.Reverse(out)
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
