package schedule

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/schedule"
	"github.com/teashop/backend/internal/domain/shared"
)

type memWeeks struct {
	mu    sync.Mutex
	weeks map[uuid.UUID]*schedule.WeeklySchedule
	saves int
}

func newMemWeeks() *memWeeks {
	return &memWeeks{weeks: make(map[uuid.UUID]*schedule.WeeklySchedule)}
}

func (r *memWeeks) Create(_ context.Context, s *schedule.WeeklySchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.weeks {
		if w.StartDate.Equal(s.StartDate) {
			return shared.ErrAlreadyExists
		}
	}
	r.weeks[s.ID] = s
	return nil
}

func (r *memWeeks) Save(_ context.Context, s *schedule.WeeklySchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.weeks[s.ID]; !ok {
		return shared.NotFound("weekly schedule", s.ID)
	}
	r.weeks[s.ID] = s
	r.saves++
	return nil
}

func (r *memWeeks) FindByID(_ context.Context, id uuid.UUID) (*schedule.WeeklySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.weeks[id]; ok {
		return w, nil
	}
	return nil, shared.NotFound("weekly schedule", id)
}

func (r *memWeeks) FindByStartDate(_ context.Context, start time.Time) (*schedule.WeeklySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.weeks {
		if w.StartDate.Equal(start) {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWeeks) FindContaining(_ context.Context, date time.Time) (*schedule.WeeklySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.weeks {
		if w.Contains(date) {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

type memSlots struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*schedule.TimeSlot
}

func newMemSlots() *memSlots {
	return &memSlots{slots: make(map[uuid.UUID]*schedule.TimeSlot)}
}

func (r *memSlots) Create(_ context.Context, slot *schedule.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = slot
	return nil
}

func (r *memSlots) Update(_ context.Context, slot *schedule.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = slot
	return nil
}

func (r *memSlots) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return shared.NotFound("time slot", id)
	}
	delete(r.slots, id)
	return nil
}

func (r *memSlots) FindByID(_ context.Context, id uuid.UUID) (*schedule.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		return s, nil
	}
	return nil, shared.NotFound("time slot", id)
}

func (r *memSlots) FindAll(_ context.Context) ([]*schedule.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*schedule.TimeSlot, 0, len(r.slots))
	for _, s := range r.slots {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *schedule.TimeSlot) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return out, nil
}

func (r *memSlots) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.slots)), nil
}

// stubUsers answers FindByIDs from a fixed set; other methods are unused
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
