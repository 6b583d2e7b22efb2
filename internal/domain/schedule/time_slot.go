package schedule

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeSlot is a named shift window shared by every week.
// Times are wall-clock HH:MM strings without a timezone.
type TimeSlot struct {
	shared.BaseEntity
	Name      string
	StartTime string
	EndTime   string
}

// DefaultTimeSlots are the shifts seeded into an empty store
var DefaultTimeSlots = []struct{ Name, Start, End string }{
	{"上午班", "09:00", "14:00"},
	{"下午班", "14:00", "18:00"},
	{"晚班", "18:00", "22:00"},
}

// NewTimeSlot creates a validated time slot
func NewTimeSlot(name, start, end string) (*TimeSlot, error) {
	slot := &TimeSlot{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		StartTime:  start,
		EndTime:    end,
	}
	if err := slot.validate(); err != nil {
		return nil, err
	}
	return slot, nil
}

// Update changes the fields that are non-nil
func (s *TimeSlot) Update(name, start, end *string) error {
	next := *s
	if name != nil {
		next.Name = strings.TrimSpace(*name)
	}
	if start != nil {
		next.StartTime = *start
	}
	if end != nil {
		next.EndTime = *end
	}
	if err := next.validate(); err != nil {
		return err
	}
	*s = next
	s.Touch()
	return nil
}

func (s *TimeSlot) validate() error {
	if s.Name == "" {
		return shared.InvalidInput("time slot name cannot be empty")
	}
	if !clockRegex.MatchString(s.StartTime) || !clockRegex.MatchString(s.EndTime) {
		return shared.InvalidInput("time slot times must be HH:MM")
	}
	// HH:MM strings order lexicographically
	if s.StartTime >= s.EndTime {
		return shared.InvalidInput("time slot must start before it ends")
	}
	return nil
}

// TimeSlotRepository persists time slots
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *TimeSlot) error
	Update(ctx context.Context, slot *TimeSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error)
	// FindAll returns every slot ordered by start time
	FindAll(ctx context.Context) ([]*TimeSlot, error)
	Count(ctx context.Context) (int64, error)
}
