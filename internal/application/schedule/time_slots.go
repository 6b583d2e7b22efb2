package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/schedule"
	"go.uber.org/zap"
)

// ListTimeSlots returns every slot ordered by start time
func (s *Service) ListTimeSlots(ctx context.Context) ([]TimeSlotView, error) {
	slots, err := s.slots.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	out := make([]TimeSlotView, len(slots))
	for i, sl := range slots {
		out[i] = toTimeSlotView(sl)
	}
	return out, nil
}

// CreateTimeSlot adds a shift window
func (s *Service) CreateTimeSlot(ctx context.Context, input TimeSlotInput) (*TimeSlotView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in TimeSlotInput) (*TimeSlotView, error) {
		slot, err := schedule.NewTimeSlot(in.Name, in.StartTime, in.EndTime)
		if err != nil {
			return nil, err
		}
		if err := s.slots.Create(ctx, slot); err != nil {
			return nil, err
		}
		s.logger.Info("Time slot created", zap.String("time_slot_id", slot.ID.String()), zap.String("name", slot.Name))
		view := toTimeSlotView(slot)
		return &view, nil
	})
}

// UpdateTimeSlot changes the provided fields of a slot
func (s *Service) UpdateTimeSlot(ctx context.Context, id uuid.UUID, input UpdateTimeSlotInput) (*TimeSlotView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateTimeSlotInput) (*TimeSlotView, error) {
		slot, err := s.slots.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := slot.Update(in.Name, in.StartTime, in.EndTime); err != nil {
			return nil, err
		}
		if err := s.slots.Update(ctx, slot); err != nil {
			return nil, err
		}
		view := toTimeSlotView(slot)
		return &view, nil
	})
}

// DeleteTimeSlot removes a slot. Assignments that reference it keep the id
// and show an empty slot name.
func (s *Service) DeleteTimeSlot(ctx context.Context, id uuid.UUID) error {
	if err := s.slots.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Time slot deleted", zap.String("time_slot_id", id.String()))
	return nil
}

// EnsureDefaultTimeSlots seeds the default shifts into an empty store and
// reports how many were created
func (s *Service) EnsureDefaultTimeSlots(ctx context.Context) (int, error) {
	count, err := s.slots.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count time slots: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for _, d := range schedule.DefaultTimeSlots {
		slot, err := schedule.NewTimeSlot(d.Name, d.Start, d.End)
		if err != nil {
			return 0, err
		}
		if err := s.slots.Create(ctx, slot); err != nil {
			return 0, fmt.Errorf("seed time slot %s: %w", d.Name, err)
		}
	}
	s.logger.Info("Default time slots seeded", zap.Int("count", len(schedule.DefaultTimeSlots)))
	return len(schedule.DefaultTimeSlots), nil
}
