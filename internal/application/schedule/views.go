package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/schedule"
)

func (s *Service) slotIndex(ctx context.Context) (map[uuid.UUID]*schedule.TimeSlot, error) {
	list, err := s.slots.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	out := make(map[uuid.UUID]*schedule.TimeSlot, len(list))
	for _, sl := range list {
		out[sl.ID] = sl
	}
	return out, nil
}

// slotStart orders unknown slots after every real one
func slotStart(slots map[uuid.UUID]*schedule.TimeSlot, id uuid.UUID) string {
	if sl, ok := slots[id]; ok {
		return sl.StartTime
	}
	return "99:99"
}

func referencedUsers(as []schedule.Assignment) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(as)*2)
	for _, a := range as {
		ids = append(ids, a.EmployeeID)
		if a.CompletedBy != nil {
			ids = append(ids, *a.CompletedBy)
		}
	}
	return ids
}

func assignmentViews(as []schedule.Assignment, slots map[uuid.UUID]*schedule.TimeSlot, names map[uuid.UUID]string) []AssignmentView {
	out := make([]AssignmentView, len(as))
	for i, a := range as {
		v := AssignmentView{
			ID:           a.ID,
			Date:         schedule.FormatDate(a.Date),
			TimeSlotID:   a.TimeSlotID,
			EmployeeID:   a.EmployeeID,
			EmployeeName: names[a.EmployeeID],
			Tasks:        a.Tasks,
			IsCompleted:  a.IsCompleted,
			CompletedAt:  a.CompletedAt,
			CompletedBy:  a.CompletedBy,
			Notes:        a.Notes,
		}
		if sl, ok := slots[a.TimeSlotID]; ok {
			v.TimeSlotName = sl.Name
		}
		if a.CompletedBy != nil {
			v.CompletedByName = names[*a.CompletedBy]
		}
		if v.Tasks == nil {
			v.Tasks = []schedule.Task{}
		}
		out[i] = v
	}
	return out
}

func (s *Service) toAssignmentViews(ctx context.Context, as []schedule.Assignment, slots map[uuid.UUID]*schedule.TimeSlot) []AssignmentView {
	names := s.directory.Resolve(ctx, referencedUsers(as))
	return assignmentViews(as, slots, names)
}

func (s *Service) toAssignmentView(ctx context.Context, a schedule.Assignment) (*AssignmentView, error) {
	slots, err := s.slotIndex(ctx)
	if err != nil {
		return nil, err
	}
	v := s.toAssignmentViews(ctx, []schedule.Assignment{a}, slots)[0]
	return &v, nil
}

func (s *Service) toWeekView(ctx context.Context, ws *schedule.WeeklySchedule) (*WeekView, error) {
	slots, err := s.slotIndex(ctx)
	if err != nil {
		return nil, err
	}
	ids := append(referencedUsers(ws.Assignments), ws.LastModifiedBy)
	names := s.directory.Resolve(ctx, ids)
	return &WeekView{
		ID:                 ws.ID,
		StartDate:          schedule.FormatDate(ws.StartDate),
		EndDate:            schedule.FormatDate(ws.EndDate),
		Assignments:        assignmentViews(ws.Assignments, slots, names),
		CreatedBy:          ws.CreatedBy,
		CreatedAt:          ws.CreatedAt,
		LastModifiedBy:     ws.LastModifiedBy,
		LastModifiedByName: names[ws.LastModifiedBy],
		LastModifiedAt:     ws.LastModifiedAt,
	}, nil
}
