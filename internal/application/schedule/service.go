package schedule

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/schedule"
	"github.com/teashop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service manages time slots and weekly schedules
type Service struct {
	weeks     schedule.WeeklyScheduleRepository
	slots     schedule.TimeSlotRepository
	directory *identity.UserDirectory
	publisher shared.EventPublisher
	firstDay  time.Weekday
	logger    *zap.Logger
}

// NewService creates a schedule service. Weeks start on firstDay.
func NewService(
	weeks schedule.WeeklyScheduleRepository,
	slots schedule.TimeSlotRepository,
	directory *identity.UserDirectory,
	publisher shared.EventPublisher,
	firstDay time.Weekday,
	logger *zap.Logger,
) *Service {
	return &Service{
		weeks:     weeks,
		slots:     slots,
		directory: directory,
		publisher: publisher,
		firstDay:  firstDay,
		logger:    logger,
	}
}

// CreateWeeklySchedule returns the schedule of the week containing the date,
// creating an empty one when none exists
func (s *Service) CreateWeeklySchedule(ctx context.Context, actor appshared.Actor, input CreateWeekInput) (*WeekView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateWeekInput) (*WeekView, error) {
		date, _ := schedule.ParseDate(in.Date)
		week := schedule.WeekOf(date, s.firstDay)

		existing, err := s.weeks.FindByStartDate(ctx, week.Start)
		if err == nil {
			return s.toWeekView(ctx, existing)
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("find week: %w", err)
		}

		ws := schedule.NewWeeklySchedule(week, actor.ID)
		if err := s.weeks.Create(ctx, ws); err != nil {
			if !errors.Is(err, shared.ErrAlreadyExists) {
				return nil, fmt.Errorf("create week: %w", err)
			}
			// a concurrent request created the same week first
			winner, findErr := s.weeks.FindByStartDate(ctx, week.Start)
			if findErr != nil {
				return nil, fmt.Errorf("re-read week: %w", findErr)
			}
			return s.toWeekView(ctx, winner)
		}
		s.publish(ctx, ws)

		s.logger.Info("Weekly schedule created",
			zap.String("schedule_id", ws.ID.String()),
			zap.String("start_date", schedule.FormatDate(ws.StartDate)))
		return s.toWeekView(ctx, ws)
	})
}

// GetWeeklySchedule returns the schedule whose week contains date
func (s *Service) GetWeeklySchedule(ctx context.Context, date string) (*WeekView, error) {
	d, err := parseDateParam(date)
	if err != nil {
		return nil, err
	}
	ws, err := s.weeks.FindContaining(ctx, d)
	if err != nil {
		return nil, err
	}
	return s.toWeekView(ctx, ws)
}

// AddAssignment appends an assignment to an existing week
func (s *Service) AddAssignment(ctx context.Context, actor appshared.Actor, weekID uuid.UUID, input AddAssignmentInput) (*AssignmentView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in AddAssignmentInput) (*AssignmentView, error) {
		ws, err := s.weeks.FindByID(ctx, weekID)
		if err != nil {
			return nil, err
		}
		if err := s.requireSlot(ctx, in.TimeSlotID); err != nil {
			return nil, err
		}
		tasks, err := buildTasks(in.Tasks)
		if err != nil {
			return nil, err
		}
		date, _ := schedule.ParseDate(in.Date)

		a, err := ws.AddAssignment(date, in.TimeSlotID, in.EmployeeID, tasks, in.Notes, actor.ID)
		if err != nil {
			return nil, err
		}
		if err := s.weeks.Save(ctx, ws); err != nil {
			return nil, err
		}

		s.logger.Info("Assignment added",
			zap.String("schedule_id", ws.ID.String()),
			zap.String("assignment_id", a.ID.String()),
			zap.String("employee_id", a.EmployeeID.String()))
		return s.toAssignmentView(ctx, a)
	})
}

// UpdateAssignment changes the provided fields of an assignment
func (s *Service) UpdateAssignment(ctx context.Context, actor appshared.Actor, weekID, assignmentID uuid.UUID, input UpdateAssignmentInput) (*AssignmentView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateAssignmentInput) (*AssignmentView, error) {
		ws, err := s.weeks.FindByID(ctx, weekID)
		if err != nil {
			return nil, err
		}

		var patch schedule.AssignmentPatch
		if in.Date != nil {
			d, _ := schedule.ParseDate(*in.Date)
			patch.Date = &d
		}
		if in.TimeSlotID != nil {
			if err := s.requireSlot(ctx, *in.TimeSlotID); err != nil {
				return nil, err
			}
			patch.TimeSlotID = in.TimeSlotID
		}
		patch.EmployeeID = in.EmployeeID
		if in.Tasks != nil {
			tasks, err := buildTasks(*in.Tasks)
			if err != nil {
				return nil, err
			}
			patch.Tasks = &tasks
		}
		patch.Notes = in.Notes

		a, err := ws.UpdateAssignment(assignmentID, patch, actor.ID)
		if err != nil {
			return nil, err
		}
		if err := s.weeks.Save(ctx, ws); err != nil {
			return nil, err
		}
		return s.toAssignmentView(ctx, a)
	})
}

// DeleteAssignment removes an assignment from its week
func (s *Service) DeleteAssignment(ctx context.Context, actor appshared.Actor, weekID, assignmentID uuid.UUID) error {
	ws, err := s.weeks.FindByID(ctx, weekID)
	if err != nil {
		return err
	}
	if err := ws.RemoveAssignment(assignmentID, actor.ID); err != nil {
		return err
	}
	if err := s.weeks.Save(ctx, ws); err != nil {
		return err
	}
	s.logger.Info("Assignment deleted",
		zap.String("schedule_id", weekID.String()),
		zap.String("assignment_id", assignmentID.String()))
	return nil
}

// AddTaskToAssignment appends a duty to an assignment
func (s *Service) AddTaskToAssignment(ctx context.Context, actor appshared.Actor, weekID, assignmentID uuid.UUID, input TaskInput) (*AssignmentView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in TaskInput) (*AssignmentView, error) {
		ws, err := s.weeks.FindByID(ctx, weekID)
		if err != nil {
			return nil, err
		}
		task, err := schedule.NewTask(in.Type, in.Description)
		if err != nil {
			return nil, err
		}
		a, err := ws.AddTask(assignmentID, task, actor.ID)
		if err != nil {
			return nil, err
		}
		if err := s.weeks.Save(ctx, ws); err != nil {
			return nil, err
		}
		return s.toAssignmentView(ctx, a)
	})
}

// RemoveTaskFromAssignment removes a duty from an assignment
func (s *Service) RemoveTaskFromAssignment(ctx context.Context, actor appshared.Actor, weekID, assignmentID, taskID uuid.UUID) (*AssignmentView, error) {
	ws, err := s.weeks.FindByID(ctx, weekID)
	if err != nil {
		return nil, err
	}
	a, err := ws.RemoveTask(assignmentID, taskID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.weeks.Save(ctx, ws); err != nil {
		return nil, err
	}
	return s.toAssignmentView(ctx, a)
}

// MarkAssignmentComplete completes an assignment. The assigned employee and
// holders of EDIT_SCHEDULE may do so; repeating it changes nothing.
func (s *Service) MarkAssignmentComplete(ctx context.Context, actor appshared.Actor, weekID, assignmentID uuid.UUID) (*AssignmentView, error) {
	ws, err := s.weeks.FindByID(ctx, weekID)
	if err != nil {
		return nil, err
	}
	current, err := ws.Assignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if current.EmployeeID != actor.ID && !actor.Can(identity.CapEditSchedule) {
		return nil, shared.ErrForbidden
	}

	a, changed, err := ws.MarkAssignmentComplete(assignmentID, actor.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.weeks.Save(ctx, ws); err != nil {
			return nil, err
		}
		s.publish(ctx, ws)
		s.logger.Info("Assignment completed",
			zap.String("assignment_id", a.ID.String()),
			zap.String("completed_by", actor.ID.String()))
	}
	return s.toAssignmentView(ctx, a)
}

// GetEmployeeSchedule returns the employee's assignments in the week
// containing date, ordered by date then slot start. A missing week yields
// an empty list.
func (s *Service) GetEmployeeSchedule(ctx context.Context, employeeID uuid.UUID, date string) ([]AssignmentView, error) {
	d, err := parseDateParam(date)
	if err != nil {
		return nil, err
	}
	ws, err := s.weeks.FindContaining(ctx, d)
	if errors.Is(err, shared.ErrNotFound) {
		return []AssignmentView{}, nil
	}
	if err != nil {
		return nil, err
	}

	slots, err := s.slotIndex(ctx)
	if err != nil {
		return nil, err
	}
	mine := ws.AssignmentsFor(employeeID)
	slices.SortStableFunc(mine, func(a, b schedule.Assignment) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(slotStart(slots, a.TimeSlotID), slotStart(slots, b.TimeSlotID))
	})
	return s.toAssignmentViews(ctx, mine, slots), nil
}

// GetWeekGrid lays out the week containing date as day × slot cells.
// Every cell lists all of its assignments.
func (s *Service) GetWeekGrid(ctx context.Context, date string) (*GridView, error) {
	d, err := parseDateParam(date)
	if err != nil {
		return nil, err
	}
	slotList, err := s.slots.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	slots := make(map[uuid.UUID]*schedule.TimeSlot, len(slotList))
	for _, sl := range slotList {
		slots[sl.ID] = sl
	}

	week := schedule.WeekOf(d, s.firstDay)
	view := &GridView{
		Days:      make([]string, 0, 7),
		TimeSlots: make([]TimeSlotView, 0, len(slotList)),
		Cells:     make([]GridCell, 0),
	}
	for _, sl := range slotList {
		view.TimeSlots = append(view.TimeSlots, toTimeSlotView(sl))
	}

	ws, err := s.weeks.FindContaining(ctx, d)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		ws = nil
	case err != nil:
		return nil, err
	default:
		week = ws.Week()
		view.ScheduleID = &ws.ID
	}
	view.StartDate = schedule.FormatDate(week.Start)
	view.EndDate = schedule.FormatDate(week.End)
	for _, day := range week.Days() {
		view.Days = append(view.Days, schedule.FormatDate(day))
	}
	if ws == nil {
		return view, nil
	}

	names := s.directory.Resolve(ctx, referencedUsers(ws.Assignments))
	grid := ws.Grid()
	for _, day := range week.Days() {
		for _, sl := range slotList {
			as, ok := grid[schedule.Cell{Date: day, TimeSlotID: sl.ID}]
			if !ok {
				continue
			}
			view.Cells = append(view.Cells, GridCell{
				Date:        schedule.FormatDate(day),
				TimeSlotID:  sl.ID,
				Assignments: assignmentViews(as, slots, names),
			})
		}
	}
	return view, nil
}

func (s *Service) requireSlot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.slots.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.InvalidInput("time slot %s does not exist", id)
		}
		return err
	}
	return nil
}

func (s *Service) publish(ctx context.Context, ws *schedule.WeeklySchedule) {
	if err := shared.PublishAndClear(ctx, s.publisher, ws); err != nil {
		s.logger.Warn("Failed to publish schedule events", zap.Error(err))
	}
}

func buildTasks(inputs []TaskInput) ([]schedule.Task, error) {
	tasks := make([]schedule.Task, 0, len(inputs))
	for _, in := range inputs {
		t, err := schedule.NewTask(in.Type, in.Description)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// parseDateParam reads a YYYY-MM-DD query value; empty means today
func parseDateParam(date string) (time.Time, error) {
	if date == "" {
		return schedule.DateOf(time.Now()), nil
	}
	d, err := schedule.ParseDate(date)
	if err != nil {
		return time.Time{}, shared.InvalidInput("date must be YYYY-MM-DD")
	}
	return d, nil
}
