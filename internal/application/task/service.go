package task

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/domain/task"
	"go.uber.org/zap"
)

// Service manages the task board
type Service struct {
	repo      task.Repository
	directory *identity.UserDirectory
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a task service
func NewService(repo task.Repository, directory *identity.UserDirectory, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the tasks matching the filter that the actor may see
func (s *Service) List(ctx context.Context, actor appshared.Actor, input ListTasksInput) ([]TaskView, error) {
	tasks, err := s.repo.FindAll(ctx, task.Filter{
		Type:     input.Type,
		Category: input.Category,
		Status:   input.Status,
		Priority: input.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return s.toViews(ctx, visibleTo(tasks, actor)), nil
}

// Get returns one task
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TaskView, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &s.toViews(ctx, []*task.Task{t})[0], nil
}

// Create posts a task. A duration derives the due date from the start date.
func (s *Service) Create(ctx context.Context, actor appshared.Actor, input CreateTaskInput) (*TaskView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateTaskInput) (*TaskView, error) {
		t, err := task.NewTask(actor.ID, task.Fields{
			Title:         in.Title,
			Description:   in.Description,
			Type:          in.Type,
			Category:      in.Category,
			Priority:      in.Priority,
			StartDate:     in.StartDate,
			DurationDays:  in.DurationDays,
			DueDate:       in.DueDate,
			VisibleTo:     in.VisibleTo,
			AssignedTo:    in.AssignedTo,
			ScheduledTime: in.ScheduledTime,
			Position:      in.Position,
			IsRecurring:   in.IsRecurring,
			RecurringDays: toWeekdays(in.RecurringDays),
		})
		if err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, t); err != nil {
			return nil, err
		}
		s.publish(ctx, t)
		s.logger.Info("Task created", zap.String("task_id", t.ID.String()), zap.String("type", string(t.Type)))
		return &s.toViews(ctx, []*task.Task{t})[0], nil
	})
}

// Update changes the provided fields of a task
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*TaskView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateTaskInput) (*TaskView, error) {
		t, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		f := t.Fields()
		patch(&f.Title, in.Title)
		patch(&f.Description, in.Description)
		patch(&f.Type, in.Type)
		patch(&f.Category, in.Category)
		patch(&f.Priority, in.Priority)
		patch(&f.DurationDays, in.DurationDays)
		patch(&f.VisibleTo, in.VisibleTo)
		patch(&f.AssignedTo, in.AssignedTo)
		patch(&f.ScheduledTime, in.ScheduledTime)
		patch(&f.Position, in.Position)
		patch(&f.IsRecurring, in.IsRecurring)
		if in.StartDate != nil {
			f.StartDate = in.StartDate
		}
		if in.DueDate != nil {
			f.DueDate = in.DueDate
		}
		if in.RecurringDays != nil {
			for _, d := range *in.RecurringDays {
				if d < 0 || d > 6 {
					return nil, shared.InvalidInput("Recurring day %d must be 0-6", d)
				}
			}
			f.RecurringDays = toWeekdays(*in.RecurringDays)
		}
		if err := t.Apply(f); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, err
		}
		return &s.toViews(ctx, []*task.Task{t})[0], nil
	})
}

// Delete removes a task
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Task deleted", zap.String("task_id", id.String()))
	return nil
}

// UpdateProgress sets the completion percentage and the matching status
func (s *Service) UpdateProgress(ctx context.Context, actor appshared.Actor, id uuid.UUID, input ProgressInput) (*TaskView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in ProgressInput) (*TaskView, error) {
		t, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		t.UpdateProgress(*in.Progress, actor.ID)
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, err
		}
		s.publish(ctx, t)
		return &s.toViews(ctx, []*task.Task{t})[0], nil
	})
}

// Complete marks a task done. Completing twice keeps the first completion.
func (s *Service) Complete(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*TaskView, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Complete(actor.ID) {
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, err
		}
		s.publish(ctx, t)
		s.logger.Info("Task completed", zap.String("task_id", t.ID.String()), zap.String("actor_id", actor.ID.String()))
	}
	return &s.toViews(ctx, []*task.Task{t})[0], nil
}

// GetScheduledTasks returns open scheduled tasks that are not yet due,
// soonest first
func (s *Service) GetScheduledTasks(ctx context.Context, actor appshared.Actor) ([]TaskView, error) {
	now := s.now()
	tasks, err := s.repo.FindAll(ctx, task.Filter{Type: task.TypeScheduled, DueFrom: &now})
	if err != nil {
		return nil, fmt.Errorf("list scheduled tasks: %w", err)
	}
	upcoming := make([]*task.Task, 0, len(tasks))
	for _, t := range visibleTo(tasks, actor) {
		if t.IsUpcoming(now) {
			upcoming = append(upcoming, t)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b *task.Task) int {
		return a.DueDate.Compare(*b.DueDate)
	})
	return s.toViews(ctx, upcoming), nil
}

// GetDailyTasks returns the recurring checklist for weekday, ordered by
// scheduled time
func (s *Service) GetDailyTasks(ctx context.Context, actor appshared.Actor, weekday time.Weekday) ([]TaskView, error) {
	recurring := true
	tasks, err := s.repo.FindAll(ctx, task.Filter{Recurring: &recurring})
	if err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}
	daily := make([]*task.Task, 0, len(tasks))
	for _, t := range visibleTo(tasks, actor) {
		if t.OccursOn(weekday) {
			daily = append(daily, t)
		}
	}
	slices.SortStableFunc(daily, func(a, b *task.Task) int {
		return cmp.Compare(a.ScheduledTime, b.ScheduledTime)
	})
	return s.toViews(ctx, daily), nil
}

// GetVisibleTasks returns every task the actor may see
func (s *Service) GetVisibleTasks(ctx context.Context, actor appshared.Actor) ([]TaskView, error) {
	return s.List(ctx, actor, ListTasksInput{})
}

func (s *Service) publish(ctx context.Context, t *task.Task) {
	if err := shared.PublishAndClear(ctx, s.publisher, t); err != nil {
		s.logger.Warn("Failed to publish task events", zap.Error(err))
	}
}

func (s *Service) toViews(ctx context.Context, tasks []*task.Task) []TaskView {
	ids := make([]uuid.UUID, 0, len(tasks)*2)
	for _, t := range tasks {
		ids = append(ids, t.CreatedBy)
		ids = append(ids, t.AssignedTo...)
		if t.CompletedBy != nil {
			ids = append(ids, *t.CompletedBy)
		}
	}
	names := s.directory.Resolve(ctx, ids)
	now := s.now()
	out := make([]TaskView, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskView(t, names, now)
	}
	return out
}

func visibleTo(tasks []*task.Task, actor appshared.Actor) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsVisibleTo(actor.Role, actor.ID) {
			out = append(out, t)
		}
	}
	return out
}

func patch[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
