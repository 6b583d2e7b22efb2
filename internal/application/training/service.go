package training

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/schedule"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/domain/training"
	"go.uber.org/zap"
)

// Service manages training modules, their content and sessions
type Service struct {
	repo      training.Repository
	directory *identity.UserDirectory
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a training service
func NewService(repo training.Repository, directory *identity.UserDirectory, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, directory: directory, publisher: publisher, logger: logger}
}

// List returns modules of a category, or all when category is empty
func (s *Service) List(ctx context.Context, category training.Category) ([]ModuleView, error) {
	if category != "" && !category.IsValid() {
		return nil, shared.InvalidInput("Unknown training category %q", category)
	}
	modules, err := s.repo.FindAll(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list training modules: %w", err)
	}
	ids := make([]uuid.UUID, 0)
	for _, m := range modules {
		ids = append(ids, userRefs(m)...)
	}
	names := s.directory.Resolve(ctx, ids)
	out := make([]ModuleView, len(modules))
	for i, m := range modules {
		out[i] = toModuleView(m, names)
	}
	return out, nil
}

// GetModulesByCategory returns the modules of one category
func (s *Service) GetModulesByCategory(ctx context.Context, category training.Category) ([]ModuleView, error) {
	if category == "" {
		return nil, shared.InvalidInput("Category is required")
	}
	return s.List(ctx, category)
}

// Get returns one module
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ModuleView, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, m), nil
}

// Create adds a module without content
func (s *Service) Create(ctx context.Context, actor appshared.Actor, input CreateModuleInput) (*ModuleView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateModuleInput) (*ModuleView, error) {
		m, err := training.NewModule(actor.ID, in.Title, in.Description, in.Category, in.DurationMinutes)
		if err != nil {
			return nil, err
		}
		m.AssignTo(in.AssignedTo)
		if err := s.repo.Create(ctx, m); err != nil {
			return nil, err
		}
		s.edited(ctx, actor, m, "created training module "+m.Title)
		s.logger.Info("Training module created", zap.String("module_id", m.ID.String()))
		return s.view(ctx, m), nil
	})
}

// Update changes the provided fields of a module
func (s *Service) Update(ctx context.Context, actor appshared.Actor, id uuid.UUID, input UpdateModuleInput) (*ModuleView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateModuleInput) (*ModuleView, error) {
		return s.mutate(ctx, actor, id, "updated", func(m *training.Module) error {
			title, desc, cat, dur := m.Title, m.Description, m.Category, m.DurationMinutes
			if in.Title != nil {
				title = *in.Title
			}
			if in.Description != nil {
				desc = *in.Description
			}
			if in.Category != nil {
				cat = *in.Category
			}
			if in.DurationMinutes != nil {
				dur = *in.DurationMinutes
			}
			if err := m.SetInfo(title, desc, cat, dur); err != nil {
				return err
			}
			if in.AssignedTo != nil {
				m.AssignTo(*in.AssignedTo)
			}
			return nil
		})
	})
}

// Delete removes a module
func (s *Service) Delete(ctx context.Context, actor appshared.Actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	appshared.ContentEdited(ctx, s.publisher, s.logger, training.AggregateTypeModule, id, actor.ID, "deleted training module")
	s.logger.Info("Training module deleted", zap.String("module_id", id.String()))
	return nil
}

// AddContent appends a content block
func (s *Service) AddContent(ctx context.Context, actor appshared.Actor, id uuid.UUID, input ContentInput) (*ModuleView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in ContentInput) (*ModuleView, error) {
		return s.mutate(ctx, actor, id, "added content to", func(m *training.Module) error {
			_, err := m.AddContent(in.Type, in.Content)
			return err
		})
	})
}

// UpdateContent replaces the body of a content block
func (s *Service) UpdateContent(ctx context.Context, actor appshared.Actor, id, contentID uuid.UUID, input UpdateContentInput) (*ModuleView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateContentInput) (*ModuleView, error) {
		return s.mutate(ctx, actor, id, "edited content of", func(m *training.Module) error {
			_, err := m.UpdateContent(contentID, in.Content)
			return err
		})
	})
}

// RemoveContent deletes a content block and renumbers the rest
func (s *Service) RemoveContent(ctx context.Context, actor appshared.Actor, id, contentID uuid.UUID) (*ModuleView, error) {
	return s.mutate(ctx, actor, id, "removed content from", func(m *training.Module) error {
		return m.RemoveContent(contentID)
	})
}

// ReorderContent puts the blocks in the given order, numbered 1..n
func (s *Service) ReorderContent(ctx context.Context, actor appshared.Actor, id uuid.UUID, input ReorderInput) (*ModuleView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in ReorderInput) (*ModuleView, error) {
		return s.mutate(ctx, actor, id, "reordered", func(m *training.Module) error {
			return m.ReorderContent(in.IDs)
		})
	})
}

// MarkModuleComplete records that the actor finished the module. Repeating
// it keeps the first completion.
func (s *Service) MarkModuleComplete(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*ModuleView, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.MarkComplete(actor.ID) {
		if err := s.repo.Update(ctx, m); err != nil {
			return nil, err
		}
		appshared.Publish(ctx, s.publisher, s.logger, m)
		s.logger.Info("Training module completed",
			zap.String("module_id", m.ID.String()),
			zap.String("user_id", actor.ID.String()))
	}
	return s.view(ctx, m), nil
}

// AddSchedule plans a session for the module
func (s *Service) AddSchedule(ctx context.Context, actor appshared.Actor, id uuid.UUID, input ScheduleInput) (*ScheduleView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in ScheduleInput) (*ScheduleView, error) {
		var added training.ScheduleItem
		m, err := s.load(ctx, id, func(m *training.Module) error {
			var err error
			added, err = m.AddSchedule(toScheduleItem(in))
			return err
		})
		if err != nil {
			return nil, err
		}
		s.edited(ctx, actor, m, "scheduled training for "+m.Title)
		return s.scheduleView(ctx, m, added), nil
	})
}

// UpdateSchedule replaces a planned session
func (s *Service) UpdateSchedule(ctx context.Context, actor appshared.Actor, id, scheduleID uuid.UUID, input ScheduleInput) (*ScheduleView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in ScheduleInput) (*ScheduleView, error) {
		var updated training.ScheduleItem
		m, err := s.load(ctx, id, func(m *training.Module) error {
			item := toScheduleItem(in)
			if item.Status == "" {
				current, err := m.Schedule(scheduleID)
				if err != nil {
					return err
				}
				item.Status = current.Status
			}
			var err error
			updated, err = m.UpdateSchedule(scheduleID, item)
			return err
		})
		if err != nil {
			return nil, err
		}
		s.edited(ctx, actor, m, "rescheduled training for "+m.Title)
		return s.scheduleView(ctx, m, updated), nil
	})
}

// RemoveSchedule cancels a planned session
func (s *Service) RemoveSchedule(ctx context.Context, actor appshared.Actor, id, scheduleID uuid.UUID) error {
	_, err := s.mutate(ctx, actor, id, "cancelled a session of", func(m *training.Module) error {
		return m.RemoveSchedule(scheduleID)
	})
	return err
}

// GetSchedulesByDateRange returns every session dated within [from, to],
// ordered by date then start time
func (s *Service) GetSchedulesByDateRange(ctx context.Context, input DateRangeInput) ([]ScheduleView, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	from, _ := schedule.ParseDate(input.From)
	to, _ := schedule.ParseDate(input.To)
	if to.Before(from) {
		return nil, shared.InvalidInput("from must not be after to")
	}

	modules, err := s.repo.FindAll(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list training modules: %w", err)
	}
	type entry struct {
		module *training.Module
		item   training.ScheduleItem
	}
	entries := make([]entry, 0)
	ids := make([]uuid.UUID, 0)
	for _, m := range modules {
		for _, item := range m.Schedules {
			d := schedule.DateOf(item.Date)
			if d.Before(from) || d.After(to) {
				continue
			}
			entries = append(entries, entry{module: m, item: item})
			ids = append(ids, item.TrainerID)
			ids = append(ids, item.Trainees...)
		}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		if c := a.item.Date.Compare(b.item.Date); c != 0 {
			return c
		}
		return strings.Compare(a.item.StartTime, b.item.StartTime)
	})

	names := s.directory.Resolve(ctx, ids)
	out := make([]ScheduleView, len(entries))
	for i, e := range entries {
		out[i] = toScheduleView(e.module, e.item, names)
	}
	return out, nil
}

// load applies fn to the stored module and saves it
func (s *Service) load(ctx context.Context, id uuid.UUID, fn func(*training.Module) error) (*training.Module, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) mutate(ctx context.Context, actor appshared.Actor, id uuid.UUID, verb string, fn func(*training.Module) error) (*ModuleView, error) {
	m, err := s.load(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	s.edited(ctx, actor, m, verb+" training module "+m.Title)
	return s.view(ctx, m), nil
}

func (s *Service) edited(ctx context.Context, actor appshared.Actor, m *training.Module, summary string) {
	appshared.ContentEdited(ctx, s.publisher, s.logger, training.AggregateTypeModule, m.ID, actor.ID, summary)
}

func (s *Service) view(ctx context.Context, m *training.Module) *ModuleView {
	v := toModuleView(m, s.directory.Resolve(ctx, userRefs(m)))
	return &v
}

func (s *Service) scheduleView(ctx context.Context, m *training.Module, item training.ScheduleItem) *ScheduleView {
	ids := append([]uuid.UUID{item.TrainerID}, item.Trainees...)
	v := toScheduleView(m, item, s.directory.Resolve(ctx, ids))
	return &v
}

func toScheduleItem(in ScheduleInput) training.ScheduleItem {
	date, _ := schedule.ParseDate(in.Date)
	return training.ScheduleItem{
		Date:      date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		TrainerID: in.TrainerID,
		Trainees:  in.Trainees,
		Status:    in.Status,
		Notes:     in.Notes,
	}
}
