package situation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/domain/situation"
	"go.uber.org/zap"
)

const aggregateType = "Situation"

// Service manages service situations and their suggested responses
type Service struct {
	repo      situation.Repository
	directory *identity.UserDirectory
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a situation service
func NewService(repo situation.Repository, directory *identity.UserDirectory, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, directory: directory, publisher: publisher, logger: logger}
}

// List returns situations matching the filter
func (s *Service) List(ctx context.Context, input ListSituationsInput) ([]SituationView, error) {
	list, err := s.repo.FindAll(ctx, situation.Filter{
		Category:   input.Category,
		Priority:   input.Priority,
		ActiveOnly: input.ActiveOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("list situations: %w", err)
	}
	return s.views(ctx, list), nil
}

// GetHighPrioritySituations returns active situations of high priority
func (s *Service) GetHighPrioritySituations(ctx context.Context) ([]SituationView, error) {
	return s.List(ctx, ListSituationsInput{Priority: situation.PriorityHigh, ActiveOnly: true})
}

// GetByCategory returns the active situations of one category, or of every
// category for "all"
func (s *Service) GetByCategory(ctx context.Context, category situation.Category) ([]SituationView, error) {
	if category == situation.CategoryAll {
		category = ""
	} else if !category.IsValid() {
		return nil, shared.InvalidInput("Unknown situation category %q", category)
	}
	return s.List(ctx, ListSituationsInput{Category: category, ActiveOnly: true})
}

// Get returns one situation
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SituationView, error) {
	sit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sit), nil
}

// Create adds a situation with its initial responses in order
func (s *Service) Create(ctx context.Context, actor appshared.Actor, input CreateSituationInput) (*SituationView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateSituationInput) (*SituationView, error) {
		sit, err := situation.NewSituation(actor.ID, in.Title, in.Description, in.Category, in.Priority)
		if err != nil {
			return nil, err
		}
		for _, content := range in.Responses {
			if _, err := sit.AddResponse(content, actor.ID); err != nil {
				return nil, err
			}
		}
		if err := s.repo.Create(ctx, sit); err != nil {
			return nil, err
		}
		s.edited(ctx, actor, sit.ID, "created situation "+sit.Title)
		s.logger.Info("Situation created", zap.String("situation_id", sit.ID.String()))
		return s.view(ctx, sit), nil
	})
}

// Update changes the provided fields of a situation
func (s *Service) Update(ctx context.Context, actor appshared.Actor, id uuid.UUID, input UpdateSituationInput) (*SituationView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateSituationInput) (*SituationView, error) {
		return s.mutate(ctx, actor, id, func(sit *situation.Situation) error {
			title, desc, cat, prio := sit.Title, sit.Description, sit.Category, sit.Priority
			if in.Title != nil {
				title = *in.Title
			}
			if in.Description != nil {
				desc = *in.Description
			}
			if in.Category != nil {
				cat = *in.Category
			}
			if in.Priority != nil {
				prio = *in.Priority
			}
			if err := sit.SetInfo(title, desc, cat, prio); err != nil {
				return err
			}
			if in.IsActive != nil {
				sit.SetActive(*in.IsActive)
			}
			return nil
		})
	})
}

// Delete removes a situation and its responses
func (s *Service) Delete(ctx context.Context, actor appshared.Actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.edited(ctx, actor, id, "deleted situation")
	s.logger.Info("Situation deleted", zap.String("situation_id", id.String()))
	return nil
}

// AddResponse appends a suggested response
func (s *Service) AddResponse(ctx context.Context, actor appshared.Actor, id uuid.UUID, input ResponseInput) (*SituationView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in ResponseInput) (*SituationView, error) {
		return s.mutate(ctx, actor, id, func(sit *situation.Situation) error {
			_, err := sit.AddResponse(in.Content, actor.ID)
			return err
		})
	})
}

// UpdateResponse changes a suggested response
func (s *Service) UpdateResponse(ctx context.Context, actor appshared.Actor, id, responseID uuid.UUID, input UpdateResponseInput) (*SituationView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateResponseInput) (*SituationView, error) {
		return s.mutate(ctx, actor, id, func(sit *situation.Situation) error {
			_, err := sit.UpdateResponse(responseID, in.Content, in.IsActive)
			return err
		})
	})
}

// RemoveResponse deletes a suggested response and renumbers the rest
func (s *Service) RemoveResponse(ctx context.Context, actor appshared.Actor, id, responseID uuid.UUID) (*SituationView, error) {
	return s.mutate(ctx, actor, id, func(sit *situation.Situation) error {
		return sit.RemoveResponse(responseID)
	})
}

func (s *Service) mutate(ctx context.Context, actor appshared.Actor, id uuid.UUID, fn func(*situation.Situation) error) (*SituationView, error) {
	sit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sit); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sit); err != nil {
		return nil, err
	}
	s.edited(ctx, actor, sit.ID, "edited situation "+sit.Title)
	return s.view(ctx, sit), nil
}

func (s *Service) edited(ctx context.Context, actor appshared.Actor, id uuid.UUID, summary string) {
	appshared.ContentEdited(ctx, s.publisher, s.logger, aggregateType, id, actor.ID, summary)
}

func (s *Service) view(ctx context.Context, sit *situation.Situation) *SituationView {
	v := toSituationView(sit, s.directory.Resolve(ctx, []uuid.UUID{sit.CreatedBy}))
	return &v
}

func (s *Service) views(ctx context.Context, list []*situation.Situation) []SituationView {
	ids := make([]uuid.UUID, len(list))
	for i, sit := range list {
		ids[i] = sit.CreatedBy
	}
	names := s.directory.Resolve(ctx, ids)
	out := make([]SituationView, len(list))
	for i, sit := range list {
		out[i] = toSituationView(sit, names)
	}
	return out
}
