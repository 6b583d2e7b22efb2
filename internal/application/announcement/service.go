package announcement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/announcement"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service manages announcements, reads and questions
type Service struct {
	repo      announcement.Repository
	directory *identity.UserDirectory
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates an announcement service
func NewService(repo announcement.Repository, directory *identity.UserDirectory, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, directory: directory, publisher: publisher, logger: logger, now: time.Now}
}

// List returns every announcement regardless of audience or window
func (s *Service) List(ctx context.Context, actor appshared.Actor) ([]AnnouncementView, error) {
	return s.filtered(ctx, actor, func(*announcement.Announcement) bool { return true })
}

// GetVisibleAnnouncements returns the announcements addressed to the actor
// that are inside their validity window
func (s *Service) GetVisibleAnnouncements(ctx context.Context, actor appshared.Actor) ([]AnnouncementView, error) {
	now := s.now()
	return s.filtered(ctx, actor, func(a *announcement.Announcement) bool {
		return a.IsVisibleTo(actor.Role, actor.ID) && a.IsValidAt(now)
	})
}

// GetUnread returns the visible announcements the actor has not read
func (s *Service) GetUnread(ctx context.Context, actor appshared.Actor) ([]AnnouncementView, error) {
	now := s.now()
	return s.filtered(ctx, actor, func(a *announcement.Announcement) bool {
		return a.IsVisibleTo(actor.Role, actor.ID) && a.IsValidAt(now) && !a.IsReadBy(actor.ID)
	})
}

// Get returns one announcement
func (s *Service) Get(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*AnnouncementView, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, actor, a), nil
}

// Create posts an announcement
func (s *Service) Create(ctx context.Context, actor appshared.Actor, input CreateAnnouncementInput) (*AnnouncementView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateAnnouncementInput) (*AnnouncementView, error) {
		f := announcement.Fields{
			Title:     in.Title,
			Content:   in.Content,
			Priority:  in.Priority,
			ValidTo:   in.ValidTo,
			VisibleTo: in.VisibleTo,
		}
		if in.ValidFrom != nil {
			f.ValidFrom = *in.ValidFrom
		}
		a, err := announcement.NewAnnouncement(actor.ID, f)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return nil, err
		}
		appshared.Publish(ctx, s.publisher, s.logger, a)
		s.logger.Info("Announcement created", zap.String("announcement_id", a.ID.String()))
		return s.view(ctx, actor, a), nil
	})
}

// Update changes the provided fields of an announcement
func (s *Service) Update(ctx context.Context, actor appshared.Actor, id uuid.UUID, input UpdateAnnouncementInput) (*AnnouncementView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateAnnouncementInput) (*AnnouncementView, error) {
		a, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		f := a.Fields()
		if in.Title != nil {
			f.Title = *in.Title
		}
		if in.Content != nil {
			f.Content = *in.Content
		}
		if in.Priority != nil {
			f.Priority = *in.Priority
		}
		if in.ValidFrom != nil {
			f.ValidFrom = *in.ValidFrom
		}
		if in.ValidTo != nil {
			f.ValidTo = in.ValidTo
		}
		if in.VisibleTo != nil {
			f.VisibleTo = *in.VisibleTo
		}
		if err := a.Apply(f); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
		appshared.ContentEdited(ctx, s.publisher, s.logger, announcement.AggregateTypeAnnouncement, a.ID, actor.ID, "edited announcement "+a.Title)
		return s.view(ctx, actor, a), nil
	})
}

// Delete removes an announcement
func (s *Service) Delete(ctx context.Context, actor appshared.Actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	appshared.ContentEdited(ctx, s.publisher, s.logger, announcement.AggregateTypeAnnouncement, id, actor.ID, "deleted announcement")
	s.logger.Info("Announcement deleted", zap.String("announcement_id", id.String()))
	return nil
}

// MarkAsRead records that the actor read the announcement. Repeating it
// keeps the first read.
func (s *Service) MarkAsRead(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*AnnouncementView, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.MarkAsRead(actor.ID) {
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, actor, a), nil
}

// AddQuestion attaches a question from the actor
func (s *Service) AddQuestion(ctx context.Context, actor appshared.Actor, id uuid.UUID, input QuestionInput) (*AnnouncementView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in QuestionInput) (*AnnouncementView, error) {
		a, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, err := a.AddQuestion(actor.ID, in.Content); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
		return s.view(ctx, actor, a), nil
	})
}

// AnswerQuestion sets or replaces the answer of a question
func (s *Service) AnswerQuestion(ctx context.Context, actor appshared.Actor, id, questionID uuid.UUID, input AnswerInput) (*AnnouncementView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in AnswerInput) (*AnnouncementView, error) {
		a, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, err := a.AnswerQuestion(questionID, actor.ID, in.Answer); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
		return s.view(ctx, actor, a), nil
	})
}

func (s *Service) filtered(ctx context.Context, actor appshared.Actor, keep func(*announcement.Announcement) bool) ([]AnnouncementView, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	selected := make([]*announcement.Announcement, 0, len(all))
	ids := make([]uuid.UUID, 0)
	for _, a := range all {
		if keep(a) {
			selected = append(selected, a)
			ids = append(ids, userRefs(a)...)
		}
	}
	names := s.directory.Resolve(ctx, ids)
	out := make([]AnnouncementView, len(selected))
	for i, a := range selected {
		out[i] = toAnnouncementView(a, actor.ID, names)
	}
	return out, nil
}

func (s *Service) view(ctx context.Context, actor appshared.Actor, a *announcement.Announcement) *AnnouncementView {
	v := toAnnouncementView(a, actor.ID, s.directory.Resolve(ctx, userRefs(a)))
	return &v
}
