package announcement

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/announcement"
)

// CreateAnnouncementInput contains the fields of a new announcement.
// ValidFrom defaults to now; a nil ValidTo never expires.
type CreateAnnouncementInput struct {
	Title     string                `json:"title" validate:"required,max=200"`
	Content   string                `json:"content" validate:"required,max=10000"`
	Priority  announcement.Priority `json:"priority" validate:"omitempty,oneof=low normal high"`
	ValidFrom *time.Time            `json:"valid_from"`
	ValidTo   *time.Time            `json:"valid_to"`
	VisibleTo []string              `json:"visible_to" validate:"dive,max=64"`
}

// UpdateAnnouncementInput changes an announcement; nil fields are kept
type UpdateAnnouncementInput struct {
	Title     *string                `json:"title" validate:"omitempty,max=200"`
	Content   *string                `json:"content" validate:"omitempty,max=10000"`
	Priority  *announcement.Priority `json:"priority" validate:"omitempty,oneof=low normal high"`
	ValidFrom *time.Time             `json:"valid_from"`
	ValidTo   *time.Time             `json:"valid_to"`
	VisibleTo *[]string              `json:"visible_to"`
}

// QuestionInput is a staff question
type QuestionInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// AnswerInput answers a question
type AnswerInput struct {
	Answer string `json:"answer" validate:"required,max=2000"`
}

// QuestionView is a question with resolved names
type QuestionView struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	UserName       string     `json:"user_name"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	Answer         string     `json:"answer,omitempty"`
	AnsweredBy     *uuid.UUID `json:"answered_by,omitempty"`
	AnsweredByName string     `json:"answered_by_name,omitempty"`
	AnsweredAt     *time.Time `json:"answered_at,omitempty"`
}

// AnnouncementView is an announcement as seen by one user
type AnnouncementView struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Content       string                `json:"content"`
	Priority      announcement.Priority `json:"priority"`
	ValidFrom     time.Time             `json:"valid_from"`
	ValidTo       *time.Time            `json:"valid_to,omitempty"`
	VisibleTo     []string              `json:"visible_to"`
	ReadCount     int                   `json:"read_count"`
	IsRead        bool                  `json:"is_read"`
	Questions     []QuestionView        `json:"questions"`
	CreatedBy     uuid.UUID             `json:"created_by"`
	CreatedByName string                `json:"created_by_name"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func userRefs(a *announcement.Announcement) []uuid.UUID {
	ids := []uuid.UUID{a.CreatedBy}
	for _, q := range a.Questions {
		ids = append(ids, q.UserID)
		if q.AnsweredBy != nil {
			ids = append(ids, *q.AnsweredBy)
		}
	}
	return ids
}

func toAnnouncementView(a *announcement.Announcement, viewer uuid.UUID, names map[uuid.UUID]string) AnnouncementView {
	v := AnnouncementView{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		Priority:      a.Priority,
		ValidFrom:     a.ValidFrom,
		ValidTo:       a.ValidTo,
		VisibleTo:     a.VisibleTo,
		ReadCount:     len(a.ReadBy),
		IsRead:        a.IsReadBy(viewer),
		Questions:     make([]QuestionView, len(a.Questions)),
		CreatedBy:     a.CreatedBy,
		CreatedByName: names[a.CreatedBy],
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	for i, q := range a.Questions {
		qv := QuestionView{
			ID:         q.ID,
			UserID:     q.UserID,
			UserName:   names[q.UserID],
			Content:    q.Content,
			CreatedAt:  q.CreatedAt,
			Answer:     q.Answer,
			AnsweredBy: q.AnsweredBy,
			AnsweredAt: q.AnsweredAt,
		}
		if q.AnsweredBy != nil {
			qv.AnsweredByName = names[*q.AnsweredBy]
		}
		v.Questions[i] = qv
	}
	return v
}
