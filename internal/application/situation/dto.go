package situation

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/situation"
)

// CreateSituationInput contains the fields of a new situation
type CreateSituationInput struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description string             `json:"description" validate:"max=2000"`
	Category    situation.Category `json:"category" validate:"required,oneof=customer service emergency other"`
	Priority    situation.Priority `json:"priority" validate:"required,oneof=high medium low"`
	Responses   []string           `json:"responses" validate:"dive,required,max=2000"`
}

// UpdateSituationInput changes a situation; nil fields are kept
type UpdateSituationInput struct {
	Title       *string             `json:"title" validate:"omitempty,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	Category    *situation.Category `json:"category" validate:"omitempty,oneof=customer service emergency other"`
	Priority    *situation.Priority `json:"priority" validate:"omitempty,oneof=high medium low"`
	IsActive    *bool               `json:"is_active"`
}

// ListSituationsInput filters situation listings
type ListSituationsInput struct {
	Category   situation.Category `form:"category"`
	Priority   situation.Priority `form:"priority"`
	ActiveOnly bool               `form:"active_only"`
}

// ResponseInput is a new suggested response
type ResponseInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// UpdateResponseInput changes a response; nil fields are kept
type UpdateResponseInput struct {
	Content  *string `json:"content" validate:"omitempty,max=2000"`
	IsActive *bool   `json:"is_active"`
}

// ResponseView is a suggested response
type ResponseView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"is_active"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// SituationView is a situation with its ordered responses
type SituationView struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Category      situation.Category `json:"category"`
	Priority      situation.Priority `json:"priority"`
	IsActive      bool               `json:"is_active"`
	Responses     []ResponseView     `json:"responses"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	CreatedByName string             `json:"created_by_name"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func toSituationView(s *situation.Situation, names map[uuid.UUID]string) SituationView {
	v := SituationView{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		Category:      s.Category,
		Priority:      s.Priority,
		IsActive:      s.IsActive,
		Responses:     make([]ResponseView, len(s.Responses)),
		CreatedBy:     s.CreatedBy,
		CreatedByName: names[s.CreatedBy],
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for i, r := range s.Responses {
		v.Responses[i] = ResponseView{
			ID:        r.ID,
			Content:   r.Content,
			Order:     r.Order,
			IsActive:  r.IsActive,
			CreatedBy: r.CreatedBy,
			CreatedAt: r.CreatedAt,
		}
	}
	return v
}
