package situation

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// Category of a service situation
type Category string

const (
	CategoryCustomer  Category = "customer"
	CategoryService   Category = "service"
	CategoryEmergency Category = "emergency"
	CategoryOther     Category = "other"

	// CategoryAll selects every category in category views
	CategoryAll Category = "all"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryCustomer, CategoryService, CategoryEmergency, CategoryOther:
		return true
	}
	return false
}

// Priority of a service situation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Response is one recommended way of handling a situation
type Response struct {
	shared.BaseEntity
	SituationID uuid.UUID
	Content     string
	Order       int
	IsActive    bool
	CreatedBy   uuid.UUID
}

// Situation is a documented customer-service scenario with its responses
type Situation struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Category    Category
	Priority    Priority
	IsActive    bool
	Responses   []Response
}

// NewSituation creates an active situation
func NewSituation(createdBy uuid.UUID, title, description string, category Category, priority Priority) (*Situation, error) {
	s := &Situation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		IsActive:          true,
		Responses:         make([]Response, 0),
	}
	if err := s.SetInfo(title, description, category, priority); err != nil {
		return nil, err
	}
	return s, nil
}

// SetInfo replaces the descriptive fields
func (s *Situation) SetInfo(title, description string, category Category, priority Priority) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.InvalidInput("Situation title cannot be empty")
	}
	if !category.IsValid() {
		return shared.InvalidInput("Unknown situation category %q", category)
	}
	if !priority.IsValid() {
		return shared.InvalidInput("Unknown situation priority %q", priority)
	}
	s.Title = title
	s.Description = strings.TrimSpace(description)
	s.Category = category
	s.Priority = priority
	s.Touch()
	return nil
}

// SetActive enables or disables the situation
func (s *Situation) SetActive(active bool) {
	s.IsActive = active
	s.Touch()
}

// IsHighPriority reports whether an active situation is high priority
func (s *Situation) IsHighPriority() bool {
	return s.IsActive && s.Priority == PriorityHigh
}

// AddResponse appends a response at the end
func (s *Situation) AddResponse(content string, createdBy uuid.UUID) (Response, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Response{}, shared.InvalidInput("Response cannot be empty")
	}
	r := Response{
		BaseEntity:  shared.NewBaseEntity(),
		SituationID: s.ID,
		Content:     content,
		Order:       len(s.Responses) + 1,
		IsActive:    true,
		CreatedBy:   createdBy,
	}
	s.Responses = append(s.Responses, r)
	s.Touch()
	return r, nil
}

// UpdateResponse changes the content and active flag of a response
func (s *Situation) UpdateResponse(responseID uuid.UUID, content *string, active *bool) (Response, error) {
	i := slices.IndexFunc(s.Responses, func(r Response) bool { return r.ID == responseID })
	if i < 0 {
		return Response{}, shared.NotFound("response", responseID)
	}
	r := s.Responses[i]
	if content != nil {
		c := strings.TrimSpace(*content)
		if c == "" {
			return Response{}, shared.InvalidInput("Response cannot be empty")
		}
		r.Content = c
	}
	if active != nil {
		r.IsActive = *active
	}
	r.Touch()
	s.Responses[i] = r
	s.Touch()
	return r, nil
}

// RemoveResponse deletes a response and renumbers the rest
func (s *Situation) RemoveResponse(responseID uuid.UUID) error {
	i := slices.IndexFunc(s.Responses, func(r Response) bool { return r.ID == responseID })
	if i < 0 {
		return shared.NotFound("response", responseID)
	}
	s.Responses = slices.Delete(s.Responses, i, i+1)
	for j := range s.Responses {
		s.Responses[j].Order = j + 1
	}
	s.Touch()
	return nil
}

// ActiveResponses returns the active responses in order
func (s *Situation) ActiveResponses() []Response {
	out := make([]Response, 0, len(s.Responses))
	for _, r := range s.Responses {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}
