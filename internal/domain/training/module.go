package training

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// Category groups training modules
type Category string

const (
	CategoryBasic   Category = "basic"
	CategoryService Category = "service"
	CategoryProduct Category = "product"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	return c == CategoryBasic || c == CategoryService || c == CategoryProduct
}

// ContentType is the kind of a content block
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
)

// Status of a scheduled training session
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Content is one ordered block of a module. Order starts at 1.
type Content struct {
	ID      uuid.UUID   `json:"id"`
	Type    ContentType `json:"type"`
	Content string      `json:"content"`
	Order   int         `json:"order"`
}

// Completion records that a user finished a module
type Completion struct {
	UserID      uuid.UUID `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// ScheduleItem is a planned training session for a module
type ScheduleItem struct {
	ID        uuid.UUID   `json:"id"`
	Date      time.Time   `json:"date"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	TrainerID uuid.UUID   `json:"trainer_id"`
	Trainees  []uuid.UUID `json:"trainees"`
	Status    Status      `json:"status"`
	Notes     string      `json:"notes"`
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (s ScheduleItem) validate() error {
	if s.Date.IsZero() {
		return shared.InvalidInput("Training date is required")
	}
	if !clockRegex.MatchString(s.StartTime) || !clockRegex.MatchString(s.EndTime) {
		return shared.InvalidInput("Training times must be HH:MM")
	}
	if s.StartTime >= s.EndTime {
		return shared.InvalidInput("Training must start before it ends")
	}
	if s.TrainerID == uuid.Nil {
		return shared.InvalidInput("Trainer is required")
	}
	if !s.Status.IsValid() {
		return shared.InvalidInput("Unknown training status %q", s.Status)
	}
	return nil
}

// Module is a unit of new-hire training
type Module struct {
	shared.BaseAggregateRoot
	Title           string
	Description     string
	Category        Category
	DurationMinutes int
	Contents        []Content
	AssignedTo      []uuid.UUID
	CompletedBy     []Completion
	Schedules       []ScheduleItem
}

// NewModule creates a module with no content
func NewModule(createdBy uuid.UUID, title, description string, category Category, durationMinutes int) (*Module, error) {
	m := &Module{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		Contents:          make([]Content, 0),
		AssignedTo:        make([]uuid.UUID, 0),
		CompletedBy:       make([]Completion, 0),
		Schedules:         make([]ScheduleItem, 0),
	}
	if err := m.SetInfo(title, description, category, durationMinutes); err != nil {
		return nil, err
	}
	return m, nil
}

// SetInfo replaces the descriptive fields
func (m *Module) SetInfo(title, description string, category Category, durationMinutes int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.InvalidInput("Module title cannot be empty")
	}
	if !category.IsValid() {
		return shared.InvalidInput("Unknown training category %q", category)
	}
	if durationMinutes < 0 {
		return shared.InvalidInput("Duration cannot be negative")
	}
	m.Title = title
	m.Description = strings.TrimSpace(description)
	m.Category = category
	m.DurationMinutes = durationMinutes
	m.Touch()
	return nil
}

// AssignTo replaces the list of assigned trainees
func (m *Module) AssignTo(userIDs []uuid.UUID) {
	m.AssignedTo = slices.Compact(slices.Clone(userIDs))
	if m.AssignedTo == nil {
		m.AssignedTo = make([]uuid.UUID, 0)
	}
	m.Touch()
}

// AddContent appends a block at the end
func (m *Module) AddContent(contentType ContentType, body string) (Content, error) {
	if contentType != ContentText && contentType != ContentVideo {
		return Content{}, shared.InvalidInput("Unknown content type %q", contentType)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Content{}, shared.InvalidInput("Content cannot be empty")
	}
	c := Content{ID: uuid.New(), Type: contentType, Content: body, Order: len(m.Contents) + 1}
	m.Contents = append(m.Contents, c)
	m.Touch()
	return c, nil
}

// UpdateContent changes the body of a block
func (m *Module) UpdateContent(contentID uuid.UUID, body string) (Content, error) {
	i := slices.IndexFunc(m.Contents, func(c Content) bool { return c.ID == contentID })
	if i < 0 {
		return Content{}, shared.NotFound("content", contentID)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Content{}, shared.InvalidInput("Content cannot be empty")
	}
	m.Contents[i].Content = body
	m.Touch()
	return m.Contents[i], nil
}

// RemoveContent deletes a block and renumbers the rest
func (m *Module) RemoveContent(contentID uuid.UUID) error {
	i := slices.IndexFunc(m.Contents, func(c Content) bool { return c.ID == contentID })
	if i < 0 {
		return shared.NotFound("content", contentID)
	}
	m.Contents = slices.Delete(m.Contents, i, i+1)
	m.renumber()
	m.Touch()
	return nil
}

// ReorderContent puts the blocks in the given order and renumbers them 1..n.
// ids must name every block exactly once.
func (m *Module) ReorderContent(ids []uuid.UUID) error {
	if len(ids) != len(m.Contents) {
		return shared.InvalidInput("Reorder must list all %d content blocks", len(m.Contents))
	}
	byID := make(map[uuid.UUID]Content, len(m.Contents))
	for _, c := range m.Contents {
		byID[c.ID] = c
	}
	ordered := make([]Content, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return shared.InvalidInput("Unknown or repeated content %s", id)
		}
		delete(byID, id)
		ordered = append(ordered, c)
	}
	m.Contents = ordered
	m.renumber()
	m.Touch()
	return nil
}

func (m *Module) renumber() {
	for i := range m.Contents {
		m.Contents[i].Order = i + 1
	}
}

// MarkComplete records that userID finished the module. Repeated calls keep the first completion.
func (m *Module) MarkComplete(userID uuid.UUID) bool {
	if m.IsCompletedBy(userID) {
		return false
	}
	m.CompletedBy = append(m.CompletedBy, Completion{UserID: userID, CompletedAt: time.Now()})
	m.Touch()
	m.AddDomainEvent(NewModuleCompletedEvent(m, userID))
	return true
}

// IsCompletedBy reports whether userID finished the module
func (m *Module) IsCompletedBy(userID uuid.UUID) bool {
	return slices.ContainsFunc(m.CompletedBy, func(c Completion) bool { return c.UserID == userID })
}

// AddSchedule plans a session
func (m *Module) AddSchedule(item ScheduleItem) (ScheduleItem, error) {
	item.ID = uuid.New()
	if item.Status == "" {
		item.Status = StatusPending
	}
	item.Notes = strings.TrimSpace(item.Notes)
	if item.Trainees == nil {
		item.Trainees = make([]uuid.UUID, 0)
	}
	if err := item.validate(); err != nil {
		return ScheduleItem{}, err
	}
	m.Schedules = append(m.Schedules, item)
	m.Touch()
	return item, nil
}

// UpdateSchedule replaces a session, keeping its id
func (m *Module) UpdateSchedule(scheduleID uuid.UUID, item ScheduleItem) (ScheduleItem, error) {
	i := slices.IndexFunc(m.Schedules, func(s ScheduleItem) bool { return s.ID == scheduleID })
	if i < 0 {
		return ScheduleItem{}, shared.NotFound("training schedule", scheduleID)
	}
	item.ID = scheduleID
	item.Notes = strings.TrimSpace(item.Notes)
	if item.Trainees == nil {
		item.Trainees = make([]uuid.UUID, 0)
	}
	if err := item.validate(); err != nil {
		return ScheduleItem{}, err
	}
	m.Schedules[i] = item
	m.Touch()
	return item, nil
}

// Schedule returns the session with the given id
func (m *Module) Schedule(scheduleID uuid.UUID) (ScheduleItem, error) {
	i := slices.IndexFunc(m.Schedules, func(s ScheduleItem) bool { return s.ID == scheduleID })
	if i < 0 {
		return ScheduleItem{}, shared.NotFound("training schedule", scheduleID)
	}
	return m.Schedules[i], nil
}

// RemoveSchedule deletes a session
func (m *Module) RemoveSchedule(scheduleID uuid.UUID) error {
	i := slices.IndexFunc(m.Schedules, func(s ScheduleItem) bool { return s.ID == scheduleID })
	if i < 0 {
		return shared.NotFound("training schedule", scheduleID)
	}
	m.Schedules = slices.Delete(m.Schedules, i, i+1)
	m.Touch()
	return nil
}
