package announcement

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
)

// Priority of an announcement
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityNormal || p == PriorityHigh
}

// Read records that a user has read an announcement
type Read struct {
	UserID uuid.UUID `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

// Question is a staff question on an announcement and its optional answer
type Question struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredBy *uuid.UUID `json:"answered_by,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

// IsAnswered reports whether the question has an answer
func (q Question) IsAnswered() bool {
	return q.AnsweredAt != nil
}

// Announcement is a notice shown to an audience during a validity window.
// VisibleTo holds role names and user ids; an empty audience means everyone.
type Announcement struct {
	shared.BaseAggregateRoot
	Title     string
	Content   string
	Priority  Priority
	ValidFrom time.Time
	ValidTo   *time.Time
	VisibleTo []string
	ReadBy    []Read
	Questions []Question
}

// Fields is the editable content of an announcement
type Fields struct {
	Title     string
	Content   string
	Priority  Priority
	ValidFrom time.Time
	ValidTo   *time.Time
	VisibleTo []string
}

// NewAnnouncement creates an announcement nobody has read yet
func NewAnnouncement(createdBy uuid.UUID, f Fields) (*Announcement, error) {
	a := &Announcement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		ReadBy:            make([]Read, 0),
		Questions:         make([]Question, 0),
	}
	if f.ValidFrom.IsZero() {
		f.ValidFrom = a.CreatedAt
	}
	if err := a.Apply(f); err != nil {
		return nil, err
	}
	a.AddDomainEvent(NewAnnouncementCreatedEvent(a))
	return a, nil
}

// Fields returns the editable content, for patching
func (a *Announcement) Fields() Fields {
	return Fields{
		Title:     a.Title,
		Content:   a.Content,
		Priority:  a.Priority,
		ValidFrom: a.ValidFrom,
		ValidTo:   a.ValidTo,
		VisibleTo: slices.Clone(a.VisibleTo),
	}
}

// Apply validates and stores f
func (a *Announcement) Apply(f Fields) error {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return shared.InvalidInput("Announcement title cannot be empty")
	}
	if strings.TrimSpace(f.Content) == "" {
		return shared.InvalidInput("Announcement content cannot be empty")
	}
	if f.Priority == "" {
		f.Priority = PriorityNormal
	}
	if !f.Priority.IsValid() {
		return shared.InvalidInput("Unknown announcement priority %q", f.Priority)
	}
	if f.ValidFrom.IsZero() {
		return shared.InvalidInput("Announcement start time is required")
	}
	if f.ValidTo != nil && f.ValidTo.Before(f.ValidFrom) {
		return shared.InvalidInput("Announcement must start before it ends")
	}
	audience := make([]string, 0, len(f.VisibleTo))
	for _, v := range f.VisibleTo {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, err := uuid.Parse(v); err != nil && !identity.Role(v).IsValid() {
			return shared.InvalidInput("Audience %q is neither a role nor a user id", v)
		}
		if !slices.Contains(audience, v) {
			audience = append(audience, v)
		}
	}
	a.Title = f.Title
	a.Content = strings.TrimSpace(f.Content)
	a.Priority = f.Priority
	a.ValidFrom = f.ValidFrom
	a.ValidTo = f.ValidTo
	a.VisibleTo = audience
	a.Touch()
	return nil
}

// IsVisibleTo reports whether the announcement targets role or userID.
// Superusers see every announcement.
func (a *Announcement) IsVisibleTo(role identity.Role, userID uuid.UUID) bool {
	if role.IsSuperuser() || len(a.VisibleTo) == 0 {
		return true
	}
	return slices.Contains(a.VisibleTo, string(role)) || slices.Contains(a.VisibleTo, userID.String())
}

// IsValidAt reports whether now is inside the validity window
func (a *Announcement) IsValidAt(now time.Time) bool {
	if now.Before(a.ValidFrom) {
		return false
	}
	return a.ValidTo == nil || !now.After(*a.ValidTo)
}

// IsReadBy reports whether userID has read the announcement
func (a *Announcement) IsReadBy(userID uuid.UUID) bool {
	return slices.ContainsFunc(a.ReadBy, func(r Read) bool { return r.UserID == userID })
}

// MarkAsRead records a read. Repeated reads keep the first timestamp.
func (a *Announcement) MarkAsRead(userID uuid.UUID) bool {
	if a.IsReadBy(userID) {
		return false
	}
	a.ReadBy = append(a.ReadBy, Read{UserID: userID, ReadAt: time.Now()})
	a.Touch()
	return true
}

// AddQuestion appends a question from userID
func (a *Announcement) AddQuestion(userID uuid.UUID, content string) (Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Question{}, shared.InvalidInput("Question cannot be empty")
	}
	q := Question{ID: uuid.New(), UserID: userID, Content: content, CreatedAt: time.Now()}
	a.Questions = append(a.Questions, q)
	a.Touch()
	return q, nil
}

// AnswerQuestion sets or replaces the answer of a question
func (a *Announcement) AnswerQuestion(questionID, answeredBy uuid.UUID, answer string) (Question, error) {
	i := slices.IndexFunc(a.Questions, func(q Question) bool { return q.ID == questionID })
	if i < 0 {
		return Question{}, shared.NotFound("question", questionID)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Question{}, shared.InvalidInput("Answer cannot be empty")
	}
	now := time.Now()
	by := answeredBy
	a.Questions[i].Answer = answer
	a.Questions[i].AnsweredBy = &by
	a.Questions[i].AnsweredAt = &now
	a.Touch()
	return a.Questions[i], nil
}
