package training

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/schedule"
	"github.com/teashop/backend/internal/domain/training"
)

// CreateModuleInput contains the fields of a new module
type CreateModuleInput struct {
	Title           string            `json:"title" validate:"required,max=200"`
	Description     string            `json:"description" validate:"max=2000"`
	Category        training.Category `json:"category" validate:"required,oneof=basic service product"`
	DurationMinutes int               `json:"duration_minutes" validate:"min=0,max=1440"`
	AssignedTo      []uuid.UUID       `json:"assigned_to"`
}

// UpdateModuleInput changes a module; nil fields are kept
type UpdateModuleInput struct {
	Title           *string            `json:"title" validate:"omitempty,max=200"`
	Description     *string            `json:"description" validate:"omitempty,max=2000"`
	Category        *training.Category `json:"category" validate:"omitempty,oneof=basic service product"`
	DurationMinutes *int               `json:"duration_minutes" validate:"omitempty,min=0,max=1440"`
	AssignedTo      *[]uuid.UUID       `json:"assigned_to"`
}

// ContentInput is a new content block
type ContentInput struct {
	Type    training.ContentType `json:"type" validate:"required,oneof=text video"`
	Content string               `json:"content" validate:"required,max=20000"`
}

// UpdateContentInput replaces the body of a block
type UpdateContentInput struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// ReorderInput lists every block id in the new order
type ReorderInput struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// ScheduleInput plans a training session
type ScheduleInput struct {
	Date      string          `json:"date" validate:"required,date"`
	StartTime string          `json:"start_time" validate:"required,clock"`
	EndTime   string          `json:"end_time" validate:"required,clock"`
	TrainerID uuid.UUID       `json:"trainer_id" validate:"required"`
	Trainees  []uuid.UUID     `json:"trainees"`
	Status    training.Status `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Notes     string          `json:"notes" validate:"max=500"`
}

// DateRangeInput selects sessions between two dates, inclusive
type DateRangeInput struct {
	From string `form:"from" validate:"required,date"`
	To   string `form:"to" validate:"required,date"`
}

// CompletionView is a completion with the user's name
type CompletionView struct {
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	CompletedAt time.Time `json:"completed_at"`
}

// ScheduleView is a planned session with resolved names
type ScheduleView struct {
	ID           uuid.UUID       `json:"id"`
	ModuleID     uuid.UUID       `json:"module_id"`
	ModuleTitle  string          `json:"module_title"`
	Date         string          `json:"date"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	TrainerID    uuid.UUID       `json:"trainer_id"`
	TrainerName  string          `json:"trainer_name"`
	Trainees     []uuid.UUID     `json:"trainees"`
	TraineeNames []string        `json:"trainee_names"`
	Status       training.Status `json:"status"`
	Notes        string          `json:"notes"`
}

// ModuleView is a module with resolved names
type ModuleView struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        training.Category  `json:"category"`
	DurationMinutes int                `json:"duration_minutes"`
	Contents        []training.Content `json:"contents"`
	AssignedTo      []uuid.UUID        `json:"assigned_to"`
	CompletedBy     []CompletionView   `json:"completed_by"`
	Schedules       []ScheduleView     `json:"schedules"`
	CreatedBy       uuid.UUID          `json:"created_by"`
	CreatedByName   string             `json:"created_by_name"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func userRefs(m *training.Module) []uuid.UUID {
	ids := []uuid.UUID{m.CreatedBy}
	for _, c := range m.CompletedBy {
		ids = append(ids, c.UserID)
	}
	for _, s := range m.Schedules {
		ids = append(ids, s.TrainerID)
		ids = append(ids, s.Trainees...)
	}
	return ids
}

func toScheduleView(m *training.Module, s training.ScheduleItem, names map[uuid.UUID]string) ScheduleView {
	v := ScheduleView{
		ID:           s.ID,
		ModuleID:     m.ID,
		ModuleTitle:  m.Title,
		Date:         schedule.FormatDate(s.Date),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		TrainerID:    s.TrainerID,
		TrainerName:  names[s.TrainerID],
		Trainees:     s.Trainees,
		TraineeNames: make([]string, len(s.Trainees)),
		Status:       s.Status,
		Notes:        s.Notes,
	}
	for i, id := range s.Trainees {
		v.TraineeNames[i] = names[id]
	}
	return v
}

func toModuleView(m *training.Module, names map[uuid.UUID]string) ModuleView {
	v := ModuleView{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		DurationMinutes: m.DurationMinutes,
		Contents:        m.Contents,
		AssignedTo:      m.AssignedTo,
		CompletedBy:     make([]CompletionView, len(m.CompletedBy)),
		Schedules:       make([]ScheduleView, len(m.Schedules)),
		CreatedBy:       m.CreatedBy,
		CreatedByName:   names[m.CreatedBy],
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for i, c := range m.CompletedBy {
		v.CompletedBy[i] = CompletionView{UserID: c.UserID, UserName: names[c.UserID], CompletedAt: c.CompletedAt}
	}
	for i, s := range m.Schedules {
		v.Schedules[i] = toScheduleView(m, s, names)
	}
	return v
}
