package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/schedule"
)

// CreateWeekInput names any date of the week to create
type CreateWeekInput struct {
	Date string `json:"date" validate:"required,date"`
}

// TaskInput is one duty of an assignment
type TaskInput struct {
	Type        schedule.TaskType `json:"type" validate:"required"`
	Description string            `json:"description" validate:"max=200"`
}

// AddAssignmentInput places an employee in a cell of the week
type AddAssignmentInput struct {
	Date       string      `json:"date" validate:"required,date"`
	TimeSlotID uuid.UUID   `json:"time_slot_id" validate:"required"`
	EmployeeID uuid.UUID   `json:"employee_id" validate:"required"`
	Tasks      []TaskInput `json:"tasks" validate:"dive"`
	Notes      string      `json:"notes" validate:"max=500"`
}

// UpdateAssignmentInput changes an assignment; nil fields are kept
type UpdateAssignmentInput struct {
	Date       *string      `json:"date" validate:"omitempty,date"`
	TimeSlotID *uuid.UUID   `json:"time_slot_id"`
	EmployeeID *uuid.UUID   `json:"employee_id"`
	Tasks      *[]TaskInput `json:"tasks"`
	Notes      *string      `json:"notes" validate:"omitempty,max=500"`
}

// TimeSlotInput contains the fields of a new time slot
type TimeSlotInput struct {
	Name      string `json:"name" validate:"required,max=50"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// UpdateTimeSlotInput changes a time slot; nil fields are kept
type UpdateTimeSlotInput struct {
	Name      *string `json:"name" validate:"omitempty,max=50"`
	StartTime *string `json:"start_time" validate:"omitempty,clock"`
	EndTime   *string `json:"end_time" validate:"omitempty,clock"`
}

// TimeSlotView is a time slot as shown to clients
type TimeSlotView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

// AssignmentView is an assignment with resolved names
type AssignmentView struct {
	ID              uuid.UUID       `json:"id"`
	Date            string          `json:"date"`
	TimeSlotID      uuid.UUID       `json:"time_slot_id"`
	TimeSlotName    string          `json:"time_slot_name"`
	EmployeeID      uuid.UUID       `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	Tasks           []schedule.Task `json:"tasks"`
	IsCompleted     bool            `json:"is_completed"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CompletedBy     *uuid.UUID      `json:"completed_by,omitempty"`
	CompletedByName string          `json:"completed_by_name,omitempty"`
	Notes           string          `json:"notes"`
}

// WeekView is a weekly schedule with resolved names
type WeekView struct {
	ID                 uuid.UUID        `json:"id"`
	StartDate          string           `json:"start_date"`
	EndDate            string           `json:"end_date"`
	Assignments        []AssignmentView `json:"assignments"`
	CreatedBy          uuid.UUID        `json:"created_by"`
	CreatedAt          time.Time        `json:"created_at"`
	LastModifiedBy     uuid.UUID        `json:"last_modified_by"`
	LastModifiedByName string           `json:"last_modified_by_name"`
	LastModifiedAt     time.Time        `json:"last_modified_at"`
}

// GridCell holds every assignment of one date and time slot
type GridCell struct {
	Date        string           `json:"date"`
	TimeSlotID  uuid.UUID        `json:"time_slot_id"`
	Assignments []AssignmentView `json:"assignments"`
}

// GridView lays a week out as days × time slots.
// ScheduleID is nil when no schedule exists for the week yet.
type GridView struct {
	ScheduleID *uuid.UUID     `json:"schedule_id"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Days       []string       `json:"days"`
	TimeSlots  []TimeSlotView `json:"time_slots"`
	Cells      []GridCell     `json:"cells"`
}

func toTimeSlotView(s *schedule.TimeSlot) TimeSlotView {
	return TimeSlotView{ID: s.ID, Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime}
}
