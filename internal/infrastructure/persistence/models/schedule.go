package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/schedule"
)

// TimeSlotModel is the persistence model for a shift window
type TimeSlotModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(50);not null"`
	StartTime string `gorm:"type:varchar(5);not null;index"`
	EndTime   string `gorm:"type:varchar(5);not null"`
}

// TableName returns the table name for GORM
func (TimeSlotModel) TableName() string {
	return "time_slots"
}

// ToDomain converts the persistence model to a domain TimeSlot
func (m *TimeSlotModel) ToDomain() *schedule.TimeSlot {
	return &schedule.TimeSlot{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
	}
}

// FromDomain populates the persistence model from a domain TimeSlot
func (m *TimeSlotModel) FromDomain(s *schedule.TimeSlot) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.StartTime = s.StartTime
	m.EndTime = s.EndTime
}

// TimeSlotModelFromDomain creates a new persistence model from domain entity
func TimeSlotModelFromDomain(s *schedule.TimeSlot) *TimeSlotModel {
	m := &TimeSlotModel{}
	m.FromDomain(s)
	return m
}

// WeeklyScheduleModel is the persistence model for a week document.
// The unique start date makes week creation idempotent.
type WeeklyScheduleModel struct {
	AggregateModel
	StartDate      string            `gorm:"type:varchar(10);not null;uniqueIndex"`
	EndDate        string            `gorm:"type:varchar(10);not null;index"`
	LastModifiedBy uuid.UUID         `gorm:"type:uuid"`
	LastModifiedAt time.Time         `gorm:"not null"`
	Assignments    []AssignmentModel `gorm:"foreignKey:ScheduleID;-:migration"`
}

// TableName returns the table name for GORM
func (WeeklyScheduleModel) TableName() string {
	return "weekly_schedules"
}

// ToDomain converts the persistence model to a domain WeeklySchedule
func (m *WeeklyScheduleModel) ToDomain() *schedule.WeeklySchedule {
	assignments := make([]schedule.Assignment, len(m.Assignments))
	for i := range m.Assignments {
		assignments[i] = m.Assignments[i].ToDomain()
	}
	return &schedule.WeeklySchedule{
		BaseAggregateRoot: m.ToAggregateRoot(),
		StartDate:         parseDate(m.StartDate),
		EndDate:           parseDate(m.EndDate),
		Assignments:       assignments,
		LastModifiedBy:    m.LastModifiedBy,
		LastModifiedAt:    m.LastModifiedAt,
	}
}

// FromDomain populates the persistence model from a domain WeeklySchedule
func (m *WeeklyScheduleModel) FromDomain(s *schedule.WeeklySchedule) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.StartDate = formatDate(s.StartDate)
	m.EndDate = formatDate(s.EndDate)
	m.LastModifiedBy = s.LastModifiedBy
	m.LastModifiedAt = s.LastModifiedAt
	m.Assignments = make([]AssignmentModel, len(s.Assignments))
	for i, a := range s.Assignments {
		m.Assignments[i] = AssignmentModelFromDomain(s.ID, a)
	}
}

// WeeklyScheduleModelFromDomain creates a new persistence model from domain entity
func WeeklyScheduleModelFromDomain(s *schedule.WeeklySchedule) *WeeklyScheduleModel {
	m := &WeeklyScheduleModel{}
	m.FromDomain(s)
	return m
}

// AssignmentModel is one employee placed in one (date, slot) cell.
// Tasks are embedded as a JSON array.
type AssignmentModel struct {
	ID          uuid.UUID               `gorm:"type:uuid;primary_key"`
	ScheduleID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	Date        string                  `gorm:"type:varchar(10);not null;index"`
	TimeSlotID  uuid.UUID               `gorm:"type:uuid;not null"`
	EmployeeID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	Tasks       JSONList[schedule.Task] `gorm:"not null"`
	IsCompleted bool                    `gorm:"not null"`
	CompletedAt *time.Time
	CompletedBy *uuid.UUID `gorm:"type:uuid"`
	Notes       string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AssignmentModel) TableName() string {
	return "schedule_assignments"
}

// ToDomain converts the persistence model to a domain Assignment
func (m *AssignmentModel) ToDomain() schedule.Assignment {
	tasks := make([]schedule.Task, len(m.Tasks))
	copy(tasks, m.Tasks)
	return schedule.Assignment{
		ID:          m.ID,
		Date:        parseDate(m.Date),
		TimeSlotID:  m.TimeSlotID,
		EmployeeID:  m.EmployeeID,
		Tasks:       tasks,
		IsCompleted: m.IsCompleted,
		CompletedAt: m.CompletedAt,
		CompletedBy: m.CompletedBy,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// AssignmentModelFromDomain creates the row of an assignment inside scheduleID
func AssignmentModelFromDomain(scheduleID uuid.UUID, a schedule.Assignment) AssignmentModel {
	return AssignmentModel{
		ID:          a.ID,
		ScheduleID:  scheduleID,
		Date:        formatDate(a.Date),
		TimeSlotID:  a.TimeSlotID,
		EmployeeID:  a.EmployeeID,
		Tasks:       JSONList[schedule.Task](a.Tasks),
		IsCompleted: a.IsCompleted,
		CompletedAt: a.CompletedAt,
		CompletedBy: a.CompletedBy,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
