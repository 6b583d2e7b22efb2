package models

import (
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/training"
)

// TrainingModuleModel is the persistence model for a training module.
// Contents, completions and schedule items live in JSON columns.
type TrainingModuleModel struct {
	AggregateModel
	Title           string                          `gorm:"type:varchar(200);not null"`
	Description     string                          `gorm:"type:text"`
	Category        training.Category               `gorm:"type:varchar(20);not null;index"`
	DurationMinutes int                             `gorm:"not null"`
	Contents        JSONList[training.Content]      `gorm:"not null"`
	AssignedTo      JSONList[uuid.UUID]             `gorm:"not null"`
	CompletedBy     JSONList[training.Completion]   `gorm:"not null"`
	Schedules       JSONList[training.ScheduleItem] `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrainingModuleModel) TableName() string {
	return "training_modules"
}

// ToDomain converts the persistence model to a domain Module
func (m *TrainingModuleModel) ToDomain() *training.Module {
	return &training.Module{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Category:          m.Category,
		DurationMinutes:   m.DurationMinutes,
		Contents:          []training.Content(m.Contents),
		AssignedTo:        []uuid.UUID(m.AssignedTo),
		CompletedBy:       []training.Completion(m.CompletedBy),
		Schedules:         []training.ScheduleItem(m.Schedules),
	}
}

// FromDomain populates the persistence model from a domain Module
func (m *TrainingModuleModel) FromDomain(t *training.Module) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Title = t.Title
	m.Description = t.Description
	m.Category = t.Category
	m.DurationMinutes = t.DurationMinutes
	m.Contents = JSONList[training.Content](t.Contents)
	m.AssignedTo = JSONList[uuid.UUID](t.AssignedTo)
	m.CompletedBy = JSONList[training.Completion](t.CompletedBy)
	m.Schedules = JSONList[training.ScheduleItem](t.Schedules)
}

// TrainingModuleModelFromDomain creates a new persistence model from domain entity
func TrainingModuleModelFromDomain(t *training.Module) *TrainingModuleModel {
	m := &TrainingModuleModel{}
	m.FromDomain(t)
	return m
}
