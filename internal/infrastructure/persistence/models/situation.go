package models

import (
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/situation"
)

// SituationModel is the persistence model for a service situation
type SituationModel struct {
	AggregateModel
	Title       string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text"`
	Category    situation.Category `gorm:"type:varchar(20);not null;index"`
	Priority    situation.Priority `gorm:"type:varchar(10);not null;index"`
	IsActive    bool               `gorm:"not null"`
	Responses   []ResponseModel    `gorm:"foreignKey:SituationID;-:migration"`
}

// TableName returns the table name for GORM
func (SituationModel) TableName() string {
	return "service_situations"
}

// ToDomain converts the persistence model to a domain Situation.
// Responses must be preloaded in display order.
func (m *SituationModel) ToDomain() *situation.Situation {
	responses := make([]situation.Response, len(m.Responses))
	for i := range m.Responses {
		responses[i] = m.Responses[i].ToDomain()
	}
	return &situation.Situation{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Category:          m.Category,
		Priority:          m.Priority,
		IsActive:          m.IsActive,
		Responses:         responses,
	}
}

// FromDomain populates the persistence model from a domain Situation
func (m *SituationModel) FromDomain(s *situation.Situation) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Title = s.Title
	m.Description = s.Description
	m.Category = s.Category
	m.Priority = s.Priority
	m.IsActive = s.IsActive
	m.Responses = make([]ResponseModel, len(s.Responses))
	for i := range s.Responses {
		m.Responses[i] = ResponseModelFromDomain(&s.Responses[i])
	}
}

// SituationModelFromDomain creates a new persistence model from domain entity
func SituationModelFromDomain(s *situation.Situation) *SituationModel {
	m := &SituationModel{}
	m.FromDomain(s)
	return m
}

// ResponseModel is a suggested response to a situation.
// "order" is reserved in SQL so the column is sort_order.
type ResponseModel struct {
	BaseModel
	SituationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content     string          `gorm:"type:text;not null"`
	Order       int             `gorm:"column:sort_order;not null"`
	IsActive    bool            `gorm:"not null"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid"`
	Situation   *SituationModel `gorm:"foreignKey:SituationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ResponseModel) TableName() string {
	return "service_responses"
}

// ToDomain converts the persistence model to a domain Response
func (m *ResponseModel) ToDomain() situation.Response {
	return situation.Response{
		BaseEntity:  m.BaseModel.ToDomain(),
		SituationID: m.SituationID,
		Content:     m.Content,
		Order:       m.Order,
		IsActive:    m.IsActive,
		CreatedBy:   m.CreatedBy,
	}
}

// ResponseModelFromDomain creates a new persistence model from domain entity
func ResponseModelFromDomain(r *situation.Response) ResponseModel {
	m := ResponseModel{
		SituationID: r.SituationID,
		Content:     r.Content,
		Order:       r.Order,
		IsActive:    r.IsActive,
		CreatedBy:   r.CreatedBy,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
