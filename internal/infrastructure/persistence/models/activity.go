package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/activity"
)

// ActivityLogModel is the persistence model for an activity log entry
type ActivityLogModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_activity_user_action"`
	Action    activity.Action `gorm:"type:varchar(30);not null;index:idx_activity_user_action"`
	Details   string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain Log
func (m *ActivityLogModel) ToDomain() *activity.Log {
	return &activity.Log{
		ID:        m.ID,
		UserID:    m.UserID,
		Action:    m.Action,
		Details:   m.Details,
		CreatedAt: m.CreatedAt,
	}
}

// ActivityLogModelFromDomain creates a new persistence model from domain entity
func ActivityLogModelFromDomain(l *activity.Log) *ActivityLogModel {
	return &ActivityLogModel{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Details:   l.Details,
		CreatedAt: l.CreatedAt,
	}
}
