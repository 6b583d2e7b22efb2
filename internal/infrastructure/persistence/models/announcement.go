package models

import (
	"time"

	"github.com/teashop/backend/internal/domain/announcement"
)

// AnnouncementModel is the persistence model for an announcement.
// The audience, read receipts and questions are JSON columns.
type AnnouncementModel struct {
	AggregateModel
	Title     string                          `gorm:"type:varchar(200);not null"`
	Content   string                          `gorm:"type:text;not null"`
	Priority  announcement.Priority           `gorm:"type:varchar(10);not null"`
	ValidFrom time.Time                       `gorm:"not null;index"`
	ValidTo   *time.Time                      `gorm:"index"`
	VisibleTo JSONList[string]                `gorm:"not null"`
	ReadBy    JSONList[announcement.Read]     `gorm:"not null"`
	Questions JSONList[announcement.Question] `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AnnouncementModel) TableName() string {
	return "announcements"
}

// ToDomain converts the persistence model to a domain Announcement
func (m *AnnouncementModel) ToDomain() *announcement.Announcement {
	return &announcement.Announcement{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		Content:           m.Content,
		Priority:          m.Priority,
		ValidFrom:         m.ValidFrom,
		ValidTo:           m.ValidTo,
		VisibleTo:         []string(m.VisibleTo),
		ReadBy:            []announcement.Read(m.ReadBy),
		Questions:         []announcement.Question(m.Questions),
	}
}

// FromDomain populates the persistence model from a domain Announcement
func (m *AnnouncementModel) FromDomain(a *announcement.Announcement) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Title = a.Title
	m.Content = a.Content
	m.Priority = a.Priority
	m.ValidFrom = a.ValidFrom
	m.ValidTo = a.ValidTo
	m.VisibleTo = JSONList[string](a.VisibleTo)
	m.ReadBy = JSONList[announcement.Read](a.ReadBy)
	m.Questions = JSONList[announcement.Question](a.Questions)
}

// AnnouncementModelFromDomain creates a new persistence model from domain entity
func AnnouncementModelFromDomain(a *announcement.Announcement) *AnnouncementModel {
	m := &AnnouncementModel{}
	m.FromDomain(a)
	return m
}
