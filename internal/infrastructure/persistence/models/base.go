package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// User references are plain columns without foreign keys.
type AggregateModel struct {
	BaseModel
	CreatedBy uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.CreatedBy = a.CreatedBy
}

// ToAggregateRoot builds the domain aggregate root header
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.ToDomain(),
		CreatedBy:  m.CreatedBy,
	}
}

// formatDate renders a calendar date for a varchar(10) column
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// parseDate reads a varchar(10) calendar date; malformed values become the zero time
func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func parseDatePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseDate(*s)
	return &t
}

const dateLayout = "2006-01-02"

// All returns every model in migration order
func All() []any {
	return []any{
		&UserModel{},
		&TimeSlotModel{},
		&WeeklyScheduleModel{},
		&AssignmentModel{},
		&SupplierModel{},
		&ItemModel{},
		&StockRecordModel{},
		&TaskModel{},
		&TrainingModuleModel{},
		&SituationModel{},
		&ResponseModel{},
		&AnnouncementModel{},
		&ActivityLogModel{},
	}
}
