package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/schedule"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTimeSlotRepository implements schedule.TimeSlotRepository using GORM
type GormTimeSlotRepository struct {
	db *gorm.DB
}

// NewGormTimeSlotRepository creates a new GormTimeSlotRepository
func NewGormTimeSlotRepository(db *gorm.DB) *GormTimeSlotRepository {
	return &GormTimeSlotRepository{db: db}
}

// Create inserts a time slot
func (r *GormTimeSlotRepository) Create(ctx context.Context, slot *schedule.TimeSlot) error {
	return r.db.WithContext(ctx).Create(models.TimeSlotModelFromDomain(slot)).Error
}

// Update writes every field of the slot
func (r *GormTimeSlotRepository) Update(ctx context.Context, slot *schedule.TimeSlot) error {
	return updateByID(r.db.WithContext(ctx), models.TimeSlotModelFromDomain(slot), slot.ID)
}

// Delete removes a slot. Assignments keep their slot id.
func (r *GormTimeSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.TimeSlotModel{}, id)
}

// FindByID finds a slot by ID
func (r *GormTimeSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.TimeSlot, error) {
	var model models.TimeSlotModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every slot ordered by start time
func (r *GormTimeSlotRepository) FindAll(ctx context.Context) ([]*schedule.TimeSlot, error) {
	var rows []models.TimeSlotModel
	if err := r.db.WithContext(ctx).Order("start_time ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	slots := make([]*schedule.TimeSlot, len(rows))
	for i := range rows {
		slots[i] = rows[i].ToDomain()
	}
	return slots, nil
}

// Count returns the number of slots
func (r *GormTimeSlotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TimeSlotModel{}).Count(&count).Error
	return count, err
}

// GormWeeklyScheduleRepository implements schedule.WeeklyScheduleRepository using GORM
type GormWeeklyScheduleRepository struct {
	db *gorm.DB
}

// NewGormWeeklyScheduleRepository creates a new GormWeeklyScheduleRepository
func NewGormWeeklyScheduleRepository(db *gorm.DB) *GormWeeklyScheduleRepository {
	return &GormWeeklyScheduleRepository{db: db}
}

// Create inserts a week with its assignments.
// A week with the same start date yields shared.ErrAlreadyExists.
func (r *GormWeeklyScheduleRepository) Create(ctx context.Context, s *schedule.WeeklySchedule) error {
	model := models.WeeklyScheduleModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save writes the week header and replaces its assignments in one transaction
func (r *GormWeeklyScheduleRepository) Save(ctx context.Context, s *schedule.WeeklySchedule) error {
	model := models.WeeklyScheduleModelFromDomain(s)
	assignments := model.Assignments
	model.Assignments = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateByID(tx, model, s.ID); err != nil {
			return err
		}
		if err := tx.Where("schedule_id = ?", s.ID).Delete(&models.AssignmentModel{}).Error; err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
}

// FindByID finds a week by ID with its assignments
func (r *GormWeeklyScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.WeeklySchedule, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByStartDate finds the week beginning on start
func (r *GormWeeklyScheduleRepository) FindByStartDate(ctx context.Context, start time.Time) (*schedule.WeeklySchedule, error) {
	return r.findOne(ctx, "start_date = ?", schedule.FormatDate(start))
}

// FindContaining finds the week whose [start, end] contains date
func (r *GormWeeklyScheduleRepository) FindContaining(ctx context.Context, date time.Time) (*schedule.WeeklySchedule, error) {
	d := schedule.FormatDate(schedule.DateOf(date))
	return r.findOne(ctx, "start_date <= ? AND end_date >= ?", d, d)
}

func (r *GormWeeklyScheduleRepository) findOne(ctx context.Context, query string, args ...any) (*schedule.WeeklySchedule, error) {
	var model models.WeeklyScheduleModel
	if err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, created_at ASC")
		}).
		Where(query, args...).
		Order("start_date ASC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Ensure the repositories implement the domain interfaces
var (
	_ schedule.TimeSlotRepository       = (*GormTimeSlotRepository)(nil)
	_ schedule.WeeklyScheduleRepository = (*GormWeeklyScheduleRepository)(nil)
)
