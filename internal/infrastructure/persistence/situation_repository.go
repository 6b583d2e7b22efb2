package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/situation"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSituationRepository implements situation.Repository using GORM
type GormSituationRepository struct {
	db *gorm.DB
}

// NewGormSituationRepository creates a new GormSituationRepository
func NewGormSituationRepository(db *gorm.DB) *GormSituationRepository {
	return &GormSituationRepository{db: db}
}

// Create inserts a situation with its responses
func (r *GormSituationRepository) Create(ctx context.Context, s *situation.Situation) error {
	return r.db.WithContext(ctx).Create(models.SituationModelFromDomain(s)).Error
}

// Update writes the situation and replaces its responses in one transaction
func (r *GormSituationRepository) Update(ctx context.Context, s *situation.Situation) error {
	model := models.SituationModelFromDomain(s)
	responses := model.Responses
	model.Responses = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateByID(tx, model, s.ID); err != nil {
			return err
		}
		if err := tx.Where("situation_id = ?", s.ID).Delete(&models.ResponseModel{}).Error; err != nil {
			return err
		}
		if len(responses) == 0 {
			return nil
		}
		return tx.Create(&responses).Error
	})
}

// Delete removes a situation and its responses
func (r *GormSituationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("situation_id = ?", id).Delete(&models.ResponseModel{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.SituationModel{}, id)
	})
}

// FindByID finds a situation by its ID with its responses in order
func (r *GormSituationRepository) FindByID(ctx context.Context, id uuid.UUID) (*situation.Situation, error) {
	var model models.SituationModel
	if err := r.withResponses(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns matching situations, newest first
func (r *GormSituationRepository) FindAll(ctx context.Context, filter situation.Filter) ([]*situation.Situation, error) {
	query := r.withResponses(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []models.SituationModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	situations := make([]*situation.Situation, len(rows))
	for i := range rows {
		situations[i] = rows[i].ToDomain()
	}
	return situations, nil
}

func (r *GormSituationRepository) withResponses(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Responses", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// Ensure GormSituationRepository implements situation.Repository
var _ situation.Repository = (*GormSituationRepository)(nil)
