package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/training"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTrainingRepository implements training.Repository using GORM
type GormTrainingRepository struct {
	db *gorm.DB
}

// NewGormTrainingRepository creates a new GormTrainingRepository
func NewGormTrainingRepository(db *gorm.DB) *GormTrainingRepository {
	return &GormTrainingRepository{db: db}
}

// Create inserts a module
func (r *GormTrainingRepository) Create(ctx context.Context, m *training.Module) error {
	return r.db.WithContext(ctx).Create(models.TrainingModuleModelFromDomain(m)).Error
}

// Update writes the module including its contents and schedules
func (r *GormTrainingRepository) Update(ctx context.Context, m *training.Module) error {
	return updateByID(r.db.WithContext(ctx), models.TrainingModuleModelFromDomain(m), m.ID)
}

// Delete removes a module
func (r *GormTrainingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.TrainingModuleModel{}, id)
}

// FindByID finds a module by its ID
func (r *GormTrainingRepository) FindByID(ctx context.Context, id uuid.UUID) (*training.Module, error) {
	var model models.TrainingModuleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns modules ordered by creation time; an empty category matches all
func (r *GormTrainingRepository) FindAll(ctx context.Context, category training.Category) ([]*training.Module, error) {
	query := r.db.WithContext(ctx).Model(&models.TrainingModuleModel{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []models.TrainingModuleModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	modules := make([]*training.Module, len(rows))
	for i := range rows {
		modules[i] = rows[i].ToDomain()
	}
	return modules, nil
}

// Ensure GormTrainingRepository implements training.Repository
var _ training.Repository = (*GormTrainingRepository)(nil)
