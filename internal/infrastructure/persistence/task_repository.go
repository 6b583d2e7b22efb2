package persistence

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/task"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a task
func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Create(models.TaskModelFromDomain(t)).Error
}

// Update writes every field of the task
func (r *GormTaskRepository) Update(ctx context.Context, t *task.Task) error {
	return updateByID(r.db.WithContext(ctx), models.TaskModelFromDomain(t), t.ID)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.TaskModel{}, id)
}

// FindByID finds a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns matching tasks, newest first.
// Assignee filtering runs after the query because assignees live in a JSON column.
func (r *GormTaskRepository) FindAll(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.TaskModel{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Recurring != nil {
		query = query.Where("is_recurring = ?", *filter.Recurring)
	}

	var rows []models.TaskModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, 0, len(rows))
	for i := range rows {
		t := rows[i].ToDomain()
		if filter.AssignedTo != nil && !slices.Contains(t.AssignedTo, *filter.AssignedTo) {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Ensure GormTaskRepository implements task.Repository
var _ task.Repository = (*GormTaskRepository)(nil)
