package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/activity"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends a log entry
func (r *GormActivityRepository) Create(ctx context.Context, log *activity.Log) error {
	return r.db.WithContext(ctx).Create(models.ActivityLogModelFromDomain(log)).Error
}

// CountByAction counts a user's logs per action
func (r *GormActivityRepository) CountByAction(ctx context.Context, userID uuid.UUID) (map[activity.Action]int64, error) {
	var rows []struct {
		Action activity.Action
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ActivityLogModel{}).
		Select("action, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[activity.Action]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Total
	}
	return counts, nil
}

// LastOf returns the newest log of the action for the user, or nil
func (r *GormActivityRepository) LastOf(ctx context.Context, userID uuid.UUID, action activity.Action) (*activity.Log, error) {
	var rows []models.ActivityLogModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND action = ?", userID, action).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].ToDomain(), nil
}

// FindRecent returns the newest logs, optionally for a single user
func (r *GormActivityRepository) FindRecent(ctx context.Context, userID *uuid.UUID, limit int) ([]*activity.Log, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLogModel{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.ActivityLogModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]*activity.Log, len(rows))
	for i := range rows {
		logs[i] = rows[i].ToDomain()
	}
	return logs, nil
}

// DeleteBefore removes logs created before cutoff
func (r *GormActivityRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ActivityLogModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormActivityRepository implements activity.Repository
var _ activity.Repository = (*GormActivityRepository)(nil)
