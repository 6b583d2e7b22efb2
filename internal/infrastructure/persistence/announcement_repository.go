package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/announcement"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAnnouncementRepository implements announcement.Repository using GORM
type GormAnnouncementRepository struct {
	db *gorm.DB
}

// NewGormAnnouncementRepository creates a new GormAnnouncementRepository
func NewGormAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

// Create inserts an announcement
func (r *GormAnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	return r.db.WithContext(ctx).Create(models.AnnouncementModelFromDomain(a)).Error
}

// Update writes the announcement including read receipts and questions
func (r *GormAnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	return updateByID(r.db.WithContext(ctx), models.AnnouncementModelFromDomain(a), a.ID)
}

// Delete removes an announcement
func (r *GormAnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.AnnouncementModel{}, id)
}

// FindByID finds an announcement by its ID
func (r *GormAnnouncementRepository) FindByID(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error) {
	var model models.AnnouncementModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every announcement, newest first
func (r *GormAnnouncementRepository) FindAll(ctx context.Context) ([]*announcement.Announcement, error) {
	var rows []models.AnnouncementModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	list := make([]*announcement.Announcement, len(rows))
	for i := range rows {
		list[i] = rows[i].ToDomain()
	}
	return list, nil
}

// Ensure GormAnnouncementRepository implements announcement.Repository
var _ announcement.Repository = (*GormAnnouncementRepository)(nil)
