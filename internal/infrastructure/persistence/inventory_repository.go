package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/inventory"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplierRepository implements inventory.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// Create inserts a supplier
func (r *GormSupplierRepository) Create(ctx context.Context, s *inventory.Supplier) error {
	if err := r.db.WithContext(ctx).Create(models.SupplierModelFromDomain(s)).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError("ALREADY_EXISTS", "Supplier code already exists")
		}
		return err
	}
	return nil
}

// Update writes every field of the supplier
func (r *GormSupplierRepository) Update(ctx context.Context, s *inventory.Supplier) error {
	err := updateByID(r.db.WithContext(ctx), models.SupplierModelFromDomain(s), s.ID)
	if isDuplicateKey(err) {
		return shared.NewDomainError("ALREADY_EXISTS", "Supplier code already exists")
	}
	return err
}

// Delete removes a supplier that no item references
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items int64
		if err := tx.Model(&models.ItemModel{}).Where("supplier_id = ?", id).Count(&items).Error; err != nil {
			return err
		}
		if items > 0 {
			return shared.InvalidState("supplier still has %d items", items)
		}
		err := deleteByID(tx, &models.SupplierModel{}, id)
		if isForeignKeyViolation(err) {
			return shared.InvalidState("supplier still has items")
		}
		return err
	})
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all suppliers matching the filter
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter inventory.SupplierFilter) ([]*inventory.Supplier, error) {
	query := r.db.WithContext(ctx).Model(&models.SupplierModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(contact) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	query = applyListOptions(query, filter.ListOptions, supplierSort)

	var rows []models.SupplierModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]*inventory.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = rows[i].ToDomain()
	}
	return suppliers, nil
}

// ExistsByCode checks if a supplier code exists
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SupplierModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create inserts the item and its optional initial record atomically
func (r *GormItemRepository) Create(ctx context.Context, item *inventory.Item, initial *inventory.StockRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ItemModelFromDomain(item)).Error; err != nil {
			if isForeignKeyViolation(err) {
				return shared.NotFound("supplier", item.SupplierID)
			}
			return err
		}
		if initial == nil {
			return nil
		}
		return tx.Create(models.StockRecordModelFromDomain(initial)).Error
	})
}

// Update writes the item's descriptive fields. Stock columns are only
// written through ApplyMovement.
func (r *GormItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	model := models.ItemModelFromDomain(item)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", item.ID).
		Select("*").
		Omit("id", "created_at", "created_by", "current_stock", "last_checked_at", "last_checked_by", clause.Associations).
		Updates(model)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return shared.NotFound("supplier", item.SupplierID)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an item that has no stock records. Items with a trail are
// deactivated instead.
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var records int64
		if err := tx.Model(&models.StockRecordModel{}).Where("item_id = ?", id).Count(&records).Error; err != nil {
			return err
		}
		if records > 0 {
			return shared.InvalidState("item has %d stock records; deactivate it instead", records)
		}
		err := deleteByID(tx, &models.ItemModel{}, id)
		if isForeignKeyViolation(err) {
			return shared.InvalidState("item has stock records; deactivate it instead")
		}
		return err
	})
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.ItemModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	query = applyListOptions(query, filter.ListOptions, itemSort)

	var rows []models.ItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(rows), nil
}

// FindLowStock returns active items whose current stock is at or below safety stock
func (r *GormItemRepository) FindLowStock(ctx context.Context) ([]*inventory.Item, error) {
	var rows []models.ItemModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND current_stock <= safety_stock", true).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(rows), nil
}

// ApplyMovement loads the item under a row lock, runs mutate on it and
// stores both the item and the resulting record in one transaction.
func (r *GormItemRepository) ApplyMovement(ctx context.Context, itemID uuid.UUID, mutate func(*inventory.Item) (*inventory.StockRecord, error)) (*inventory.Item, *inventory.StockRecord, error) {
	var (
		item   *inventory.Item
		record *inventory.StockRecord
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if isPostgres(tx) {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var model models.ItemModel
		if err := query.Where("id = ?", itemID).First(&model).Error; err != nil {
			return notFound(err)
		}

		item = model.ToDomain()
		var err error
		record, err = mutate(item)
		if err != nil {
			return err
		}

		result := tx.Model(&models.ItemModel{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{
				"current_stock":   item.CurrentStock,
				"last_checked_at": item.LastCheckedAt,
				"last_checked_by": item.LastCheckedBy,
				"updated_at":      item.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Create(models.StockRecordModelFromDomain(record)).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return item, record, nil
}

// FindRecords returns the item's records, newest first
func (r *GormItemRepository) FindRecords(ctx context.Context, itemID uuid.UUID, limit int) ([]*inventory.StockRecord, error) {
	query := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.StockRecordModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]*inventory.StockRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

func itemsToDomain(rows []models.ItemModel) []*inventory.Item {
	items := make([]*inventory.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items
}

// Ensure the repositories implement the domain interfaces
var (
	_ inventory.SupplierRepository = (*GormSupplierRepository)(nil)
	_ inventory.ItemRepository     = (*GormItemRepository)(nil)
)
