package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// SupplierFilter narrows supplier listings
type SupplierFilter struct {
	shared.ListOptions
	ActiveOnly bool
}

// ItemFilter narrows item listings
type ItemFilter struct {
	shared.ListOptions
	SupplierID *uuid.UUID
	Category   string
	ActiveOnly bool
}

// SupplierRepository persists suppliers
type SupplierRepository interface {
	Create(ctx context.Context, s *Supplier) error
	Update(ctx context.Context, s *Supplier) error
	// Delete returns shared.ErrInvalidState when items still reference the supplier
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter SupplierFilter) ([]*Supplier, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// ItemRepository persists items and their stock trail
type ItemRepository interface {
	// Create inserts the item and its optional initial record atomically
	Create(ctx context.Context, item *Item, initial *StockRecord) error
	Update(ctx context.Context, item *Item) error
	// Delete fails with ErrInvalidState once the item has stock records
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]*Item, error)
	// FindLowStock returns active items whose current stock is at or below safety stock
	FindLowStock(ctx context.Context) ([]*Item, error)

	// ApplyMovement loads the item under a row lock, runs mutate on it and
	// stores both the item and the resulting record in one transaction.
	ApplyMovement(ctx context.Context, itemID uuid.UUID, mutate func(*Item) (*StockRecord, error)) (*Item, *StockRecord, error)

	// FindRecords returns the item's records, newest first
	FindRecords(ctx context.Context, itemID uuid.UUID, limit int) ([]*StockRecord, error)
}
