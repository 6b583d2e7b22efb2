package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teashop/backend/internal/domain/shared"
)

// Item is a tracked stock-keeping unit supplied by one supplier.
// CurrentStock only changes through Check and Adjust, each producing a StockRecord.
type Item struct {
	shared.BaseAggregateRoot
	SupplierID    uuid.UUID
	Name          string
	Code          string
	Unit          string
	Category      string
	SafetyStock   decimal.Decimal
	CurrentStock  decimal.Decimal
	LastCheckedAt *time.Time
	LastCheckedBy *uuid.UUID
	IsActive      bool
}

// ItemDetails holds the descriptive fields of an item
type ItemDetails struct {
	Name     string
	Code     string
	Unit     string
	Category string
}

// NewItem creates an active item. A positive initial stock yields an "in" record.
func NewItem(createdBy, supplierID uuid.UUID, details ItemDetails, safetyStock, initialStock decimal.Decimal) (*Item, *StockRecord, error) {
	if supplierID == uuid.Nil {
		return nil, nil, shared.InvalidInput("Supplier ID cannot be empty")
	}
	if initialStock.IsNegative() {
		return nil, nil, shared.InvalidInput("Initial stock cannot be negative")
	}
	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		SupplierID:        supplierID,
		CurrentStock:      decimal.Zero,
		IsActive:          true,
	}
	if err := item.SetDetails(details); err != nil {
		return nil, nil, err
	}
	if err := item.SetSafetyStock(safetyStock); err != nil {
		return nil, nil, err
	}
	if !initialStock.IsPositive() {
		return item, nil, nil
	}
	record := newStockRecord(item, StockRecordIn, initialStock, initialStock, "初始庫存", createdBy)
	item.CurrentStock = initialStock
	return item, record, nil
}

// SetDetails replaces the descriptive fields
func (i *Item) SetDetails(d ItemDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.InvalidInput("Item name cannot be empty")
	}
	unit := strings.TrimSpace(d.Unit)
	if unit == "" {
		return shared.InvalidInput("Item unit cannot be empty")
	}
	i.Name = name
	i.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	i.Unit = unit
	i.Category = strings.TrimSpace(d.Category)
	i.Touch()
	return nil
}

// Details returns the descriptive fields
func (i *Item) Details() ItemDetails {
	return ItemDetails{Name: i.Name, Code: i.Code, Unit: i.Unit, Category: i.Category}
}

// SetSafetyStock sets the low-stock threshold
func (i *Item) SetSafetyStock(q decimal.Decimal) error {
	if q.IsNegative() {
		return shared.InvalidInput("Safety stock cannot be negative")
	}
	i.SafetyStock = q
	i.Touch()
	return nil
}

// SetSupplier moves the item to another supplier
func (i *Item) SetSupplier(supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return shared.InvalidInput("Supplier ID cannot be empty")
	}
	i.SupplierID = supplierID
	i.Touch()
	return nil
}

// SetActive enables or disables the item
func (i *Item) SetActive(active bool) {
	i.IsActive = active
	i.Touch()
}

// IsLowStock reports whether an active item is at or below its safety stock
func (i *Item) IsLowStock() bool {
	return i.IsActive && i.CurrentStock.LessThanOrEqual(i.SafetyStock)
}

// Check records a physical count, replacing the current stock
func (i *Item) Check(actual decimal.Decimal, notes string, actor uuid.UUID) (*StockRecord, error) {
	if actual.IsNegative() {
		return nil, shared.InvalidInput("Counted quantity cannot be negative")
	}
	record := newStockRecord(i, StockRecordCheck, actual, actual, notes, actor)
	i.CurrentStock = actual
	now := record.CreatedAt
	checker := actor
	i.LastCheckedAt = &now
	i.LastCheckedBy = &checker
	i.Touch()
	i.AddDomainEvent(NewStockChangedEvent(i, record))
	i.raiseLowStock()
	return record, nil
}

// Adjust adds delta to the current stock. The result may not be negative.
func (i *Item) Adjust(delta decimal.Decimal, notes string, actor uuid.UUID) (*StockRecord, error) {
	if delta.IsZero() {
		return nil, shared.InvalidInput("Adjustment quantity cannot be zero")
	}
	after := i.CurrentStock.Add(delta)
	if after.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrInsufficientStock.Code,
			"Adjustment would make stock negative: "+i.CurrentStock.String()+" + "+delta.String())
	}
	record := newStockRecord(i, StockRecordAdjust, delta, after, notes, actor)
	i.CurrentStock = after
	i.Touch()
	i.AddDomainEvent(NewStockChangedEvent(i, record))
	i.raiseLowStock()
	return record, nil
}

func (i *Item) raiseLowStock() {
	if i.IsLowStock() {
		i.AddDomainEvent(NewLowStockEvent(i))
	}
}
