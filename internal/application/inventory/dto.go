package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teashop/backend/internal/domain/inventory"
)

// CreateSupplierInput contains the fields of a new supplier
type CreateSupplierInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Code    string `json:"code" validate:"required,max=50"`
	Contact string `json:"contact" validate:"max=100"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=200"`
	Notes   string `json:"notes" validate:"max=500"`
}

// UpdateSupplierInput changes a supplier; nil fields are kept
type UpdateSupplierInput struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Code     *string `json:"code" validate:"omitempty,max=50"`
	Contact  *string `json:"contact" validate:"omitempty,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Address  *string `json:"address" validate:"omitempty,max=200"`
	Notes    *string `json:"notes" validate:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
}

// ListSuppliersInput filters supplier listings
type ListSuppliersInput struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
}

// CreateItemInput contains the fields of a new item
type CreateItemInput struct {
	SupplierID   uuid.UUID       `json:"supplier_id" validate:"required"`
	Name         string          `json:"name" validate:"required,max=100"`
	Code         string          `json:"code" validate:"max=50"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	Category     string          `json:"category" validate:"max=50"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	InitialStock decimal.Decimal `json:"initial_stock"`
}

// UpdateItemInput changes an item; nil fields are kept. Stock levels only
// change through checks and adjustments.
type UpdateItemInput struct {
	SupplierID  *uuid.UUID       `json:"supplier_id"`
	Name        *string          `json:"name" validate:"omitempty,max=100"`
	Code        *string          `json:"code" validate:"omitempty,max=50"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	Category    *string          `json:"category" validate:"omitempty,max=50"`
	SafetyStock *decimal.Decimal `json:"safety_stock"`
	IsActive    *bool            `json:"is_active"`
}

// ListItemsInput filters item listings
type ListItemsInput struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"-"`
	Category   string     `form:"category"`
	ActiveOnly bool       `form:"active_only"`
}

// CheckStockInput records a physical count. Quantity is the counted stock.
type CheckStockInput struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"required"`
	Notes    string           `json:"notes" validate:"max=500"`
}

// AdjustStockInput adds a signed delta to the stock
type AdjustStockInput struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"required"`
	Notes    string           `json:"notes" validate:"max=500"`
}

// SupplierView is a supplier as shown to clients
type SupplierView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemView is an item as shown to clients
type ItemView struct {
	ID                uuid.UUID       `json:"id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	Name              string          `json:"name"`
	Code              string          `json:"code"`
	Unit              string          `json:"unit"`
	Category          string          `json:"category"`
	SafetyStock       decimal.Decimal `json:"safety_stock"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	IsLowStock        bool            `json:"is_low_stock"`
	LastCheckedAt     *time.Time      `json:"last_checked_at,omitempty"`
	LastCheckedBy     *uuid.UUID      `json:"last_checked_by,omitempty"`
	LastCheckedByName string          `json:"last_checked_by_name,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockRecordView is a stock movement as shown to clients
type StockRecordView struct {
	ID             uuid.UUID                 `json:"id"`
	ItemID         uuid.UUID                 `json:"item_id"`
	Type           inventory.StockRecordType `json:"type"`
	Quantity       decimal.Decimal           `json:"quantity"`
	BeforeQuantity decimal.Decimal           `json:"before_quantity"`
	AfterQuantity  decimal.Decimal           `json:"after_quantity"`
	Notes          string                    `json:"notes"`
	CreatedBy      uuid.UUID                 `json:"created_by"`
	CreatedByName  string                    `json:"created_by_name"`
	CreatedAt      time.Time                 `json:"created_at"`
}

// MovementResult is the outcome of a check or adjustment
type MovementResult struct {
	Item   ItemView        `json:"item"`
	Record StockRecordView `json:"record"`
}

// ToSupplierView converts a domain supplier
func ToSupplierView(s *inventory.Supplier) SupplierView {
	return SupplierView{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		Contact:   s.Contact,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Notes:     s.Notes,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toItemView(i *inventory.Item, names map[uuid.UUID]string) ItemView {
	v := ItemView{
		ID:            i.ID,
		SupplierID:    i.SupplierID,
		Name:          i.Name,
		Code:          i.Code,
		Unit:          i.Unit,
		Category:      i.Category,
		SafetyStock:   i.SafetyStock,
		CurrentStock:  i.CurrentStock,
		IsLowStock:    i.IsLowStock(),
		LastCheckedAt: i.LastCheckedAt,
		LastCheckedBy: i.LastCheckedBy,
		IsActive:      i.IsActive,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
	if i.LastCheckedBy != nil {
		v.LastCheckedByName = names[*i.LastCheckedBy]
	}
	return v
}

func toStockRecordView(r *inventory.StockRecord, names map[uuid.UUID]string) StockRecordView {
	return StockRecordView{
		ID:             r.ID,
		ItemID:         r.ItemID,
		Type:           r.Type,
		Quantity:       r.Quantity,
		BeforeQuantity: r.BeforeQuantity,
		AfterQuantity:  r.AfterQuantity,
		Notes:          r.Notes,
		CreatedBy:      r.CreatedBy,
		CreatedByName:  names[r.CreatedBy],
		CreatedAt:      r.CreatedAt,
	}
}
