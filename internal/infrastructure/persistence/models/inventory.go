package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teashop/backend/internal/domain/inventory"
)

// SupplierModel is the persistence model for a supplier
type SupplierModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Contact  string `gorm:"type:varchar(100)"`
	Phone    string `gorm:"type:varchar(50)"`
	Email    string `gorm:"type:varchar(200)"`
	Address  string `gorm:"type:varchar(500)"`
	Notes    string `gorm:"type:text"`
	IsActive bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *inventory.Supplier {
	return &inventory.Supplier{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Code:              m.Code,
		Contact:           m.Contact,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		Notes:             m.Notes,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Supplier
func (m *SupplierModel) FromDomain(s *inventory.Supplier) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.Code = s.Code
	m.Contact = s.Contact
	m.Phone = s.Phone
	m.Email = s.Email
	m.Address = s.Address
	m.Notes = s.Notes
	m.IsActive = s.IsActive
}

// SupplierModelFromDomain creates a new persistence model from domain entity
func SupplierModelFromDomain(s *inventory.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}

// ItemModel is the persistence model for an inventory item.
// current_stock is only written together with a stock record.
type ItemModel struct {
	AggregateModel
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Code          string          `gorm:"type:varchar(50);not null;index"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	Category      string          `gorm:"type:varchar(50);index"`
	SafetyStock   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LastCheckedAt *time.Time
	LastCheckedBy *uuid.UUID     `gorm:"type:uuid"`
	IsActive      bool           `gorm:"not null;index"`
	Supplier      *SupplierModel `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *inventory.Item {
	return &inventory.Item{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SupplierID:        m.SupplierID,
		Name:              m.Name,
		Code:              m.Code,
		Unit:              m.Unit,
		Category:          m.Category,
		SafetyStock:       m.SafetyStock,
		CurrentStock:      m.CurrentStock,
		LastCheckedAt:     m.LastCheckedAt,
		LastCheckedBy:     m.LastCheckedBy,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *inventory.Item) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.SupplierID = i.SupplierID
	m.Name = i.Name
	m.Code = i.Code
	m.Unit = i.Unit
	m.Category = i.Category
	m.SafetyStock = i.SafetyStock
	m.CurrentStock = i.CurrentStock
	m.LastCheckedAt = i.LastCheckedAt
	m.LastCheckedBy = i.LastCheckedBy
	m.IsActive = i.IsActive
}

// ItemModelFromDomain creates a new persistence model from domain entity
func ItemModelFromDomain(i *inventory.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}

// StockRecordModel is an append-only row of the stock trail
type StockRecordModel struct {
	ID             uuid.UUID                 `gorm:"type:uuid;primary_key"`
	ItemID         uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Type           inventory.StockRecordType `gorm:"type:varchar(10);not null"`
	Quantity       decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	BeforeQuantity decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	AfterQuantity  decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Notes          string                    `gorm:"type:text"`
	CreatedBy      uuid.UUID                 `gorm:"type:uuid;index"`
	CreatedAt      time.Time                 `gorm:"not null;index"`
	Item           *ItemModel                `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (StockRecordModel) TableName() string {
	return "stock_records"
}

// ToDomain converts the persistence model to a domain StockRecord
func (m *StockRecordModel) ToDomain() *inventory.StockRecord {
	return &inventory.StockRecord{
		ID:             m.ID,
		ItemID:         m.ItemID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		BeforeQuantity: m.BeforeQuantity,
		AfterQuantity:  m.AfterQuantity,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// StockRecordModelFromDomain creates a new persistence model from domain entity
func StockRecordModelFromDomain(r *inventory.StockRecord) *StockRecordModel {
	return &StockRecordModel{
		ID:             r.ID,
		ItemID:         r.ItemID,
		Type:           r.Type,
		Quantity:       r.Quantity,
		BeforeQuantity: r.BeforeQuantity,
		AfterQuantity:  r.AfterQuantity,
		Notes:          r.Notes,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
	}
}
