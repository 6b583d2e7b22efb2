package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teashop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeItem = "InventoryItem"

// Event type constants
const (
	EventTypeStockChanged = "StockChanged"
	EventTypeLowStock     = "LowStock"
)

// StockChangedEvent is raised for every check or adjustment
type StockChangedEvent struct {
	shared.BaseDomainEvent
	ItemID         uuid.UUID       `json:"item_id"`
	RecordID       uuid.UUID       `json:"record_id"`
	RecordType     StockRecordType `json:"record_type"`
	BeforeQuantity decimal.Decimal `json:"before_quantity"`
	AfterQuantity  decimal.Decimal `json:"after_quantity"`
}

// NewStockChangedEvent creates a new StockChangedEvent
func NewStockChangedEvent(item *Item, record *StockRecord) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, AggregateTypeItem, item.ID, record.CreatedBy),
		ItemID:          item.ID,
		RecordID:        record.ID,
		RecordType:      record.Type,
		BeforeQuantity:  record.BeforeQuantity,
		AfterQuantity:   record.AfterQuantity,
	}
}

// LowStockEvent is raised when a movement leaves an item at or below its safety stock
type LowStockEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	ItemName     string          `json:"item_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(item *Item) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, AggregateTypeItem, item.ID, uuid.Nil),
		ItemID:          item.ID,
		ItemName:        item.Name,
		CurrentStock:    item.CurrentStock,
		SafetyStock:     item.SafetyStock,
	}
}
