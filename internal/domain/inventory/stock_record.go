package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecordType classifies a stock movement
type StockRecordType string

const (
	StockRecordCheck  StockRecordType = "check"
	StockRecordAdjust StockRecordType = "adjust"
	StockRecordIn     StockRecordType = "in"
	StockRecordOut    StockRecordType = "out"
)

// IsValid reports whether t is a known record type
func (t StockRecordType) IsValid() bool {
	switch t {
	case StockRecordCheck, StockRecordAdjust, StockRecordIn, StockRecordOut:
		return true
	}
	return false
}

// StockRecord is an append-only entry of the stock trail.
// Quantity is the counted amount for checks and the delta otherwise.
type StockRecord struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	Type           StockRecordType
	Quantity       decimal.Decimal
	BeforeQuantity decimal.Decimal
	AfterQuantity  decimal.Decimal
	Notes          string
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
}

func newStockRecord(item *Item, t StockRecordType, quantity, after decimal.Decimal, notes string, actor uuid.UUID) *StockRecord {
	return &StockRecord{
		ID:             uuid.New(),
		ItemID:         item.ID,
		Type:           t,
		Quantity:       quantity,
		BeforeQuantity: item.CurrentStock,
		AfterQuantity:  after,
		Notes:          strings.TrimSpace(notes),
		CreatedBy:      actor,
		CreatedAt:      time.Now(),
	}
}

// Delta returns the signed change the record applied
func (r *StockRecord) Delta() decimal.Decimal {
	return r.AfterQuantity.Sub(r.BeforeQuantity)
}
