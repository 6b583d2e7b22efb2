package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teashop/backend/internal/domain/inventory"
	"github.com/teashop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlert describes an item that fell to or below its safety stock
type StockAlert struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	CurrentStock string `json:"current_stock"`
	SafetyStock  string `json:"safety_stock"`
	AlertType    string `json:"alert_type"` // "low_stock", "out_of_stock"
}

func newStockAlert(id uuid.UUID, name string, current, safety decimal.Decimal) StockAlert {
	alertType := "low_stock"
	if current.IsZero() {
		alertType = "out_of_stock"
	}
	return StockAlert{
		ItemID:       id.String(),
		ItemName:     name,
		CurrentStock: current.String(),
		SafetyStock:  safety.String(),
		AlertType:    alertType,
	}
}

// StockAlertNotifier delivers stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// LowStockHandler turns LowStock events into alerts
type LowStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewLowStockHandler creates a handler that logs alerts and forwards them to
// the notifier when one is set
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeLowStock}
}

// Handle processes a LowStockEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	low, ok := event.(*inventory.LowStockEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeLowStock, event.EventType())
	}

	alert := newStockAlert(low.ItemID, low.ItemName, low.CurrentStock, low.SafetyStock)

	h.logger.Warn("Stock at or below safety level",
		zap.String("item_id", alert.ItemID),
		zap.String("item_name", alert.ItemName),
		zap.String("current_stock", alert.CurrentStock),
		zap.String("safety_stock", alert.SafetyStock),
		zap.String("alert_type", alert.AlertType),
	)

	if h.notifier != nil {
		// notification failure must not fail the stock movement
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			h.logger.Error("Failed to send stock alert", zap.String("item_id", alert.ItemID), zap.Error(err))
		}
	}
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
