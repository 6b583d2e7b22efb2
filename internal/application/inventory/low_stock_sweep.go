package inventory

import (
	"context"
	"fmt"

	"github.com/teashop/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// LowStockSweepTaskName identifies the daily low stock sweep
const LowStockSweepTaskName = "low_stock_sweep"

// LowStockSweep re-sends alerts for every active item still at or below its
// safety stock, so shortages are not forgotten after the first alert
type LowStockSweep struct {
	items    inventory.ItemRepository
	notifier StockAlertNotifier
	logger   *zap.Logger
}

// NewLowStockSweep creates the sweep; notifier may be nil
func NewLowStockSweep(items inventory.ItemRepository, notifier StockAlertNotifier, logger *zap.Logger) *LowStockSweep {
	return &LowStockSweep{items: items, notifier: notifier, logger: logger}
}

// Name returns LowStockSweepTaskName
func (s *LowStockSweep) Name() string {
	return LowStockSweepTaskName
}

// Run sends one alert per low item. A failed delivery fails the run so it
// is retried.
func (s *LowStockSweep) Run(ctx context.Context) error {
	items, err := s.items.FindLowStock(ctx)
	if err != nil {
		return fmt.Errorf("find low stock: %w", err)
	}
	outOfStock := 0
	for _, item := range items {
		alert := newStockAlert(item.ID, item.Name, item.CurrentStock, item.SafetyStock)
		if alert.AlertType == "out_of_stock" {
			outOfStock++
		}
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.SendAlert(ctx, alert); err != nil {
			return fmt.Errorf("send alert for %s: %w", alert.ItemID, err)
		}
	}
	s.logger.Info("Low stock sweep finished",
		zap.Int("low_stock", len(items)),
		zap.Int("out_of_stock", outOfStock))
	return nil
}
