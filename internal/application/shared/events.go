package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/activity"
	"github.com/teashop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Publish publishes and clears the aggregate's pending events. Failures are
// logged; the write has already happened.
func Publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, publisher, agg); err != nil {
		logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// ContentEdited announces an edit of managed content for the activity log
func ContentEdited(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggType string, aggID, actorID uuid.UUID, summary string) {
	if publisher == nil {
		return
	}
	event := activity.NewContentEditedEvent(aggType, aggID, actorID, summary)
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish content edit", zap.String("aggregate_type", aggType), zap.Error(err))
	}
}
