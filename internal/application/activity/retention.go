package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/teashop/backend/internal/domain/activity"
	"go.uber.org/zap"
)

// RetentionTaskName identifies the activity pruning task
const RetentionTaskName = "activity_retention"

// RetentionTask deletes activity logs older than a fixed age
type RetentionTask struct {
	repo   activity.Repository
	maxAge time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewRetentionTask keeps retentionDays days of history
func NewRetentionTask(repo activity.Repository, retentionDays int, logger *zap.Logger) *RetentionTask {
	return &RetentionTask{
		repo:   repo,
		maxAge: time.Duration(retentionDays) * 24 * time.Hour,
		now:    time.Now,
		logger: logger,
	}
}

// Name returns RetentionTaskName
func (t *RetentionTask) Name() string {
	return RetentionTaskName
}

// Run prunes the expired logs
func (t *RetentionTask) Run(ctx context.Context) error {
	if t.maxAge <= 0 {
		return nil
	}
	cutoff := t.now().Add(-t.maxAge)
	removed, err := t.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune activity logs: %w", err)
	}
	t.logger.Info("Activity logs pruned",
		zap.Int64("removed", removed),
		zap.Time("cutoff", cutoff))
	return nil
}
