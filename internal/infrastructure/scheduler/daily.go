package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDailySchedule runs maintenance at 03:00
const DefaultDailySchedule = "0 3 * * *"

// ParseDailySchedule reads a daily cron expression "minute hour * * *".
// Day, month and weekday may be omitted but must be "*" when present; an
// empty expression uses DefaultDailySchedule.
func ParseDailySchedule(expr string) (hour, minute int, err error) {
	if strings.TrimSpace(expr) == "" {
		expr = DefaultDailySchedule
	}
	parts := strings.Fields(expr)
	if len(parts) < 2 || len(parts) > 5 {
		return 0, 0, fmt.Errorf("%w: %q must be \"minute hour * * *\"", ErrInvalidSchedule, expr)
	}
	for _, field := range parts[2:] {
		if field != "*" {
			return 0, 0, fmt.Errorf("%w: only daily schedules are supported, got %q", ErrInvalidSchedule, expr)
		}
	}
	minute, err = strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59, got %q", ErrInvalidSchedule, parts[0])
	}
	hour, err = strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23, got %q", ErrInvalidSchedule, parts[1])
	}
	return hour, minute, nil
}

// DailyTrigger submits every registered task once a day at a fixed local time
type DailyTrigger struct {
	hour          int
	minute        int
	checkInterval time.Duration
	scheduler     *Scheduler
	logger        *zap.Logger
	now           func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a trigger for hour:minute, checked every minute
func NewDailyTrigger(hour, minute int, scheduler *Scheduler, logger *zap.Logger) *DailyTrigger {
	return &DailyTrigger{
		hour:          hour,
		minute:        minute,
		checkInterval: time.Minute,
		scheduler:     scheduler,
		logger:        logger,
		now:           time.Now,
	}
}

// Start starts the check loop
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = true
	d.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("hour", d.hour),
		zap.Int("minute", d.minute),
	)
	return nil
}

// Stop stops the check loop
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits the tasks when the clock has reached the run time
// and they have not run today
func (d *DailyTrigger) checkAndTrigger() bool {
	now := d.now()
	today := now.Format("2006-01-02")

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastRunDate == today {
		return false
	}
	if now.Hour() < d.hour || (now.Hour() == d.hour && now.Minute() < d.minute) {
		return false
	}
	d.lastRunDate = today

	d.logger.Info("Triggering daily maintenance", zap.String("date", today))
	if err := d.scheduler.SubmitAll(); err != nil {
		d.logger.Error("Failed to submit daily tasks", zap.Error(err))
	}
	return true
}
