package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the daily sync trigger
type CronTriggerConfig struct {
	// DailyHour and DailyMinute set the local time of the daily full run
	DailyHour   int
	DailyMinute int

	// LookbackDays is the statistics window of the scheduled run
	LookbackDays int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		DailyHour:     3,
		DailyMinute:   0,
		LookbackDays:  7,
		CheckInterval: time.Minute,
	}
}

// CronTrigger queues one full mirror run per day at the configured time
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *SyncScheduler
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, scheduler *SyncScheduler, logger *zap.Logger) *CronTrigger {
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("daily sync trigger started",
		zap.Int("hour", c.config.DailyHour),
		zap.Int("minute", c.config.DailyMinute),
		zap.Duration("check_interval", c.config.CheckInterval))
	return nil
}

// Stop stops the trigger loop
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("daily sync trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically whether the daily run is due
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger queues the daily run at most once per calendar day
func (c *CronTrigger) checkAndTrigger() {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	alreadyRan := c.lastRunDate == currentDate
	c.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != c.config.DailyHour || now.Minute() != c.config.DailyMinute {
		return
	}

	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	job := NewSyncJob(uuid.Nil, now.AddDate(0, 0, -c.config.LookbackDays), now)
	if err := c.scheduler.Submit(job); err != nil {
		c.logger.Error("failed to queue daily sync run", zap.Error(err))
		return
	}
	c.logger.Info("daily sync run queued", zap.String("job_id", job.ID.String()))
}
