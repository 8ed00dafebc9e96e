package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodrelay/internal/core/application/dispatch"
	"foodrelay/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultDrainInterval is how often queued notifications are drained.
const DefaultDrainInterval = 3 * time.Second

// Drainer is the dispatcher side the job drives.
type Drainer interface {
	Drain(ctx context.Context) dispatch.DrainStats
}

// NotificationDrainJob drains the notification queue on a fixed period.
// Ticks that fire while a drain is still running are skipped, both by cron
// and by the dispatcher itself.
type NotificationDrainJob struct {
	drainer  Drainer
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewNotificationDrainJob(drainer Drainer, interval time.Duration, logger *slog.Logger) (*NotificationDrainJob, error) {
	if drainer == nil {
		return nil, errs.NewValueIsRequiredError("drainer")
	}
	// cron's @every schedule has one second resolution
	if interval < time.Second {
		return nil, errs.NewValueIsOutOfRangeError("drain interval", interval, time.Second, "unbounded")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "notification_drain_job")

	return &NotificationDrainJob{
		drainer:  drainer,
		interval: interval,
		logger:   logger,
	}, nil
}

// Start schedules the drain. Each start gets its own scheduler, so a job
// restarted after Stop runs exactly one schedule.
func (j *NotificationDrainJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		return nil
	}

	cl := cronLogger{logger: j.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", j.interval), func() { j.run(ctx) }); err != nil {
		cancel()
		return err
	}

	j.cron = c
	j.cancel = cancel
	c.Start()
	j.logger.InfoContext(ctx, "Notification drain job started", "interval", j.interval.String())
	return nil
}

// Stop cancels a running drain, which puts its unsent events back on the
// queue, and waits for it to return.
func (j *NotificationDrainJob) Stop() {
	j.mu.Lock()
	cancel, c := j.cancel, j.cron
	j.cancel, j.cron = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification drain job stopped")
}

// RunOnce drains one batch synchronously.
func (j *NotificationDrainJob) RunOnce(ctx context.Context) dispatch.DrainStats {
	return j.run(ctx)
}

func (j *NotificationDrainJob) run(ctx context.Context) dispatch.DrainStats {
	stats := j.drainer.Drain(ctx)
	if stats.Delivered > 0 || stats.Dropped > 0 {
		j.logger.DebugContext(ctx, "Drain cycle finished",
			"delivered", stats.Delivered, "dropped", stats.Dropped)
	}
	return stats
}

// cronLogger routes cron's own messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
