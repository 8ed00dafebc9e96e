// Package dispatch queues outbound notifications and delivers them in
// periodic, bounded batches with a fixed number of attempts per message.
//
// Producers call Enqueue and never block on delivery. A single consumer, the
// drain job, calls Drain on a timer. Delivery is best effort: a message that
// fails MaxAttempts times is logged and dropped. The queue lives in memory and
// does not survive a restart.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodrelay/internal/core/domain/model/notification"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/metrics"
	"foodrelay/internal/pkg/errs"
)

// ErrInvalidNotification wraps enqueue rejections.
var ErrInvalidNotification = errors.New("invalid notification")

// Config tunes the drain cycle.
type Config struct {
	// BatchSize is the maximum number of events taken per Drain.
	BatchSize int
	// MaxAttempts is the total number of delivery tries per event.
	MaxAttempts int
	// RetryDelay is the pause between two tries of the same event.
	RetryDelay time.Duration
}

// DefaultConfig returns 5 events per batch, 3 attempts and 1s between attempts.
func DefaultConfig() Config {
	return Config{
		BatchSize:   5,
		MaxAttempts: 3,
		RetryDelay:  time.Second,
	}
}

func (c Config) validate() error {
	return errors.Join(
		positive("batch size", c.BatchSize),
		positive("max attempts", c.MaxAttempts),
		nonNegative("retry delay", c.RetryDelay),
	)
}

// DrainStats summarizes one Drain call.
type DrainStats struct {
	Delivered int
	Dropped   int
	// Skipped is set when another drain was still running.
	Skipped bool
}

// Dispatcher is an unbounded FIFO of notification events.
type Dispatcher struct {
	messenger ports.Messenger
	cfg       Config
	logger    *slog.Logger

	mu    sync.Mutex
	queue []notification.Event

	// draining makes Drain single-flight.
	draining sync.Mutex

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewDispatcher(messenger ports.Messenger, cfg Config, logger *slog.Logger) (*Dispatcher, error) {
	if messenger == nil {
		return nil, errs.NewValueIsRequiredError("messenger")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		messenger: messenger,
		cfg:       cfg,
		logger:    logger.With("component", "notification_dispatcher"),
		now:       time.Now,
		sleep:     sleepContext,
	}, nil
}

// Enqueue appends a message for chatID. Empty text and a zero chat id are
// rejected with ErrInvalidNotification and never enter the queue.
func (d *Dispatcher) Enqueue(chatID int64, text string) error {
	event, err := notification.NewEvent(chatID, text, d.now())
	if err != nil {
		metrics.NotificationsRejectedTotal.Inc()
		d.logger.Warn("notification rejected", "chat_id", chatID, "error", err)
		return fmt.Errorf("%w: %w", ErrInvalidNotification, err)
	}

	d.mu.Lock()
	d.queue = append(d.queue, event)
	n := len(d.queue)
	d.mu.Unlock()

	metrics.NotificationsEnqueuedTotal.Inc()
	metrics.NotificationQueueLength.Set(float64(n))
	d.logger.Debug("notification queued", "event_id", event.ID, "chat_id", chatID, "queue_length", n)
	return nil
}

// Len returns the number of queued events.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Drain takes up to BatchSize events from the head of the queue and delivers
// them one by one. If a previous Drain is still running it returns at once
// with Skipped set. Producers may keep enqueuing while a drain runs.
//
// When ctx is cancelled the events not yet attempted go back to the head of
// the queue.
func (d *Dispatcher) Drain(ctx context.Context) DrainStats {
	if !d.draining.TryLock() {
		d.logger.Debug("drain already in progress, skipping")
		return DrainStats{Skipped: true}
	}
	defer d.draining.Unlock()

	var stats DrainStats
	batch := d.take(d.cfg.BatchSize)

	for i, event := range batch {
		if ctx.Err() != nil {
			d.requeue(batch[i:])
			break
		}

		if d.deliver(ctx, event) {
			stats.Delivered++
		} else {
			stats.Dropped++
		}
	}

	if len(batch) > 0 {
		d.logger.Info("drain cycle finished",
			"delivered", stats.Delivered, "dropped", stats.Dropped, "remaining", d.Len())
	}
	return stats
}

// deliver tries the event up to MaxAttempts times and reports whether it
// reached the messenger.
func (d *Dispatcher) deliver(ctx context.Context, event notification.Event) bool {
	for event.Attempts < d.cfg.MaxAttempts {
		event.Attempts++

		err := d.messenger.Send(ctx, event.ChatID, event.Text)
		if err == nil {
			metrics.NotificationAttemptsTotal.WithLabelValues("success").Inc()
			metrics.NotificationsDeliveredTotal.Inc()
			d.logger.Debug("notification delivered", "event_id", event.ID, "chat_id", event.ChatID, "attempt", event.Attempts)
			return true
		}

		metrics.NotificationAttemptsTotal.WithLabelValues("failure").Inc()
		d.logger.Warn("notification attempt failed",
			"event_id", event.ID,
			"chat_id", event.ChatID,
			"attempt", event.Attempts,
			"max_attempts", d.cfg.MaxAttempts,
			"error", err,
		)

		if event.Attempts < d.cfg.MaxAttempts {
			if err = d.sleep(ctx, d.cfg.RetryDelay); err != nil {
				break
			}
		}
	}

	metrics.NotificationsDroppedTotal.Inc()
	d.logger.Error("notification dropped",
		"event_id", event.ID,
		"chat_id", event.ChatID,
		"attempts", event.Attempts,
		"queued_for", d.now().Sub(event.EnqueuedAt),
	)
	return false
}

func (d *Dispatcher) take(n int) []notification.Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	n = min(n, len(d.queue))
	batch := make([]notification.Event, n)
	copy(batch, d.queue[:n])
	clear(d.queue[:n])
	d.queue = d.queue[n:]
	if len(d.queue) == 0 {
		d.queue = nil
	}
	metrics.NotificationQueueLength.Set(float64(len(d.queue)))
	return batch
}

func (d *Dispatcher) requeue(events []notification.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.queue = append(append(make([]notification.Event, 0, len(events)+len(d.queue)), events...), d.queue...)
	metrics.NotificationQueueLength.Set(float64(len(d.queue)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func positive(name string, v int) error {
	if v <= 0 {
		return errs.NewValueIsOutOfRangeError(name, v, 1, "unbounded")
	}
	return nil
}

func nonNegative(name string, v time.Duration) error {
	if v < 0 {
		return errs.NewValueIsOutOfRangeError(name, v, 0, "unbounded")
	}
	return nil
}
