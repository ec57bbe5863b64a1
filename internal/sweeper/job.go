package sweeper

import (
	"context"
	"log/slog"
	"time"

	"motive/internal/metrics"
	"motive/internal/models"
	"motive/internal/service"
)

// Store is the slice of the hold store the sweeper needs.
type Store interface {
	ReclaimExpired(ctx context.Context) (*models.ReclaimResult, error)
}

// Job periodically returns expired-held tickets to the available pool.
// Reservations already reclaim lazily when they touch expired tickets; this
// pass exists so inventory on events with no further traffic is never
// stranded. Reclamation is a conditional update, so running concurrently
// with finalize is safe: each ticket has exactly one winner.
type Job struct {
	store    Store
	nats     service.Publisher
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewJob(store Store, nats service.Publisher, interval time.Duration) *Job {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Job{
		store:    store,
		nats:     nats,
		interval: interval,
		done:     make(chan bool),
	}
}

// Start begins the background sweep loop
func (j *Job) Start(ctx context.Context) {
	slog.Info("Starting hold expiry sweeper", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	// Run initial sweep immediately
	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.sweep(ctx)
			case <-j.done:
				slog.Info("Hold expiry sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper
func (j *Job) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *Job) sweep(ctx context.Context) {
	result, err := j.store.ReclaimExpired(ctx)
	if err != nil {
		slog.Error("Sweep failed", "error", err)
		return
	}

	if result.TicketsReclaimed == 0 && len(result.ExpiredHolds) == 0 {
		slog.Debug("No expired holds found")
		return
	}

	metrics.TicketsReclaimedTotal.Add(float64(result.TicketsReclaimed))
	metrics.HoldsExpiredTotal.Add(float64(len(result.ExpiredHolds)))

	slog.Info("Reclaimed expired holds",
		"tickets_reclaimed", result.TicketsReclaimed,
		"holds_expired", len(result.ExpiredHolds))

	for _, expired := range result.ExpiredHolds {
		event := models.HoldExpiredEvent{
			HoldID:    expired.HoldID,
			EventID:   expired.EventID,
			Timestamp: time.Now(),
		}
		if err := j.nats.Publish(models.EventHoldExpired, event); err != nil {
			slog.Error("Failed to publish hold expired event",
				"error", err,
				"hold_id", expired.HoldID,
				"event_type", models.EventHoldExpired)
			// Reclamation already committed; publishing is best effort
		}
	}
}
