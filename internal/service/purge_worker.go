package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/metrics"
	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// PurgeWorker is a background worker that hard-deletes deals once they have
// been soft-deleted for longer than the retention window
type PurgeWorker struct {
	dealRepo       domain.DealRepository
	metrics        *metrics.Metrics
	eventPublisher websocket.EventPublisher
	logger         zerolog.Logger
	interval       time.Duration
	retention      time.Duration
	now            func() time.Time
	stopCh         chan struct{}
	doneCh         chan struct{}
	mu             sync.Mutex
	running        bool
}

// PurgeWorkerConfig holds configuration for the purge worker
type PurgeWorkerConfig struct {
	Interval  time.Duration // How often to sweep
	Retention time.Duration // How long soft-deleted deals are kept
}

// DefaultPurgeWorkerConfig returns sensible defaults
func DefaultPurgeWorkerConfig() PurgeWorkerConfig {
	return PurgeWorkerConfig{
		Interval:  1 * time.Hour,
		Retention: 30 * 24 * time.Hour,
	}
}

// NewPurgeWorker creates a new purge worker
func NewPurgeWorker(
	dealRepo domain.DealRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
	config PurgeWorkerConfig,
) *PurgeWorker {
	defaults := DefaultPurgeWorkerConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Retention <= 0 {
		config.Retention = defaults.Retention
	}

	return &PurgeWorker{
		dealRepo:  dealRepo,
		metrics:   m,
		logger:    logger.With().Str("component", "purge_worker").Logger(),
		interval:  config.Interval,
		retention: config.Retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// SetEventPublisher sets the publisher notified after each purge
func (w *PurgeWorker) SetEventPublisher(publisher websocket.EventPublisher) {
	w.eventPublisher = publisher
}

// Start begins the background sweep
func (w *PurgeWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Dur("retention", w.retention).
		Msg("Starting purge worker")

	go w.run(ctx)
}

// Stop gracefully stops the purge worker
func (w *PurgeWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping purge worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Purge worker stopped")
}

func (w *PurgeWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.PurgeOnce()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.PurgeOnce()
		}
	}
}

func (w *PurgeWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// PurgeOnce removes every deal soft-deleted before now minus the retention
// window and returns how many were removed
func (w *PurgeWorker) PurgeOnce() int64 {
	startTime := time.Now()
	cutoff := w.now().Add(-w.retention)

	purged, err := w.dealRepo.PurgeDeleted(cutoff)
	if err != nil {
		w.logger.Error().Err(err).Time("cutoff", cutoff).Msg("Failed to purge deleted deals")
		return 0
	}

	w.metrics.DealsPurged(purged)
	if purged > 0 && w.eventPublisher != nil {
		// Workspace 0 is never a real workspace, so only bus subscribers see it
		w.eventPublisher.Publish(0, websocket.DealsPurged(map[string]interface{}{
			"count":  purged,
			"cutoff": cutoff.UTC(),
		}))
	}

	w.logger.Info().
		Int64("purged", purged).
		Time("cutoff", cutoff).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed deal purge")
	return purged
}

// IsRunning returns whether the worker is currently running
func (w *PurgeWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
