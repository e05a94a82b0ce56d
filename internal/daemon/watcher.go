// Package daemon implements the enforcement loop and its process lifecycle.
package daemon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/resguard/resguard/internal/domain"
	"github.com/resguard/resguard/internal/usecase"
)

// WatcherConfig holds enforcement loop configuration.
type WatcherConfig struct {
	PollInterval time.Duration // Cadence of display mode checks
}

// DefaultWatcherConfig returns the default loop configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval: 5 * time.Second,
	}
}

// Watcher is the enforcement loop. Each tick it reads the current display
// mode, feeds the drift detector, and - once drift has persisted past the
// debounce threshold - pushes a correction through the serialized corrector.
// Hotkey activations are consumed on their own goroutine so a slow apply
// never delays manual responsiveness; the corrector's gate keeps the two
// paths from ever overlapping on the OS call.
type Watcher struct {
	config    WatcherConfig
	gateway   domain.ModeGateway
	detector  *usecase.DriftDetector
	corrector *usecase.Corrector
	trigger   domain.TriggerSource
	logger    *zap.Logger

	wg sync.WaitGroup
}

// NewWatcher creates the enforcement loop.
// trigger may be nil when no hotkey is available (tests, headless CI).
func NewWatcher(
	config WatcherConfig,
	gateway domain.ModeGateway,
	detector *usecase.DriftDetector,
	corrector *usecase.Corrector,
	trigger domain.TriggerSource,
	logger *zap.Logger,
) *Watcher {
	return &Watcher{
		config:    config,
		gateway:   gateway,
		detector:  detector,
		corrector: corrector,
		trigger:   trigger,
		logger:    logger,
	}
}

// Run starts the loop and blocks until the context is canceled.
// On cancel it waits for the hotkey consumer and any in-flight correction
// before returning, so no mode change is left half-applied.
func (w *Watcher) Run(ctx context.Context) error {
	w.corrector.StartMonitoring()
	w.logger.Info("enforcement loop started",
		zap.Duration("poll_interval", w.config.PollInterval))

	if w.trigger != nil {
		w.wg.Add(1)
		go w.consumeTriggers(ctx)
	}

	// Check immediately on startup rather than waiting one full interval.
	w.tick(ctx)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("enforcement loop stopping")
			w.wg.Wait()
			return ctx.Err()

		case <-ticker.C:
			// A tick that fires while a correction blocks the loop is
			// dropped by the ticker, never queued.
			w.tick(ctx)
		}
	}
}

// tick performs one read-evaluate-correct cycle.
func (w *Watcher) tick(ctx context.Context) {
	mode, err := w.gateway.Read(ctx)
	obs := domain.Observation{Mode: mode, ReadErr: err, At: time.Now()}

	if w.detector.Evaluate(obs) != usecase.CorrectionRequired {
		return
	}

	if w.corrector.State() == domain.StatePaused {
		w.logger.Debug("drift persists but enforcement is paused, waiting for manual trigger")
		return
	}

	applied, applyErr := w.corrector.Correct(ctx, domain.TriggerPoll)
	if applied {
		// Start the streak over whether the apply succeeded or not, so the
		// next tick observes the settled state instead of double-firing.
		w.detector.Reset()
	}
	if applyErr != nil {
		w.logger.Warn("poll-triggered correction failed", zap.Error(applyErr))
	}
}

// consumeTriggers handles hotkey activations until the context is canceled.
func (w *Watcher) consumeTriggers(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case _, ok := <-w.trigger.Events():
			if !ok {
				return
			}
			w.logger.Info("manual correction requested")
			applied, err := w.corrector.Correct(ctx, domain.TriggerHotkey)
			if applied {
				w.detector.Reset()
			}
			if err != nil {
				w.logger.Warn("manual correction failed", zap.Error(err))
			}
		}
	}
}
