// Package usecase contains application business logic.
package usecase

import (
	"go.uber.org/zap"

	"github.com/resguard/resguard/internal/domain"
)

// Decision is the outcome of evaluating one observation.
type Decision int

const (
	// NoAction means the observation does not warrant a correction.
	NoAction Decision = iota
	// CorrectionRequired means drift has persisted past the debounce threshold.
	CorrectionRequired
)

// DriftDetector compares observations against the target mode and applies
// debounce: only after debounceCount consecutive drifted observations does
// it ask for a correction. This absorbs the transient modes a monitor
// reports mid-handshake without firing spurious corrections.
//
// Not safe for concurrent use; it is owned by the single poll goroutine.
type DriftDetector struct {
	target        domain.DisplayMode
	debounceCount int
	logger        *zap.Logger

	consecutive  int
	readFailures int
}

// NewDriftDetector creates a detector for the given target.
// debounceCount is the number of consecutive drifted observations required
// before Evaluate returns CorrectionRequired.
func NewDriftDetector(target domain.DisplayMode, debounceCount int, logger *zap.Logger) *DriftDetector {
	return &DriftDetector{
		target:        target,
		debounceCount: debounceCount,
		logger:        logger,
	}
}

// Evaluate folds one observation into the drift history and decides.
//
// A failed read is unknown state: it neither extends nor resets the drift
// streak, and never triggers a correction on its own.
func (d *DriftDetector) Evaluate(obs domain.Observation) Decision {
	if obs.Failed() {
		d.readFailures++
		d.logger.Warn("display read failed, holding position",
			zap.Error(obs.ReadErr),
			zap.Int("consecutive_drift", d.consecutive))
		return NoAction
	}

	if obs.Mode.Equal(d.target) {
		if d.consecutive > 0 {
			d.logger.Debug("display back on target", zap.String("mode", obs.Mode.String()))
		}
		d.consecutive = 0
		return NoAction
	}

	d.consecutive++
	d.logger.Info("drift observed",
		zap.String("observed", obs.Mode.String()),
		zap.String("target", d.target.String()),
		zap.Int("consecutive", d.consecutive),
		zap.Int("debounce", d.debounceCount))

	if d.consecutive >= d.debounceCount {
		return CorrectionRequired
	}
	return NoAction
}

// Reset zeroes the drift streak. Called immediately after a correction is
// issued - success or not - so the next tick starts fresh instead of
// double-firing before the OS has settled.
func (d *DriftDetector) Reset() {
	d.consecutive = 0
}

// Consecutive returns the current drift streak length.
func (d *DriftDetector) Consecutive() int {
	return d.consecutive
}

// ReadFailures returns the total number of failed reads seen so far.
func (d *DriftDetector) ReadFailures() int {
	return d.readFailures
}
