package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/resguard/resguard/internal/domain"
)

// Corrector is the single serialized correction path. Both the poll loop and
// the hotkey goroutine funnel through Correct, which guarantees at most one
// apply call in flight at any time. It owns the enforcement state machine
// and the consecutive-failure counter; nothing else mutates them.
type Corrector struct {
	gateway     domain.ModeGateway
	target      domain.DisplayMode
	maxFailures int
	reporter    domain.Reporter
	logger      *zap.Logger

	// gate serializes corrections. TryLock, never Lock: a trigger that
	// arrives mid-correction coalesces into a no-op because the in-flight
	// apply will re-stabilize the state anyway.
	gate sync.Mutex

	mu       sync.Mutex
	state    domain.State
	failures int
}

// NewCorrector creates the correction path for the given target.
func NewCorrector(
	gateway domain.ModeGateway,
	target domain.DisplayMode,
	maxFailures int,
	reporter domain.Reporter,
	logger *zap.Logger,
) *Corrector {
	return &Corrector{
		gateway:     gateway,
		target:      target,
		maxFailures: maxFailures,
		reporter:    reporter,
		logger:      logger,
		state:       domain.StateIdle,
	}
}

// StartMonitoring moves Idle to Monitoring when the loop starts.
func (c *Corrector) StartMonitoring() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateIdle {
		c.state = domain.StateMonitoring
	}
}

// State returns the current enforcement state.
func (c *Corrector) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Failures returns the consecutive apply-failure count.
func (c *Corrector) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// Correct issues one apply attempt toward the target mode.
//
// Returns (false, nil) when coalesced: either another correction is already
// in flight, or enforcement is paused and the trigger is not manual. A
// hotkey trigger while paused is the designed recovery path: it zeroes the
// failure counter and forces exactly one attempt.
//
// The apply itself runs under context.WithoutCancel so shutdown never leaves
// a mode change half-applied.
func (c *Corrector) Correct(ctx context.Context, trigger domain.Trigger) (bool, error) {
	if !c.gate.TryLock() {
		c.logger.Debug("correction already in flight, coalescing",
			zap.String("trigger", string(trigger)))
		return false, nil
	}
	defer c.gate.Unlock()

	c.mu.Lock()
	if c.state == domain.StatePaused {
		if trigger != domain.TriggerHotkey {
			c.mu.Unlock()
			return false, nil
		}
		c.logger.Info("manual trigger while paused, resetting failure counter")
		c.failures = 0
	}
	c.state = domain.StateCorrecting
	c.mu.Unlock()

	c.logger.Info("applying target mode",
		zap.String("target", c.target.String()),
		zap.String("trigger", string(trigger)))

	err := c.gateway.Apply(context.WithoutCancel(ctx), c.target)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failures++
		c.logger.Error("apply failed",
			zap.Error(err),
			zap.Int("consecutive_failures", c.failures),
			zap.Int("max_failures", c.maxFailures))

		if c.failures >= c.maxFailures {
			c.state = domain.StatePaused
			if c.reporter != nil {
				c.reporter.EnforcementPaused(c.failures, err)
			}
		} else {
			c.state = domain.StateMonitoring
		}
		return true, err
	}

	c.failures = 0
	c.state = domain.StateMonitoring
	c.logger.Info("target mode applied", zap.String("mode", c.target.String()))
	return true, nil
}
