// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"fmt"
	"time"
)

// DisplayMode is the value type for a display configuration.
// Immutable once constructed; two modes are equal iff all four fields match.
type DisplayMode struct {
	Width          uint
	Height         uint
	ColorDepthBits uint
	RefreshRateHz  uint
}

// Equal reports exact field-by-field equality. There is no tolerance at this
// layer; debounce policy lives in the drift detector, not in the value type.
func (m DisplayMode) Equal(other DisplayMode) bool {
	return m.Width == other.Width &&
		m.Height == other.Height &&
		m.ColorDepthBits == other.ColorDepthBits &&
		m.RefreshRateHz == other.RefreshRateHz
}

// String renders the mode in the form "3840x2160@120Hz 32bpp".
func (m DisplayMode) String() string {
	return fmt.Sprintf("%dx%d@%dHz %dbpp",
		m.Width, m.Height, m.RefreshRateHz, m.ColorDepthBits)
}

// Observation is the result of a single gateway read.
// Recreated every poll tick and discarded; never stored.
type Observation struct {
	Mode    DisplayMode
	ReadErr error
	At      time.Time
}

// Failed reports whether the read itself failed (unknown display state).
func (o Observation) Failed() bool {
	return o.ReadErr != nil
}

// State identifies the enforcement state machine position.
type State string

const (
	// StateIdle means the loop has not started yet.
	StateIdle State = "idle"
	// StateMonitoring means polling with no correction in flight.
	StateMonitoring State = "monitoring"
	// StateCorrecting means an apply call is in flight.
	StateCorrecting State = "correcting"
	// StatePaused means the failure threshold was reached; automatic
	// corrections stop until a manual trigger resets the counter.
	StatePaused State = "paused"
)

// Trigger identifies what requested a correction.
type Trigger string

const (
	// TriggerPoll is a correction requested by the poll loop.
	TriggerPoll Trigger = "poll"
	// TriggerHotkey is a correction requested by the global hotkey.
	TriggerHotkey Trigger = "hotkey"
)
