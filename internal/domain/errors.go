package domain

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by the instance lock when another resguard
// process owns the pidfile.
var ErrAlreadyRunning = errors.New("another resguard instance is already running")

// ErrPaused is returned by the runner when the process shuts down while
// enforcement is paused after repeated apply failures.
var ErrPaused = errors.New("enforcement paused after repeated apply failures")

// ConfigError describes an invalid or missing configuration value.
// Fatal at startup: the engine never starts with a partially valid target.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// ReadError wraps a transient failure to query the current display mode.
// Never fatal alone; the loop treats the tick as "unknown state, no action".
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read display mode: %v", e.Cause)
}

func (e *ReadError) Unwrap() error { return e.Cause }

// ApplyError wraps a transient failure to set the display mode.
// Counted toward the consecutive-failure threshold, individually non-fatal.
type ApplyError struct {
	Reason string
	Cause  error
}

func (e *ApplyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("apply display mode: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("apply display mode: %s", e.Reason)
}

func (e *ApplyError) Unwrap() error { return e.Cause }
