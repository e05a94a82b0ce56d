package domain

import "context"

// ModeGateway abstracts the OS display primitive.
// Implementations: Win32 ChangeDisplaySettings, xrandr on Linux.
type ModeGateway interface {
	// Read returns the current display mode. Must not mutate system state.
	// Failures come back as *ReadError.
	Read(ctx context.Context) (DisplayMode, error)

	// Apply sets the display mode system-wide. Idempotent: applying the
	// already-active mode is a successful no-op. Failures come back as
	// *ApplyError.
	Apply(ctx context.Context, mode DisplayMode) error
}

// TriggerSource emits out-of-band correction requests.
// Implementation: a global hotkey hook.
type TriggerSource interface {
	// Start registers the OS-level hook. It returns once registered;
	// events are delivered asynchronously on Events.
	Start(ctx context.Context) error

	// Stop unregisters the hook. The hook must never outlive the process.
	Stop()

	// Events returns the channel that fires on each activation.
	Events() <-chan struct{}
}

// Reporter surfaces the paused condition to the operator.
// Foreground: console output. Background: OS notification plus log.
type Reporter interface {
	// EnforcementPaused is called exactly once per transition to Paused.
	EnforcementPaused(failures int, lastErr error)
}
