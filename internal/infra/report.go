package infra

import (
	"fmt"

	"go.uber.org/zap"
)

// ConsoleReporter surfaces the paused condition on the attached console.
// Used in foreground mode.
type ConsoleReporter struct {
	logger *zap.Logger
}

// NewConsoleReporter creates the foreground reporter.
func NewConsoleReporter(logger *zap.Logger) *ConsoleReporter {
	return &ConsoleReporter{logger: logger}
}

// EnforcementPaused prints the terminal condition and how to recover.
func (r *ConsoleReporter) EnforcementPaused(failures int, lastErr error) {
	r.logger.Error("enforcement paused",
		zap.Int("consecutive_failures", failures),
		zap.Error(lastErr))
	fmt.Printf("\nresguard: enforcement PAUSED after %d consecutive apply failures.\n", failures)
	fmt.Printf("Last error: %v\n", lastErr)
	fmt.Println("Press the configured hotkey to retry, or restart resguard.")
}

// SystemReporter surfaces the paused condition without a console.
// Used in background mode: logs the condition and raises an OS notification
// where the platform supports one.
type SystemReporter struct {
	logger *zap.Logger
}

// NewSystemReporter creates the background reporter.
func NewSystemReporter(logger *zap.Logger) *SystemReporter {
	return &SystemReporter{logger: logger}
}

// EnforcementPaused logs the terminal condition and notifies the user.
func (r *SystemReporter) EnforcementPaused(failures int, lastErr error) {
	r.logger.Error("enforcement paused",
		zap.Int("consecutive_failures", failures),
		zap.Error(lastErr))

	msg := fmt.Sprintf(
		"resguard paused after %d consecutive failures to set the display mode.\nLast error: %v\nPress the configured hotkey to retry.",
		failures, lastErr)
	notifyUser("resguard", msg)
}
