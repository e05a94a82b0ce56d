//go:build !linux && !windows

// Package infra implements infrastructure concerns (display gateway, hotkey,
// instance lock, reporting).
package infra

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/resguard/resguard/internal/domain"
)

// StubGateway is a placeholder for platforms without a display primitive yet.
// Reads fail, so the loop observes "unknown state" and never blind-applies.
type StubGateway struct {
	logger *zap.Logger
}

// NewGateway creates a stub gateway for unsupported platforms.
func NewGateway(logger *zap.Logger) (domain.ModeGateway, error) {
	logger.Warn("display mode control is not implemented for this platform")
	return &StubGateway{logger: logger}, nil
}

// Read reports the platform as unsupported.
func (g *StubGateway) Read(ctx context.Context) (domain.DisplayMode, error) {
	return domain.DisplayMode{}, &domain.ReadError{
		Cause: fmt.Errorf("display mode query not implemented for this platform"),
	}
}

// Apply reports the platform as unsupported.
func (g *StubGateway) Apply(ctx context.Context, mode domain.DisplayMode) error {
	return &domain.ApplyError{Reason: "display mode change not implemented for this platform"}
}
