package infra

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.design/x/hotkey"
)

// GlobalHotkey is the manual correction trigger: a system-wide key
// combination that fires an event on each activation. Events are coalesced
// into a 1-buffered channel; mashing the combination during an in-flight
// correction produces a single pending request, never a backlog.
type GlobalHotkey struct {
	binding Binding
	logger  *zap.Logger

	hk       *hotkey.Hotkey
	events   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewGlobalHotkey creates an unregistered trigger for the given binding.
func NewGlobalHotkey(binding Binding, logger *zap.Logger) *GlobalHotkey {
	return &GlobalHotkey{
		binding: binding,
		logger:  logger,
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start registers the OS-level hook and begins forwarding activations.
func (g *GlobalHotkey) Start(ctx context.Context) error {
	g.hk = hotkey.New(g.binding.Modifiers(), g.binding.Key())
	if err := g.hk.Register(); err != nil {
		return fmt.Errorf("register global hotkey %s: %w", g.binding.Normalized(), err)
	}

	g.logger.Info("global hotkey registered", zap.String("binding", g.binding.Normalized()))
	go g.listen(ctx)
	return nil
}

func (g *GlobalHotkey) listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-g.done:
			return
		case <-g.hk.Keydown():
			select {
			case g.events <- struct{}{}:
			default:
				// An activation is already pending; coalesce.
			}
		}
	}
}

// Events returns the activation channel.
func (g *GlobalHotkey) Events() <-chan struct{} {
	return g.events
}

// Stop unregisters the OS hook. Safe to call more than once; the hook never
// outlives the process.
func (g *GlobalHotkey) Stop() {
	g.stopOnce.Do(func() {
		close(g.done)
		if g.hk != nil {
			if err := g.hk.Unregister(); err != nil {
				g.logger.Warn("failed to unregister hotkey", zap.Error(err))
			}
		}
	})
}
