package daemon

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/resguard/resguard/internal/config"
	"github.com/resguard/resguard/internal/domain"
	"github.com/resguard/resguard/internal/infra"
	"github.com/resguard/resguard/internal/usecase"
)

// Options selects how the daemon runs. Background mode is the detached
// child: it logs to a file and reports the paused condition through the OS
// instead of the console.
type Options struct {
	Background bool
}

const stopTimeout = 15 * time.Second

// Run composes the enforcement engine and blocks until SIGINT/SIGTERM.
//
// Returns domain.ErrAlreadyRunning when another instance holds the lock, and
// domain.ErrPaused when the engine was still paused at shutdown so the caller
// can map the condition to an exit code.
func Run(cfg *config.Config, opts Options) error {
	logger, err := NewLogger(opts.Background)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var corrector *usecase.Corrector

	app := fx.New(
		fx.Supply(cfg, logger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			func(log *zap.Logger) (domain.ModeGateway, error) {
				return infra.NewGateway(log)
			},
			func(c *config.Config, log *zap.Logger) (domain.TriggerSource, error) {
				binding, err := infra.ParseBinding(c.Hotkey)
				if err != nil {
					return nil, &domain.ConfigError{Field: "hotkey.combination", Reason: err.Error()}
				}
				return infra.NewGlobalHotkey(binding, log), nil
			},
			func(log *zap.Logger) domain.Reporter {
				if opts.Background {
					return infra.NewSystemReporter(log)
				}
				return infra.NewConsoleReporter(log)
			},
			func(c *config.Config, log *zap.Logger) *usecase.DriftDetector {
				return usecase.NewDriftDetector(c.Target, c.DebounceCount, log)
			},
			func(c *config.Config, gw domain.ModeGateway, rep domain.Reporter, log *zap.Logger) *usecase.Corrector {
				return usecase.NewCorrector(gw, c.Target, c.MaxFailures, rep, log)
			},
			func(c *config.Config, gw domain.ModeGateway, det *usecase.DriftDetector, cor *usecase.Corrector, trg domain.TriggerSource, log *zap.Logger) *Watcher {
				return NewWatcher(WatcherConfig{PollInterval: c.PollInterval}, gw, det, cor, trg, log)
			},
			infra.NewInstanceLock,
		),
		fx.Populate(&corrector),
		fx.Invoke(registerHooks),
	)
	if err := app.Err(); err != nil {
		return unwrapFxError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return unwrapFxError(err)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return unwrapFxError(err)
	}

	if corrector != nil && corrector.State() == domain.StatePaused {
		return domain.ErrPaused
	}
	return nil
}

// registerHooks wires the instance lock, the hotkey hook, and the loop
// goroutine into the fx lifecycle. The loop gets its own context: the one fx
// passes to OnStart is scoped to startup and would cancel the loop the moment
// startup finished.
func registerHooks(
	lc fx.Lifecycle,
	lock *infra.InstanceLock,
	trigger domain.TriggerSource,
	watcher *Watcher,
	logger *zap.Logger,
) {
	loopCtx, loopCancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := lock.Acquire(); err != nil {
				return err
			}
			if err := trigger.Start(loopCtx); err != nil {
				lock.Release()
				return err
			}
			go func() {
				defer close(loopDone)
				watcher.Run(loopCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			loopCancel()
			trigger.Stop()
			select {
			case <-loopDone:
			case <-ctx.Done():
				logger.Warn("enforcement loop did not stop in time")
			}
			return lock.Release()
		},
	})
}

// unwrapFxError strips fx's wrapping so callers can match domain sentinels
// with errors.Is.
func unwrapFxError(err error) error {
	if errors.Is(err, domain.ErrAlreadyRunning) {
		return domain.ErrAlreadyRunning
	}
	var cfgErr *domain.ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr
	}
	return err
}
