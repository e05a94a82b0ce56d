//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/resguard/resguard/internal/daemon"
	"github.com/resguard/resguard/internal/domain"
	"github.com/resguard/resguard/internal/usecase"
)

var (
	target = domain.DisplayMode{Width: 3840, Height: 2160, ColorDepthBits: 32, RefreshRateHz: 120}
	drift  = domain.DisplayMode{Width: 3840, Height: 2160, ColorDepthBits: 32, RefreshRateHz: 60}
)

// fakeDisplay simulates a display whose mode can be changed underneath the
// engine and that either obeys or rejects apply calls.
type fakeDisplay struct {
	mu       sync.Mutex
	current  domain.DisplayMode
	applyErr error
	applies  int
}

func (d *fakeDisplay) Read(ctx context.Context) (domain.DisplayMode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

func (d *fakeDisplay) Apply(ctx context.Context, mode domain.DisplayMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applies++
	if d.applyErr != nil {
		return d.applyErr
	}
	d.current = mode
	return nil
}

func (d *fakeDisplay) setCurrent(mode domain.DisplayMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = mode
}

func (d *fakeDisplay) setApplyErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applyErr = err
}

func (d *fakeDisplay) applyCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applies
}

type fakeHotkey struct {
	events chan struct{}
}

func (f *fakeHotkey) Start(ctx context.Context) error { return nil }
func (f *fakeHotkey) Stop()                           {}
func (f *fakeHotkey) Events() <-chan struct{}         { return f.events }

type recordingReporter struct {
	mu     sync.Mutex
	paused int
}

func (r *recordingReporter) EnforcementPaused(failures int, lastErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused++
}

func (r *recordingReporter) pausedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

var _ = Describe("Enforcement engine", func() {
	var (
		display   *fakeDisplay
		hotkey    *fakeHotkey
		reporter  *recordingReporter
		corrector *usecase.Corrector
		watcher   *daemon.Watcher
		cancel    context.CancelFunc
		done      chan error
	)

	startEngine := func(debounce, maxFailures int) {
		logger := zap.NewNop()
		detector := usecase.NewDriftDetector(target, debounce, logger)
		corrector = usecase.NewCorrector(display, target, maxFailures, reporter, logger)
		watcher = daemon.NewWatcher(
			daemon.WatcherConfig{PollInterval: 5 * time.Millisecond},
			display, detector, corrector, hotkey, logger,
		)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		go func() { done <- watcher.Run(ctx) }()
	}

	BeforeEach(func() {
		display = &fakeDisplay{current: target}
		hotkey = &fakeHotkey{events: make(chan struct{}, 1)}
		reporter = &recordingReporter{}
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

	Context("when the display drifts and stays drifted", func() {
		It("corrects it after the debounce threshold", func() {
			startEngine(2, 3)

			display.setCurrent(drift)

			Eventually(func() domain.DisplayMode {
				mode, _ := display.Read(context.Background())
				return mode
			}).Should(Equal(target))
			Expect(display.applyCount()).To(Equal(1))
		})
	})

	Context("when the display flickers for a single reading", func() {
		It("does not correct", func() {
			startEngine(3, 3)

			display.setCurrent(drift)
			time.Sleep(8 * time.Millisecond)
			display.setCurrent(target)

			Consistently(display.applyCount, "100ms").Should(Equal(0))
		})
	})

	Context("when the hotkey fires", func() {
		It("corrects immediately, bypassing debounce", func() {
			startEngine(1000, 3)

			display.setCurrent(drift)
			hotkey.events <- struct{}{}

			Eventually(func() domain.DisplayMode {
				mode, _ := display.Read(context.Background())
				return mode
			}).Should(Equal(target))
		})
	})

	Context("when every apply fails", func() {
		It("pauses after the threshold and reports once", func() {
			display.setApplyErr(errors.New("DISP_CHANGE_FAILED"))
			startEngine(1, 3)

			display.setCurrent(drift)

			Eventually(corrector.State).Should(Equal(domain.StatePaused))
			Expect(display.applyCount()).To(Equal(3))
			Expect(reporter.pausedCount()).To(Equal(1))

			Consistently(display.applyCount, "50ms").Should(Equal(3))
		})

		It("recovers via the hotkey once the display cooperates again", func() {
			display.setApplyErr(errors.New("DISP_CHANGE_FAILED"))
			startEngine(1, 2)

			display.setCurrent(drift)
			Eventually(corrector.State).Should(Equal(domain.StatePaused))

			display.setApplyErr(nil)
			hotkey.events <- struct{}{}

			Eventually(corrector.State).Should(Equal(domain.StateMonitoring))
			Eventually(func() domain.DisplayMode {
				mode, _ := display.Read(context.Background())
				return mode
			}).Should(Equal(target))
			Expect(corrector.Failures()).To(Equal(0))
		})
	})
})
