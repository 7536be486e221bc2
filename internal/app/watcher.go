package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/fqdnledger/internal/domain"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

// DefaultDebounce is how long the watcher waits after the last change to
// the input list before starting a pass.
const DefaultDebounce = 500 * time.Millisecond

// PassRunner runs one ingestion pass. *Pipeline implements it.
type PassRunner interface {
	Run(ctx context.Context) (Result, error)
}

// WatcherConfig contains configuration for watch mode.
type WatcherConfig struct {
	// InputPath is the domain list. Its directory is watched.
	InputPath string

	// Interval between periodic passes.
	Interval time.Duration

	Debounce     time.Duration
	RetryInitial time.Duration
	RetryMax     time.Duration

	// OnPass, if set, is called after every pass from the watch goroutine.
	OnPass func(Result, error)
}

// Watcher runs passes on start, one interval after each periodic pass and
// whenever the input list is rewritten. Passes never overlap; each is still subject to
// the run gate. A failed pass is retried with backoff.
type Watcher struct {
	config    WatcherConfig
	runner    PassRunner
	logger    ports.Logger
	lifecycle *Lifecycle
}

// NewWatcher creates a stopped watcher.
func NewWatcher(config WatcherConfig, runner PassRunner, logger ports.Logger) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.RetryInitial <= 0 {
		config.RetryInitial = DefaultRetryInitial
	}
	if config.RetryMax <= 0 {
		config.RetryMax = DefaultRetryMax
	}
	return &Watcher{
		config:    config,
		runner:    runner,
		logger:    logger,
		lifecycle: NewLifecycle(logger, nil),
	}
}

// State returns the watcher's lifecycle state.
func (w *Watcher) State() State {
	return w.lifecycle.State()
}

// Start begins watching. It returns domain.ErrAlreadyRunning if the
// watcher is not stopped. The first pass runs immediately in the
// background.
func (w *Watcher) Start(ctx context.Context) error {
	if !w.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := w.lifecycle.TransitionTo(StateStarting, "start requested"); err != nil {
		return err
	}
	if w.config.Interval <= 0 {
		_ = w.lifecycle.TransitionTo(StateCrashed, "invalid interval")
		return fmt.Errorf("%w: interval must be positive", domain.ErrInvalidConfig)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		_ = w.lifecycle.TransitionTo(StateCrashed, "watcher setup failed")
		return fmt.Errorf("create fs watcher: %w", err)
	}
	dir := filepath.Dir(w.config.InputPath)
	if err := fsw.Add(dir); err != nil {
		// Periodic passes still run; only change detection is lost.
		w.logger.Warn("cannot watch input directory",
			ports.String("dir", dir),
			ports.Err(err),
		)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.lifecycle.SetCancel(cancel)
	w.lifecycle.Go(func() {
		defer fsw.Close()
		w.loop(ctx, fsw)
	})

	return w.lifecycle.TransitionTo(StateRunning, "started")
}

// Stop cancels the watcher and waits up to ShutdownTimeout for an
// in-flight pass to finish.
func (w *Watcher) Stop() error {
	if !w.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	if err := w.lifecycle.TransitionTo(StateStopping, "stop requested"); err != nil {
		return err
	}
	w.lifecycle.Cancel()

	if err := w.lifecycle.WaitWithTimeout(ShutdownTimeout); err != nil {
		_ = w.lifecycle.TransitionTo(StateCrashed, "shutdown timeout")
		return err
	}
	return w.lifecycle.TransitionTo(StateStopped, "stopped")
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	name := filepath.Base(w.config.InputPath)
	retry := newBackoff(w.config.RetryInitial, w.config.RetryMax)

	debounce := time.NewTimer(w.config.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	retryTimer := time.NewTimer(0)
	retryTimer.Stop()
	defer retryTimer.Stop()

	pass := func(reason string) {
		w.logger.Debug("starting pass", ports.String("trigger", reason))
		res, err := w.runner.Run(ctx)
		if w.config.OnPass != nil {
			w.config.OnPass(res, err)
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := retry.Next()
			w.logger.Error("pass failed, will retry",
				ports.Err(err),
				ports.Duration("retry_in", delay),
			)
			retryTimer.Reset(delay)
			return
		}
		retry.Reset()
		retryTimer.Stop()
	}

	events, errs := fsw.Events, fsw.Errors

	pass("start")

	// Armed only after a pass returns: a periodic pass starts at least
	// Interval after the previous pass started.
	periodic := time.NewTimer(w.config.Interval)
	defer periodic.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(w.config.Debounce)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("fs watcher error", ports.Err(err))

		case <-debounce.C:
			pass("input changed")

		case <-periodic.C:
			pass("interval")
			periodic.Reset(w.config.Interval)

		case <-retryTimer.C:
			pass("retry")
		}
	}
}
