// Package watch re-runs a build action on a fixed interval.
package watch

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"
	"go.uber.org/zap"
)

// Watcher calls Tick every Interval until its context ends. A tick that
// fires while the previous one is still running is dropped.
type Watcher struct {
	Interval time.Duration
	Tick     func(ctx context.Context) error
	Log      *zap.Logger

	running *abool.AtomicBool
}

// New returns a watcher. A nil log discards output.
func New(interval time.Duration, tick func(ctx context.Context) error, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{Interval: interval, Tick: tick, Log: log, running: abool.New()}
}

// Run starts the schedule, with a first tick right away, and blocks until ctx
// is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	if w.running == nil {
		w.running = abool.New()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.Interval),
		gocron.NewTask(w.tick, ctx),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return err
	}
	w.Log.Info("watching", zap.Duration("interval", w.Interval))
	s.Start()
	<-ctx.Done()
	return s.Shutdown()
}

func (w *Watcher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !w.running.SetToIf(false, true) {
		w.Log.Debug("previous run still active, tick skipped")
		return
	}
	defer w.running.UnSet()
	if err := w.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.Log.Error("watched run failed", zap.Error(err))
	}
}
