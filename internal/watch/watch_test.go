package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_TicksUntilCancelled(t *testing.T) {
	var n atomic.Int32
	w := New(20*time.Millisecond, func(context.Context) error {
		n.Add(1)
		return errors.New("failures do not stop the watch")
	}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.Load() < 2 {
		t.Fatalf("expected repeated ticks, got %d", n.Load())
	}
}

func TestWatcher_DropsOverlappingTick(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var n atomic.Int32
	w := New(time.Second, func(context.Context) error {
		n.Add(1)
		close(entered)
		<-release
		return nil
	}, nil)
	done := make(chan struct{})
	go func() {
		w.tick(context.Background())
		close(done)
	}()
	<-entered
	w.tick(context.Background())
	close(release)
	<-done
	if n.Load() != 1 {
		t.Fatalf("overlapping tick must be dropped, ran %d times", n.Load())
	}
}

func TestWatcher_InvalidInterval(t *testing.T) {
	w := New(0, func(context.Context) error { return nil }, nil)
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
