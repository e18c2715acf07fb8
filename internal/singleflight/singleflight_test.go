package singleflight

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// Concurrent callers for one key share a single execution of fn.
func TestDoCoalesces(t *testing.T) {
	var g Group[string, string]
	var calls int64

	ctx := context.Background()
	var eg errgroup.Group
	for i := 0; i < 32; i++ {
		eg.Go(func() error {
			v, _, err := g.Do(ctx, "k", func() (string, error) {
				atomic.AddInt64(&calls, 1)
				time.Sleep(5 * time.Millisecond)
				return "v", nil
			})
			if err != nil || v != "v" {
				return errors.New("bad result")
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("fn must run exactly once, got %d", got)
	}
}

// Different keys never contend: both leaders run their own fn.
func TestDoIndependentKeys(t *testing.T) {
	var g Group[string, int]
	ctx := context.Background()

	var calls int64
	var eg errgroup.Group
	for _, k := range []string{"a", "b"} {
		k := k
		eg.Go(func() error {
			_, _, err := g.Do(ctx, k, func() (int, error) {
				atomic.AddInt64(&calls, 1)
				return 0, nil
			})
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Fatalf("each key runs its own fn, got %d calls", got)
	}
}

// A cancelled follower detaches immediately; the leader's fn keeps running
// and its result is still published.
func TestFollowerDetachOnCancel(t *testing.T) {
	var g Group[string, string]
	started := make(chan struct{})
	release := make(chan struct{})

	leaderDone := make(chan error, 1)
	go func() {
		_, _, err := g.Do(context.Background(), "k", func() (string, error) {
			close(started)
			<-release
			return "v", nil
		})
		leaderDone <- err
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, shared, err := g.Do(ctx, "k", func() (string, error) {
		t.Error("follower must not run fn")
		return "", nil
	})
	if !shared || !errors.Is(err, context.Canceled) {
		t.Fatalf("follower: shared=%v err=%v", shared, err)
	}

	close(release)
	if err := <-leaderDone; err != nil {
		t.Fatalf("leader: %v", err)
	}
}

// The in-flight marker is dropped even when fn fails, so retries run fn again.
func TestErrorDoesNotStick(t *testing.T) {
	var g Group[string, string]
	ctx := context.Background()
	boom := errors.New("boom")

	if _, _, err := g.Do(ctx, "k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("first call: %v", err)
	}
	v, shared, err := g.Do(ctx, "k", func() (string, error) { return "ok", nil })
	if err != nil || shared || v != "ok" {
		t.Fatalf("retry: v=%q shared=%v err=%v", v, shared, err)
	}
}
