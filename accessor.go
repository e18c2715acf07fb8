package aside

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	c "github.com/oslokit/aside/codec"
	"github.com/oslokit/aside/internal/singleflight"
	"github.com/oslokit/aside/internal/util"
	"github.com/oslokit/aside/internal/wire"
	pr "github.com/oslokit/aside/provider"
	src "github.com/oslokit/aside/source"
)

const (
	defaultTTL            = 5 * time.Minute
	defaultJitter         = 0.10
	defaultRefreshTimeout = 30 * time.Second
)

type accessor[V any] struct {
	ns       string
	provider pr.Provider
	source   src.Source[V]
	codec    c.Codec[V]

	log     Logger
	metrics Metrics
	hooks   Hooks

	enabled bool

	ttl            time.Duration
	jitter         float64
	negativeTTL    time.Duration
	staleWindow    time.Duration
	refreshTimeout time.Duration

	flight singleflight.Group[string, V]

	mu         sync.Mutex
	closed     bool
	refreshing map[string]struct{} // keys with a background refresh in flight
	refreshes  sync.WaitGroup
}

func newAccessor[V any](opts Options[V]) (*accessor[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("aside: provider is required")
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("aside: source is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("aside: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("aside: namespace is required")
	}

	a := &accessor[V]{
		ns:         opts.Namespace,
		provider:   opts.Provider,
		source:     opts.Source,
		codec:      opts.Codec,
		enabled:    !opts.Disabled,
		refreshing: make(map[string]struct{}),
	}

	// defaults
	a.log = coalesce[Logger](opts.Logger, NopLogger{})
	a.metrics = coalesce[Metrics](opts.Metrics, NoopMetrics{})
	a.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	a.ttl = coalesce(opts.TTL, defaultTTL)
	a.negativeTTL = opts.NegativeTTL
	a.staleWindow = opts.StaleWhileRevalidate
	a.refreshTimeout = coalesce(opts.RefreshTimeout, defaultRefreshTimeout)

	switch {
	case opts.TTLJitter < 0:
		a.jitter = 0
	case opts.TTLJitter == 0:
		a.jitter = defaultJitter
	default:
		a.jitter = opts.TTLJitter
	}

	return a, nil
}

func (a *accessor[V]) Enabled() bool { return a.enabled }

// Close waits for in-flight background refreshes (respecting ctx) and then
// releases the provider.
func (a *accessor[V]) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.refreshes.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return a.provider.Close(ctx)
}

func (a *accessor[V]) Get(ctx context.Context, key string) (V, Origin, error) {
	var zero V
	if key == "" {
		return zero, 0, ErrEmptyKey
	}
	if !a.enabled {
		return a.fetchShared(ctx, key)
	}

	k := a.storageKey(key)
	raw, ok, err := a.provider.Get(ctx, k)
	if err != nil {
		// Cache outage: serve from the Source instead of failing the read.
		a.metrics.Degraded("get")
		a.hooks.Degraded("get", k, err)
		a.log.Warn("provider get failed; degrading to source", Fields{"key": key, "err": err})
		return a.fetchShared(ctx, key)
	}
	if ok {
		now := time.Now().UnixNano()
		ent, derr := wire.Decode(raw)
		switch {
		case derr != nil:
			a.selfHeal(ctx, k, "corrupt")
		case ent.Negative:
			if now <= ent.FreshUntil {
				a.metrics.NegativeHit()
				return zero, FromCache, ErrNotFound
			}
			// marker outlived its window (provider without per-entry TTL); refill
		default:
			v, cerr := a.codec.Decode(ent.Payload)
			if cerr != nil {
				a.selfHeal(ctx, k, "value_decode")
				break
			}
			if now <= ent.FreshUntil {
				a.metrics.Hit()
				return v, FromCache, nil
			}
			if a.staleWindow > 0 && now <= ent.FreshUntil+int64(a.staleWindow) {
				a.metrics.StaleServe()
				a.revalidate(ctx, key)
				return v, FromCache, nil
			}
			// expired in place; fall through to a fill
		}
	}

	a.metrics.Miss()
	return a.fetchShared(ctx, key)
}

func (a *accessor[V]) Invalidate(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !a.enabled {
		return nil
	}
	k := a.storageKey(key)
	if err := a.provider.Del(ctx, k); err != nil {
		a.metrics.Degraded("del")
		a.hooks.Degraded("del", k, err)
		return &InvalidateError{Key: key, DelErr: err}
	}
	a.log.Debug("invalidated key", Fields{"key": key})
	return nil
}

// fetchShared funnels a miss through the single-flight registry: the first
// caller for the key fetches, everyone else waits on the shared result.
func (a *accessor[V]) fetchShared(ctx context.Context, key string) (V, Origin, error) {
	v, shared, err := a.flight.Do(ctx, key, func() (V, error) {
		return a.fill(ctx, key)
	})
	if shared {
		a.metrics.SharedFill()
	}
	if err != nil {
		var zero V
		return zero, FromSource, err
	}
	return v, FromSource, nil
}

// fill performs the one real Source fetch for key and writes the outcome
// back to the provider. Runs inside the single-flight leader.
func (a *accessor[V]) fill(ctx context.Context, key string) (V, error) {
	var zero V
	v, err := a.source.Fetch(ctx, key)
	if errors.Is(err, src.ErrNotFound) {
		a.metrics.Fill(FillNotFound)
		if a.enabled && a.negativeTTL > 0 {
			until := time.Now().Add(a.negativeTTL).UnixNano()
			a.store(ctx, key, wire.EncodeNegative(until), a.negativeTTL, true)
		}
		return zero, ErrNotFound
	}
	if err != nil {
		// Never cached; every waiter fails independently and may retry.
		a.metrics.Fill(FillError)
		return zero, &SourceError{Key: key, Err: err}
	}

	a.metrics.Fill(FillSuccess)
	if a.enabled {
		payload, cerr := a.codec.Encode(v)
		if cerr != nil {
			// The value is still good for the callers; it just cannot be cached.
			a.log.Error("encode failed; value not cached", Fields{"key": key, "err": cerr})
			return v, nil
		}
		ttl := util.Jitter(a.ttl, a.jitter)
		b := wire.EncodeValue(time.Now().Add(ttl).UnixNano(), payload)
		a.store(ctx, key, b, ttl+a.staleWindow, false)
	}
	return v, nil
}

// store writes an envelope best-effort; a provider fault degrades, it never
// fails the read that triggered it.
func (a *accessor[V]) store(ctx context.Context, key string, b []byte, ttl time.Duration, negative bool) {
	k := a.storageKey(key)
	ok, err := a.provider.Set(ctx, k, b, int64(len(b)), ttl)
	if err != nil {
		a.metrics.Degraded("set")
		a.hooks.Degraded("set", k, err)
		a.log.Warn("provider set failed", Fields{"key": key, "err": err})
		return
	}
	if !ok {
		a.hooks.SetRejected(k, negative)
		a.log.Debug("set rejected by provider (pressure)", Fields{"key": key})
	}
}

// revalidate kicks off a background refresh for a stale-served key. At most
// one refresh per key runs at a time; a concurrent miss-path fill for the
// same key coalesces with it through the single-flight registry.
func (a *accessor[V]) revalidate(ctx context.Context, key string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	if _, busy := a.refreshing[key]; busy {
		a.mu.Unlock()
		return
	}
	a.refreshing[key] = struct{}{}
	a.refreshes.Add(1)
	a.mu.Unlock()

	// Detach from the request's deadline; a short caller timeout must not
	// poison the refresh.
	rctx := context.WithoutCancel(ctx)
	go func() {
		defer a.refreshes.Done()
		defer func() {
			a.mu.Lock()
			delete(a.refreshing, key)
			a.mu.Unlock()
		}()

		rctx, cancel := context.WithTimeout(rctx, a.refreshTimeout)
		defer cancel()

		_, _, err := a.flight.Do(rctx, key, func() (V, error) {
			return a.fill(rctx, key)
		})
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			// Gone at the origin. fill already planted a negative marker when
			// configured; otherwise drop the stale value now.
			if a.negativeTTL <= 0 {
				if derr := a.provider.Del(rctx, a.storageKey(key)); derr != nil {
					a.hooks.Degraded("del", a.storageKey(key), derr)
				}
			}
		default:
			a.hooks.RefreshFailed(key, err)
			a.log.Warn("background refresh failed; stale entry kept until retention lapses",
				Fields{"key": key, "err": err})
		}
	}()
}

// selfHeal drops an unreadable entry so the next read refills it.
func (a *accessor[V]) selfHeal(ctx context.Context, storageKey, reason string) {
	if err := a.provider.Del(ctx, storageKey); err != nil {
		a.hooks.Degraded("del", storageKey, err)
		return
	}
	a.hooks.SelfHeal(storageKey, reason)
}

func (a *accessor[V]) storageKey(userKey string) string {
	// isolate by namespace
	return "val:" + a.ns + ":" + userKey
}
