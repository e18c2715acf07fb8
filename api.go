package aside

import (
	"context"
	"time"

	c "github.com/oslokit/aside/codec"
	pr "github.com/oslokit/aside/provider"
	src "github.com/oslokit/aside/source"
)

// Origin reports where a Get result came from.
type Origin uint8

const (
	// FromCache - served from the Provider without touching the Source.
	// Includes stale-while-revalidate serves and negative-cache hits.
	FromCache Origin = iota + 1
	// FromSource - filled by a Source fetch (own or joined single-flight).
	FromSource
)

func (o Origin) String() string {
	switch o {
	case FromCache:
		return "cache"
	case FromSource:
		return "source"
	default:
		return "unknown"
	}
}

// Accessor is the high-level, provider-agnostic cache-aside read-through API.
// V is the caller's value type. Serialization is handled by a pluggable Codec[V].
type Accessor[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Get returns the value for key, loading it from the Source on miss.
	// Concurrent misses for the same key coalesce into one Source fetch.
	// Returns ErrNotFound when the Source confirms absence (possibly served
	// from the negative cache), or a *SourceError on transient failure.
	Get(ctx context.Context, key string) (v V, origin Origin, err error)

	// Invalidate removes key from the cache. The next Get refills from the Source.
	Invalidate(ctx context.Context, key string) error
}

// Options tune the behavior of the accessor.
// Namespace, Provider, Source and Codec are required; others have defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "user", "profile", "order"
	Provider  pr.Provider
	Source    src.Source[V]
	Codec     c.Codec[V]

	Logger  Logger  // if nil, NopLogger is used
	Metrics Metrics // if nil, NoopMetrics is used
	Hooks   Hooks   // if nil, NopHooks is used

	TTL time.Duration // freshness window; 0 => 5m
	// TTLJitter randomizes each entry's freshness window by ±TTL*TTLJitter so
	// entries filled together do not expire together. 0 => 0.10; negative => off.
	TTLJitter float64
	// NegativeTTL caches Source not-found answers for this long. 0 => disabled.
	NegativeTTL time.Duration
	// StaleWhileRevalidate keeps an entry readable for this long past its
	// freshness window; a stale read is served immediately and refreshed in
	// the background. 0 => disabled.
	StaleWhileRevalidate time.Duration
	// RefreshTimeout bounds a background revalidation fetch. 0 => 30s.
	RefreshTimeout time.Duration

	// Disabled bypasses the Provider entirely; reads go to the Source but
	// stay single-flighted. Default false (enabled).
	Disabled bool
}

func New[V any](opts Options[V]) (Accessor[V], error) {
	return newAccessor[V](opts)
}
