// Package source defines the authoritative-store abstraction read through
// by the accessor. A Source is the slower system of record (database,
// table service, remote API); the accessor calls it at most once per key
// under concurrent misses.
package source

import (
	"context"
	"errors"
)

// ErrNotFound is returned (or wrapped) by a Source when the key is
// confirmed absent. Absence is a definitive answer and may be cached
// negatively; any other error is treated as transient and never cached.
var ErrNotFound = errors.New("source: not found")

// Source fetches authoritative values. Implementations must be safe for
// concurrent use and should honor ctx deadlines; the accessor does not
// retry on their behalf.
type Source[V any] interface {
	// Fetch returns the value for key, ErrNotFound when the key is
	// confirmed absent, or any other error for transient failures.
	Fetch(ctx context.Context, key string) (V, error)
}

// Func adapts a plain function to the Source interface.
type Func[V any] func(ctx context.Context, key string) (V, error)

func (f Func[V]) Fetch(ctx context.Context, key string) (V, error) { return f(ctx, key) }
