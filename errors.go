package aside

import (
	"errors"
	"fmt"

	"github.com/oslokit/aside/source"
)

// ErrNotFound is returned when the Source confirms the key is absent.
// It aliases source.ErrNotFound so Source implementations and callers
// agree on one sentinel. A negative-cache hit returns it as well.
var ErrNotFound = source.ErrNotFound

// ErrEmptyKey rejects Get/Invalidate calls with an empty key.
var ErrEmptyKey = errors.New("aside: empty key")

// SourceError wraps a transient Source failure. It is never cached; every
// waiter of the failed fill receives it and may retry independently.
type SourceError struct {
	Key string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source fetch %q failed: %v", e.Key, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// InvalidateError reports a failed cache delete. The entry may still be
// resident until its TTL passes.
type InvalidateError struct {
	Key    string
	DelErr error
}

func (e *InvalidateError) Error() string {
	return fmt.Sprintf("invalidate %q: delete failed: %v", e.Key, e.DelErr)
}

func (e *InvalidateError) Unwrap() error { return e.DelErr }
