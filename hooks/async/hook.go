// Package asynchook decouples hook sinks from the accessor's hot path.
// Events are enqueued to a bounded channel and replayed by worker
// goroutines; when the queue is full events are dropped rather than
// blocking a read.
//
//	raw := myHooks{}                  // your aside.Hooks implementation
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	acc, _ := aside.New[User](aside.Options[User]{
//	    Namespace: "user",
//	    Provider:  provider,
//	    Source:    src,
//	    Codec:     codec.JSON[User]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/oslokit/aside"
)

type Hooks struct {
	inner aside.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ aside.Hooks = (*Hooks)(nil)

func New(inner aside.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHeal(k, r string) { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) SetRejected(k string, neg bool) {
	h.try(func() { h.inner.SetRejected(k, neg) })
}
func (h *Hooks) Degraded(op, k string, err error) {
	h.try(func() { h.inner.Degraded(op, k, err) })
}
func (h *Hooks) RefreshFailed(k string, err error) {
	h.try(func() { h.inner.RefreshFailed(k, err) })
}
