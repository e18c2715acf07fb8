package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oslokit/aside"
)

// Adapter implements aside.Metrics and exports Prometheus counters.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	stale     prometheus.Counter
	negatives prometheus.Counter
	fills     *prometheus.CounterVec
	shared    prometheus.Counter
	degraded  *prometheus.CounterVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Fresh values served from the cache",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Reads that required a source fill",
			ConstLabels: constLabels,
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "stale_serves_total",
			Help:        "Stale values served while revalidating",
			ConstLabels: constLabels,
		}),
		negatives: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "negative_hits_total",
			Help:        "Cached not-found answers served",
			ConstLabels: constLabels,
		}),
		fills: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "fills_total",
				Help:        "Source fetches by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		shared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "shared_fills_total",
			Help:        "Callers that joined an in-flight fetch",
			ConstLabels: constLabels,
		}),
		degraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "degraded_total",
				Help:        "Cache operations bypassed after a provider fault",
				ConstLabels: constLabels,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(a.hits, a.misses, a.stale, a.negatives, a.fills, a.shared, a.degraded)
	return a
}

func (a *Adapter) Hit()         { a.hits.Inc() }
func (a *Adapter) Miss()        { a.misses.Inc() }
func (a *Adapter) StaleServe()  { a.stale.Inc() }
func (a *Adapter) NegativeHit() { a.negatives.Inc() }
func (a *Adapter) SharedFill()  { a.shared.Inc() }

// Fill increments the fill counter with an outcome label.
func (a *Adapter) Fill(o aside.FillOutcome) {
	a.fills.WithLabelValues(outcome(o)).Inc()
}

// Degraded increments the degradation counter with the bypassed op.
func (a *Adapter) Degraded(op string) {
	a.degraded.WithLabelValues(op).Inc()
}

// outcome maps FillOutcome to a stable label value.
func outcome(o aside.FillOutcome) string {
	switch o {
	case aside.FillSuccess:
		return "success"
	case aside.FillNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// Compile-time check: ensure Adapter implements aside.Metrics.
var _ aside.Metrics = (*Adapter)(nil)
