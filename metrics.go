package aside

// FillOutcome classifies how a Source fetch ended.
type FillOutcome int

const (
	// FillSuccess — the Source returned a value; it was written back.
	FillSuccess FillOutcome = iota
	// FillNotFound — the Source confirmed absence (negative-cacheable).
	FillNotFound
	// FillError — transient Source failure; nothing was cached.
	FillError
)

// Metrics exposes accessor-level observability counters.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit — fresh value served from the Provider.
	Hit()
	// Miss — key absent (or expired) in the Provider; a fill follows.
	Miss()
	// StaleServe — expired-but-retained value served while revalidating.
	StaleServe()
	// NegativeHit — cached not-found marker served.
	NegativeHit()
	// Fill — a Source fetch completed with the given outcome.
	Fill(outcome FillOutcome)
	// SharedFill — a caller joined another caller's in-flight fetch.
	SharedFill()
	// Degraded — a Provider operation failed and was bypassed.
	Degraded(op string)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// Safe for concurrent use; the default when no backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()             {}
func (NoopMetrics) Miss()            {}
func (NoopMetrics) StaleServe()      {}
func (NoopMetrics) NegativeHit()     {}
func (NoopMetrics) Fill(FillOutcome) {}
func (NoopMetrics) SharedFill()      {}
func (NoopMetrics) Degraded(string)  {}

var _ Metrics = NoopMetrics{}
