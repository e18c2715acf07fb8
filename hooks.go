package aside

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the accessor calls them
// on hot paths. Wrap with hooks/async to fan out to slow sinks.
type Hooks interface {
	// A cached entry was deleted by the accessor on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	SetRejected(storageKey string, negative bool)

	// A Provider operation failed and the accessor degraded around it.
	// op ∈ {"get", "set", "del"}
	Degraded(op, storageKey string, err error)

	// A background stale-while-revalidate fetch failed; the stale entry
	// remains until the retention window lapses.
	RefreshFailed(key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)        {}
func (NopHooks) SetRejected(string, bool)       {}
func (NopHooks) Degraded(string, string, error) {}
func (NopHooks) RefreshFailed(string, error)    {}
