package telemetry

// FreshnessState classifies how trustworthy cached telemetry is.
type FreshnessState int

const (
	FreshnessFresh FreshnessState = iota
	FreshnessStaleSoft
	FreshnessStaleHard
)

func (f FreshnessState) String() string {
	switch f {
	case FreshnessFresh:
		return "fresh"
	case FreshnessStaleSoft:
		return "stale_soft"
	case FreshnessStaleHard:
		return "stale_hard"
	default:
		return "unknown"
	}
}

// Worst returns the weaker of two freshness states.
func (f FreshnessState) Worst(other FreshnessState) FreshnessState {
	if other > f {
		return other
	}

	return f
}

// Snapshot is the telemetry visible to one build request. Nil fields were
// never observed and contribute nothing to the fee. Built per request,
// never stored beyond it.
type Snapshot struct {
	ObservedConfirmLatencyP95Ms   *float64       `json:"observedConfirmLatencyP95Ms,omitempty"`
	DAACongestionPct              *float64       `json:"daaCongestionPct,omitempty"`
	ReceiptLagP95Ms               *float64       `json:"receiptLagP95Ms,omitempty"`
	SchedulerCallbackLatencyP95Ms *float64       `json:"schedulerCallbackLatencyP95Ms,omitempty"`
	Freshness                     FreshnessState `json:"-"`
}

// Float64 is a convenience for building snapshot literals.
func Float64(v float64) *float64 {
	return &v
}
