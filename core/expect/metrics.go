package expect

import "github.com/jsilhan/seqmock/core/metrics"

// Dispatch outcome labels reported to Metrics.
const (
	OutcomeMatched       = "matched"
	OutcomeMismatch      = "mismatch"
	OutcomeExhausted     = "exhausted"
	OutcomeCallbackError = "callback_error"
)

// Metrics is the instrumentation hook for dispatch activity.
// All methods are called from the dispatching goroutine.
type Metrics interface {
	// DispatchDuration times one Dispatch call end to end.
	DispatchDuration() metrics.Timer
	// Dispatched records one dispatch outcome for a message type.
	Dispatched(msgType string, outcome string)
}

// nopMetrics is a no-op implementation of Metrics.
type nopMetrics struct{}

func (nopMetrics) DispatchDuration() metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) Dispatched(string, string)       {}

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
