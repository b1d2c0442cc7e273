// Package metrics defines the instrumentation hooks for the stage engine and
// a Prometheus-backed implementation.
package metrics

// Metrics receives counters from the stage engine. Implementations must be
// safe for concurrent use.
type Metrics interface {
	// TransitionCompleted records a finished transition with its outcome
	// ("success" or "failure").
	TransitionCompleted(outcome string)

	// SideEffect records one executed side effect by action tag.
	SideEffect(action string)

	// IdempotentReplay records a transition request answered from the
	// idempotency cache.
	IdempotentReplay()
}

// Nop discards all observations. Useful in tests and when metrics are
// disabled.
type Nop struct{}

func (Nop) TransitionCompleted(string) {}
func (Nop) SideEffect(string)          {}
func (Nop) IdempotentReplay()          {}

var _ Metrics = Nop{}
