package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements Metrics with prometheus counters registered on the
// provided registerer.
type Prometheus struct {
	transitions *prometheus.CounterVec
	sideEffects *prometheus.CounterVec
	replays     prometheus.Counter
}

// NewPrometheus registers the stage-engine collectors and returns the
// implementation.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podops",
			Subsystem: "stage_engine",
			Name:      "transitions_total",
			Help:      "Stage transitions by outcome.",
		}, []string{"outcome"}),
		sideEffects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podops",
			Subsystem: "stage_engine",
			Name:      "side_effects_total",
			Help:      "Side effects executed by band handlers, by action.",
		}, []string{"action"}),
		replays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "podops",
			Subsystem: "stage_engine",
			Name:      "idempotent_replays_total",
			Help:      "Transition requests answered from the idempotency cache.",
		}),
	}
}

func (p *Prometheus) TransitionCompleted(outcome string) {
	p.transitions.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) SideEffect(action string) {
	p.sideEffects.WithLabelValues(action).Inc()
}

func (p *Prometheus) IdempotentReplay() {
	p.replays.Inc()
}

var _ Metrics = (*Prometheus)(nil)
