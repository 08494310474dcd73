package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a Collector backed by client_golang counters and gauges.
type Prometheus struct {
	connections prometheus.Counter
	accepted    prometheus.Counter
	rejected    *prometheus.CounterVec
	peers       prometheus.Gauge
	jobs        *prometheus.CounterVec
}

var _ Collector = (*Prometheus)(nil)

// NewPrometheus registers the election collectors on reg.
//
// A nil reg falls back to prometheus.DefaultRegisterer and an empty namespace
// to "condorcet".
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "condorcet"
	}

	p := &Prometheus{
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Connections accepted by the dispatcher.",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ballots_accepted_total",
			Help:      "Ballots recorded into the tally.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ballots_rejected_total",
			Help:      "Vote attempts rejected, by reason.",
		}, []string{"reason"}),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "peers",
			Help:      "Registered peer identities.",
		}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "jobs_total",
			Help:      "Worker pool jobs, by outcome (queued, completed, panicked).",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{p.connections, p.accepted, p.rejected, p.peers, p.jobs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Prometheus) ConnectionAccepted() {
	p.connections.Inc()
}

func (p *Prometheus) BallotAccepted() {
	p.accepted.Inc()
}

func (p *Prometheus) BallotRejected(reason string) {
	p.rejected.WithLabelValues(reason).Inc()
}

func (p *Prometheus) SetPeers(count int) {
	p.peers.Set(float64(count))
}

func (p *Prometheus) JobQueued() {
	p.jobs.WithLabelValues("queued").Inc()
}

func (p *Prometheus) JobCompleted() {
	p.jobs.WithLabelValues("completed").Inc()
}

func (p *Prometheus) JobPanicked() {
	p.jobs.WithLabelValues("panicked").Inc()
}
