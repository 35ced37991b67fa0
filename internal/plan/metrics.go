package plan

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds plan gauges on a private registry so a single CLI run can
// dump them to a node-exporter textfile.
type Metrics struct {
	registry       *prometheus.Registry
	operations     *prometheus.GaugeVec
	grants         prometheus.Gauge
	pendingOutputs prometheus.Gauge
}

// NewMetrics creates and registers the plan collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "stackplan",
				Subsystem: "plan",
				Name:      "operations",
				Help:      "Number of planned operations by action and kind",
			},
			[]string{"action", "kind"},
		),
		grants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stackplan",
			Subsystem: "plan",
			Name:      "policy_grants",
			Help:      "Number of derived least-privilege grants",
		}),
		pendingOutputs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stackplan",
			Subsystem: "plan",
			Name:      "pending_outputs",
			Help:      "Number of output bindings not yet resolved",
		}),
	}
	m.registry.MustRegister(m.operations, m.grants, m.pendingOutputs)
	return m
}

// Observe replaces the gauges with the values of p.
func (m *Metrics) Observe(p *Plan) {
	m.operations.Reset()
	for _, op := range p.Operations {
		m.operations.WithLabelValues(string(op.Action), string(op.Kind)).Inc()
	}
	s := p.Summary()
	m.grants.Set(float64(s.Grants))
	m.pendingOutputs.Set(float64(s.PendingOutputs))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
