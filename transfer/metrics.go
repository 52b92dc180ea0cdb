package transfer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts operator applications and local matrix rebuilds. A nil
// *Metrics records nothing.
type Metrics struct {
	Applications *prometheus.CounterVec
	Rebuilds     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (m *Metrics, err error) {
	m = &Metrics{
		Applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fetransfer",
			Name:      "applications_total",
			Help:      "Transfer operator applications by strategy and direction.",
		}, []string{"strategy", "direction"}),
		Rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fetransfer",
			Name:      "local_matrix_rebuilds_total",
			Help:      "Local projection matrix rebuilds by reference geometry.",
		}, []string{"geometry"}),
	}
	if reg == nil {
		return
	}
	for _, c := range []prometheus.Collector{m.Applications, m.Rebuilds} {
		if err = reg.Register(c); err != nil {
			return nil, err
		}
	}
	return
}

func (m *Metrics) applied(strategy Strategy, direction string) {
	if m == nil {
		return
	}
	m.Applications.WithLabelValues(strategy.String(), direction).Inc()
}

func (m *Metrics) rebuilt(geometry string) {
	if m == nil {
		return
	}
	m.Rebuilds.WithLabelValues(geometry).Inc()
}
