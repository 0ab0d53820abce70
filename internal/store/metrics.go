// internal/store/metrics.go
package store

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the store's prometheus collectors
type Metrics struct {
	dispatches  *prometheus.CounterVec
	subscribers prometheus.Gauge
}

// NewMetrics creates the store collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zotpot_store_dispatch_total",
				Help: "Actions dispatched to the store",
			},
			[]string{"action", "changed"},
		),
		subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "zotpot_store_subscribers",
				Help: "Currently registered store subscribers",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.dispatches, m.subscribers)
	}
	return m
}

func (m *Metrics) observeDispatch(action string, changed bool) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(action, strconv.FormatBool(changed)).Inc()
}

func (m *Metrics) setSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}
