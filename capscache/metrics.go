// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package capscache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts cache activity.
// A nil *Metrics records nothing.
type Metrics struct {
	Lookups  *prometheus.CounterVec
	Rejected prometheus.Counter
}

// NewMetrics creates cache metrics and registers them with reg.
// If reg is nil the metrics are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xmpp",
			Subsystem: "capscache",
			Name:      "lookups_total",
			Help:      "Capability cache lookups, by result (hit or miss).",
		}, []string{"result"}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: "xmpp",
			Subsystem: "capscache",
			Name:      "rejected_total",
			Help:      "Info that did not match the advertised hash.",
		}),
	}
}

func (m *Metrics) lookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.Lookups.WithLabelValues("hit").Inc()
		return
	}
	m.Lookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) reject() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}
