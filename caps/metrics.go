// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package caps

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts emitter activity.
// A nil *Metrics records nothing.
type Metrics struct {
	Builds   *prometheus.CounterVec
	MemoHits prometheus.Counter
}

// NewMetrics creates emitter metrics and registers them with reg.
// If reg is nil the metrics are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xmpp",
			Subsystem: "caps",
			Name:      "builds_total",
			Help:      "Entity capabilities hashes computed, by hash function and result.",
		}, []string{"hash", "result"}),
		MemoHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "xmpp",
			Subsystem: "caps",
			Name:      "memo_hits_total",
			Help:      "Caps requests answered without rehashing.",
		}),
	}
}

func (m *Metrics) build(alg string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Builds.WithLabelValues(alg, result).Inc()
}

func (m *Metrics) memoHit() {
	if m == nil {
		return
	}
	m.MemoHits.Inc()
}
