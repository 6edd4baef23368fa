package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/semihalev/zlog/v2"
)

// metrics registers against a local prometheus.Registry rather than the
// global default one, the way aristanetworks-goarista and semihalev-sdns
// do, so running the benchmark twice in one process never panics on
// duplicate registration. The core exposes no statistics beyond the
// advisory item counter (spec.md §1 Non-goals: "statistics beyond an
// item counter"), so this wrapper only instruments what it can observe
// from the outside: operation counts and the live-item gauge Handle.Len
// already reports.
type metrics struct {
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	items    prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()

	m := &metrics{
		registry: reg,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concache",
			Name:      "ops_total",
			Help:      "Total handle operations performed, by kind.",
		}, []string{"op"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "concache",
			Name:      "items",
			Help:      "Advisory live-item count (Handle.Len).",
		}),
	}

	reg.MustRegister(m.ops, m.items)
	return m
}

// serve exposes /metrics on addr until the process exits. Used only when
// the operator passes --metrics-addr; the benchmark otherwise never opens
// a socket, matching spec.md §6 ("no wire protocol" for the core — this
// is purely a collaborator concern).
func (m *metrics) serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	go func() {
		zlog.Info("serving metrics", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			zlog.Error("metrics server exited", "error", err.Error())
		}
	}()
}
