package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	workerStarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zetshop",
			Subsystem: "supervisor",
			Name:      "starts_total",
			Help:      "Number of worker process starts.",
		},
	)
	workerRestarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zetshop",
			Subsystem: "supervisor",
			Name:      "restarts_total",
			Help:      "Number of restarts after an unexpected worker exit.",
		},
	)
	workerStops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zetshop",
			Subsystem: "supervisor",
			Name:      "stops_total",
			Help:      "Number of observed worker exits.",
		},
	)
	cooldowns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zetshop",
			Subsystem: "supervisor",
			Name:      "cooldowns_total",
			Help:      "Number of times the daily restart cap forced a cooldown.",
		},
	)
	childRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "zetshop",
			Subsystem: "supervisor",
			Name:      "child_running",
			Help:      "1 while a worker process is alive, 0 otherwise.",
		},
	)
	healthProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zetshop",
			Subsystem: "health",
			Name:      "probes_total",
			Help:      "Outbound bot identity probes by outcome.",
		}, []string{"outcome"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{workerStarts, workerRestarts, workerStops, cooldowns, childRunning, healthProbes}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Helpers below no-op until Register has been called.

func IncStart() {
	if regOK.Load() {
		workerStarts.Inc()
	}
}

func IncRestart() {
	if regOK.Load() {
		workerRestarts.Inc()
	}
}

func IncStop() {
	if regOK.Load() {
		workerStops.Inc()
	}
}

func IncCooldown() {
	if regOK.Load() {
		cooldowns.Inc()
	}
}

func SetChildRunning(up bool) {
	if regOK.Load() {
		v := 0.0
		if up {
			v = 1.0
		}
		childRunning.Set(v)
	}
}

func IncHealthProbe(outcome string) {
	if regOK.Load() {
		healthProbes.WithLabelValues(outcome).Inc()
	}
}
