//go:build !statsd

/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PromTracker is the default Tracker backend, one counter/gauge vector
// keyed by metric name (spec's domain-stack wiring: prometheus/client_golang
// for frames in/out/discarded, queue depth, active sessions).
type PromTracker struct {
	mu       sync.Mutex
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	registry *prometheus.Registry
}

var _ Tracker = (*PromTracker)(nil)

func NewPromTracker() *PromTracker {
	return &PromTracker{
		counters: make(map[string]prometheus.Counter),
		gauges:   make(map[string]prometheus.Gauge),
		registry: prometheus.NewRegistry(),
	}
}

func (t *PromTracker) Registry() *prometheus.Registry { return t.registry }

func (t *PromTracker) Counter(name string, delta int64) {
	t.mu.Lock()
	c, ok := t.counters[name]
	if !ok {
		c = prometheus.NewCounter(prometheus.CounterOpts{Name: promName(name), Help: name})
		t.registry.MustRegister(c)
		t.counters[name] = c
	}
	t.mu.Unlock()
	c.Add(float64(delta))
}

func (t *PromTracker) Gauge(name string, value int64) {
	t.mu.Lock()
	g, ok := t.gauges[name]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{Name: promName(name), Help: name})
		t.registry.MustRegister(g)
		t.gauges[name] = g
	}
	t.mu.Unlock()
	g.Set(float64(value))
}

func promName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			out[i] = '_'
		} else {
			out[i] = name[i]
		}
	}
	return "gds_" + string(out)
}
