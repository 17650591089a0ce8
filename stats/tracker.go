// Package stats tracks frame/queue/session metrics for the pipelines,
// transport, and session history, exposed through a Tracker interface with
// a Prometheus-backed default implementation and a StatsD-backed alternate
// build (see common_statsd.go), mirroring the teacher's build-tag-selected
// metrics backend (stats/common_statsd.go) adapted from per-node cluster
// counters to GDS frame/queue/session counters.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

// Metric names, analogous to the teacher's ".n"/".bps"/".ns" suffix
// convention but flattened since GDS has no per-target/per-proxy split.
const (
	FramesIn        = "frames.in"
	FramesOut       = "frames.out"
	FramesDiscarded = "frames.discarded"
	QueueDepth      = "queue.depth"
	QueueDrops      = "queue.drops"
	SessionsActive  = "sessions.active"
	UplinkRetries   = "uplink.retries"
	ReadIntervalNs  = "read.interval_ns"
)

// Tracker is the metrics sink every pipeline/transport component updates.
// Counter values only ever increase; Gauge values are point-in-time.
type Tracker interface {
	Counter(name string, delta int64)
	Gauge(name string, value int64)
}

// NopTracker discards everything; used as the zero-value default so
// components never need a nil check before calling Tracker methods.
type NopTracker struct{}

func (NopTracker) Counter(string, int64) {}
func (NopTracker) Gauge(string, int64)   {}
