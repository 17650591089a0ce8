//go:build statsd

// Alternate Tracker backend selected by the statsd build tag, per the
// teacher's build-tag-selected metrics backend (stats/common_statsd.go),
// adapted from per-cluster-node counters to GDS frame/queue/session
// counters fired at a local StatsD daemon instead of scraped by Prometheus.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"fmt"
	"net"
	"sync"

	"github.com/nasa-jpl/gogds/cmn/nlog"
)

// StatsdTracker sends one UDP packet per update to a local StatsD daemon
// (default 127.0.0.1:8125), counting failures internally rather than
// surfacing them: metrics delivery is best-effort and must never block or
// fail the caller's data path.
type StatsdTracker struct {
	mu   sync.Mutex
	conn net.Conn
}

var _ Tracker = (*StatsdTracker)(nil)

func NewStatsdTracker(addr string) *StatsdTracker {
	if addr == "" {
		addr = "127.0.0.1:8125"
	}
	conn, err := net.Dial("udp", addr)
	if err != nil {
		nlog.Warningf("stats/statsd: dial %s failed: %v", addr, err)
	}
	return &StatsdTracker{conn: conn}
}

func (t *StatsdTracker) Counter(name string, delta int64) { t.send(fmt.Sprintf("gds.%s:%d|c", name, delta)) }
func (t *StatsdTracker) Gauge(name string, value int64)   { t.send(fmt.Sprintf("gds.%s:%d|g", name, value)) }

func (t *StatsdTracker) send(line string) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return
	}
	if _, err := conn.Write([]byte(line)); err != nil {
		nlog.Warningf("stats/statsd: send failed: %v", err)
	}
}
