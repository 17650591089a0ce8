// Package history implements Session History (spec §4.8): an append-only
// arena of records per record type, with independent per-session cursors
// and a self-cleaning window driven by the hk housekeeper. Grounded on the
// teacher's transport session table (per-peer state keyed by an opaque ID,
// reclaimed on a timer) generalized from stream sessions to record-cursor
// sessions.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package history

import (
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/cmn/cos"
	"github.com/nasa-jpl/gogds/cmn/debug"
	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/hk"
)

// session tracks one client's read position and last-touched time.
type session struct {
	cursor     int
	offset     int // count snapshot at session creation, for validation
	lastTouch  time.Time
}

// History is an append-only, mutex-guarded record stream with independent
// per-session cursors (spec §4.8). Records are stored as opaque `any` so
// the same implementation backs events, channels, and commands streams.
type History struct {
	name string

	mu       sync.Mutex
	records  []any
	base     int // records[0] corresponds to absolute index `base`
	count    int // monotonic total ever appended
	sessions map[string]*session

	inactivityWindow time.Duration
}

func New(name string, inactivityWindow time.Duration) *History {
	h := &History{
		name:             name,
		sessions:         make(map[string]*session),
		inactivityWindow: inactivityWindow,
	}
	hk.Reg(name+historySuffix, h.housekeep, inactivityWindow)
	return h
}

const historySuffix = ".history"

// NewSessionToken mints an opaque session identifier for clients that don't
// supply their own, via the shortid-backed generator shared with the
// internal transport's connection tie-breakers (cmn/cos).
func NewSessionToken() string {
	return cos.GenSessionToken()
}

// Append pushes record onto the stream and increments the monotonic count.
// Called as a data callback from decoders per spec §4.8.
func (h *History) Append(record any) {
	h.mu.Lock()
	h.records = append(h.records, record)
	h.count++
	h.mu.Unlock()
}

// Result is what Retrieve hands back to a caller (e.g. the httpapi poll
// handler): the records seen since the session's last retrieve, and the
// monotonically non-decreasing validation count of "items observed so far".
type Result struct {
	Records    []any
	Validation int
}

// Unlimited is the sentinel Retrieve's limit takes to mean "to tail, no
// cap". Plain 0 is reserved for spec §3/§8's "retrieve(S, 0) is a no-op":
// it returns an empty slice and never advances the session's cursor (per
// the original's ram.py: `end_slice = min(size, index + limit)` collapses
// to `index` when limit is 0).
const Unlimited = -1

// Retrieve returns the next up-to-limit records for sessionID (Unlimited
// means "to tail"; 0 is a no-op, spec §3/§8), lazily creating the session at
// the current tail on first use so a new client only ever sees future data.
func (h *History) Retrieve(sessionID string, limit int) Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		s = &session{cursor: h.count, offset: h.count, lastTouch: time.Now()}
		h.sessions[sessionID] = s
	}
	s.lastTouch = time.Now()
	validation := h.count - s.offset
	debug.Assert(validation >= 0, "validation count must never go negative")

	if limit == 0 {
		return Result{Records: []any{}, Validation: validation}
	}

	startIdx := s.cursor - h.base
	if startIdx < 0 {
		startIdx = 0 // clear() trimmed below the cursor; clamp rather than panic
	}
	endIdx := len(h.records)
	if limit > 0 && startIdx+limit < endIdx {
		endIdx = startIdx + limit
	}
	if startIdx > endIdx {
		startIdx = endIdx
	}

	out := make([]any, endIdx-startIdx)
	copy(out, h.records[startIdx:endIdx])

	s.cursor = h.base + endIdx

	return Result{Records: out, Validation: validation}
}

// Clear trims records strictly older than the minimum live session cursor,
// rebasing every remaining cursor so indices stay consistent.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

func (h *History) clearLocked() {
	if len(h.sessions) == 0 {
		return
	}
	min := h.base + len(h.records)
	for _, s := range h.sessions {
		if s.cursor < min {
			min = s.cursor
		}
	}
	drop := min - h.base
	if drop <= 0 {
		return
	}
	h.records = h.records[drop:]
	h.base += drop
}

// expireLocked removes sessions untouched for longer than the inactivity
// window; a later Retrieve with the same token starts over as a fresh
// session (sees only future data per spec §4.8).
func (h *History) expireLocked(now time.Time) int {
	removed := 0
	for id, s := range h.sessions {
		if now.Sub(s.lastTouch) > h.inactivityWindow {
			delete(h.sessions, id)
			removed++
		}
	}
	return removed
}

// housekeep is registered with hk.Reg and runs on the inactivity window's
// cadence: expire stale sessions, then clear records no longer referenced
// by any live cursor.
func (h *History) housekeep() time.Duration {
	h.mu.Lock()
	removed := h.expireLocked(time.Now())
	h.clearLocked()
	h.mu.Unlock()
	if removed > 0 {
		nlog.Infof("history[%s]: expired %d stale sessions", h.name, removed)
	}
	return h.inactivityWindow
}
