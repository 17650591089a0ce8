/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package pipeline

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/adapter"
	"github.com/nasa-jpl/gogds/cmn/atomic"
	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/dict"
	"github.com/nasa-jpl/gogds/frame"
	"github.com/nasa-jpl/gogds/ground"
	"github.com/nasa-jpl/gogds/stats"
)

const pollInterval = 10 * time.Millisecond

// Uplink drains ground-originated payloads, frames and writes them to the
// byte adapter with retry, and synthesizes a loopback handshake on success
// (spec §4.5).
type Uplink struct {
	Ground  ground.Handler
	Codec   frame.Codec
	Adapter adapter.Adapter
	Stats   stats.Tracker

	// Loopback receives the synthesized handshake for injection into the
	// Downlink pipeline's outgoing queue (non-blocking; drop-on-full).
	Loopback chan<- []byte

	RetryCount int

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewUplink(g ground.Handler, codec frame.Codec, a adapter.Adapter, tr stats.Tracker, loopback chan<- []byte, retryCount int) *Uplink {
	if tr == nil {
		tr = stats.NopTracker{}
	}
	if retryCount <= 0 {
		retryCount = 3
	}
	return &Uplink{
		Ground:     g,
		Codec:      codec,
		Adapter:    a,
		Stats:      tr,
		Loopback:   loopback,
		RetryCount: retryCount,
		stopCh:     make(chan struct{}),
	}
}

func (u *Uplink) Start() {
	u.running.Store(true)
	u.wg.Add(1)
	go u.worker()
}

func (u *Uplink) Stop() { u.running.Store(false); close(u.stopCh) }
func (u *Uplink) Join() { u.wg.Wait() }

func (u *Uplink) worker() {
	defer u.wg.Done()
	for u.running.Load() {
		payloads := u.Ground.ReceiveAll()
		if len(payloads) == 0 {
			select {
			case <-u.stopCh:
				return
			case <-time.After(pollInterval):
			}
			continue
		}
		for _, p := range payloads {
			if len(p) == 0 {
				continue
			}
			u.sendWithRetry(p)
		}
	}
}

// Submit frames and writes payload directly, bypassing the ground handler.
// Used by the command-dispatch contract (spec §6), where a caller already
// holds a resolved, coerced payload rather than one arriving over the
// internal transport.
func (u *Uplink) Submit(payload []byte) { u.sendWithRetry(payload) }

func (u *Uplink) sendWithRetry(payload []byte) {
	framed, err := u.Codec.Frame(payload)
	if err != nil {
		nlog.Warningf("pipeline/uplink: frame failed: %v", err)
		return
	}

	for attempt := 1; attempt <= u.RetryCount; attempt++ {
		if u.Adapter.Write(framed) {
			u.Stats.Counter(stats.FramesOut, 1)
			u.injectHandshake(payload)
			return
		}
		u.Stats.Counter(stats.UplinkRetries, 1)
	}
	nlog.Warningf("pipeline/uplink: dropped payload after %d failed write attempts", u.RetryCount)
}

// injectHandshake synthesizes the loopback handshake of spec §4.5 step 3:
// the original payload prefixed with the 32-bit FW_PACKET_HAND descriptor.
func (u *Uplink) injectHandshake(payload []byte) {
	if u.Loopback == nil {
		return
	}
	hs := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(hs, uint32(dict.DescHandshake))
	copy(hs[4:], payload)

	select {
	case u.Loopback <- hs:
	default:
		nlog.Warningf("pipeline/uplink: downlink outgoing queue full, dropping loopback handshake")
	}
}
