// Package pipeline implements the Downlink and Uplink pipelines (spec
// §4.4–§4.5): cooperating workers sharing bounded queues between the byte
// adapter, framer, and ground handler. Grounded on the teacher's stream
// sender/receiver goroutine pair (transport/sendmsg.go's producer/consumer
// split over a channel) generalized from object streaming to frame
// deframing/reframing.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package pipeline

import (
	"encoding/binary"
	"os"
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/adapter"
	"github.com/nasa-jpl/gogds/cmn/atomic"
	"github.com/nasa-jpl/gogds/cmn/mono"
	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/dict"
	"github.com/nasa-jpl/gogds/filexfer"
	"github.com/nasa-jpl/gogds/frame"
	"github.com/nasa-jpl/gogds/ground"
	"github.com/nasa-jpl/gogds/history"
	"github.com/nasa-jpl/gogds/stats"
)

const sendPollTimeout = 500 * time.Millisecond

// Downlink drains the byte adapter, deframes, and forwards payloads to the
// ground handler (spec §4.4): a deframing worker and a sending worker
// sharing a bounded FIFO.
type Downlink struct {
	Adapter adapter.Adapter
	Codec   frame.Codec
	Ground  ground.Handler
	Stats   stats.Tracker

	ReadTimeout time.Duration
	QueueDepth  int

	// DiscardSink, if set, receives bytes the deframer discarded while
	// resyncing. A write error permanently disables the sink (spec §4.4:
	// "write errors to the sink permanently disable the sink but never
	// stop the worker") but never stops the pipeline.
	DiscardSink *os.File

	// FileSink, if set, receives deframed payloads carrying the DescFile
	// descriptor (spec §6 file-transfer contract) and materializes them
	// under its configured directory, in addition to the normal forward to
	// the ground handler.
	FileSink *filexfer.Receiver

	// Events, Channels, Commands, if set, each record deframed payloads
	// carrying the matching descriptor (spec §4.8: one append-only list
	// per record type), in addition to the normal forward to the ground
	// handler.
	Events   *history.History
	Channels *history.History
	Commands *history.History

	outgoing chan []byte
	pool     []byte

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	sinkMu      sync.Mutex
	sinkDisabled bool
}

func NewDownlink(a adapter.Adapter, codec frame.Codec, g ground.Handler, tr stats.Tracker, readTimeout time.Duration, queueDepth int) *Downlink {
	if tr == nil {
		tr = stats.NopTracker{}
	}
	return &Downlink{
		Adapter:     a,
		Codec:       codec,
		Ground:      g,
		Stats:       tr,
		ReadTimeout: readTimeout,
		QueueDepth:  queueDepth,
		outgoing:    make(chan []byte, queueDepth),
		stopCh:      make(chan struct{}),
	}
}

// Outgoing exposes the bounded queue so the Uplink pipeline can inject a
// synthesized loopback handshake (spec §4.5 step 3).
func (d *Downlink) Outgoing() chan<- []byte { return d.outgoing }

func (d *Downlink) Start() {
	d.running.Store(true)
	d.wg.Add(2)
	go d.deframeWorker()
	go d.sendWorker()
}

func (d *Downlink) Stop() { d.running.Store(false); close(d.stopCh) }
func (d *Downlink) Join() { d.wg.Wait() }

func (d *Downlink) deframeWorker() {
	defer d.wg.Done()
	lastRead := mono.NanoTime()
	for d.running.Load() {
		b := d.Adapter.Read(d.ReadTimeout)
		if len(b) == 0 {
			continue
		}
		now := mono.NanoTime()
		d.Stats.Gauge(stats.ReadIntervalNs, now-lastRead)
		lastRead = now
		d.pool = append(d.pool, b...)
		frames, remaining, discarded := d.Codec.Deframe(d.pool)
		d.pool = remaining

		if len(discarded) > 0 {
			d.Stats.Counter(stats.FramesDiscarded, int64(len(discarded)))
			d.sinkDiscard(discarded)
		}
		for _, f := range frames {
			d.Stats.Counter(stats.FramesIn, 1)
			d.sinkFile(f)
			d.sinkHistory(f)
			select {
			case d.outgoing <- f:
			default:
				d.Stats.Counter(stats.QueueDrops, 1)
				nlog.Warningf("pipeline/downlink: outgoing queue full (depth %d), dropping frame", d.QueueDepth)
			}
		}
	}
}

func (d *Downlink) sendWorker() {
	defer d.wg.Done()
	for d.running.Load() {
		batch := d.waitFirstThenDrain()
		if len(batch) == 0 {
			continue
		}
		d.Ground.SendAll(batch)
	}
}

func (d *Downlink) waitFirstThenDrain() [][]byte {
	select {
	case <-d.stopCh:
		return nil
	case f := <-d.outgoing:
		batch := [][]byte{f}
		for {
			select {
			case next := <-d.outgoing:
				batch = append(batch, next)
			default:
				return batch
			}
		}
	case <-time.After(sendPollTimeout):
		return nil
	}
}

func (d *Downlink) sinkFile(payload []byte) {
	if d.FileSink == nil || len(payload) < 4 {
		return
	}
	if dict.Descriptor(binary.BigEndian.Uint32(payload)) != dict.DescFile {
		return
	}
	if err := d.FileSink.Accept(payload); err != nil {
		nlog.Warningf("pipeline/downlink: file-packet write failed: %v", err)
	}
}

// sinkHistory appends payload to the history stream matching its descriptor,
// if that stream is configured, so session-history polling (spec §4.8) sees
// the same data flowing to the ground handler.
func (d *Downlink) sinkHistory(payload []byte) {
	if len(payload) < 4 {
		return
	}
	switch dict.Descriptor(binary.BigEndian.Uint32(payload)) {
	case dict.DescEvent:
		if d.Events != nil {
			d.Events.Append(payload)
		}
	case dict.DescTelemetry:
		if d.Channels != nil {
			d.Channels.Append(payload)
		}
	case dict.DescCommand:
		if d.Commands != nil {
			d.Commands.Append(payload)
		}
	}
}

func (d *Downlink) sinkDiscard(b []byte) {
	if d.DiscardSink == nil {
		return
	}
	d.sinkMu.Lock()
	defer d.sinkMu.Unlock()
	if d.sinkDisabled {
		return
	}
	if _, err := d.DiscardSink.Write(b); err != nil {
		nlog.Errorf("pipeline/downlink: discard sink write failed, disabling: %v", err)
		d.sinkDisabled = true
	}
}
