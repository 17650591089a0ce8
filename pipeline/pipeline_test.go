/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package pipeline_test

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/dict"
	"github.com/nasa-jpl/gogds/frame"
	"github.com/nasa-jpl/gogds/history"
	"github.com/nasa-jpl/gogds/pipeline"
)

// fakeAdapter feeds a fixed sequence of byte chunks to Read, then blocks.
type fakeAdapter struct {
	mu     sync.Mutex
	chunks [][]byte
	idx    int
}

func (a *fakeAdapter) Open() error  { return nil }
func (a *fakeAdapter) Close() error { return nil }
func (a *fakeAdapter) Read(timeout time.Duration) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.idx >= len(a.chunks) {
		time.Sleep(timeout)
		return nil
	}
	c := a.chunks[a.idx]
	a.idx++
	return c
}
func (a *fakeAdapter) Write([]byte) bool { return true }

// fakeGround records every batch passed to SendAll and never yields
// ground-originated payloads.
type fakeGround struct {
	mu      sync.Mutex
	batches [][][]byte
}

func (g *fakeGround) Open() error            { return nil }
func (g *fakeGround) Close() error           { return nil }
func (g *fakeGround) ReceiveAll() [][]byte   { return nil }
func (g *fakeGround) SendAll(frames [][]byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.batches = append(g.batches, frames)
}

func (g *fakeGround) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, b := range g.batches {
		n += len(b)
	}
	return n
}

func TestDownlinkDropsOnFullQueue(t *testing.T) {
	codec := frame.NewFPrime(frame.CRC32)
	f1, _ := codec.Frame([]byte("one"))
	f2, _ := codec.Frame([]byte("two"))

	ad := &fakeAdapter{chunks: [][]byte{append(append([]byte{}, f1...), f2...)}}
	gr := &fakeGround{}

	dl := pipeline.NewDownlink(ad, codec, gr, nil, 20*time.Millisecond, 1)
	dl.Start()
	defer func() {
		dl.Stop()
		dl.Join()
	}()

	require.Eventually(t, func() bool { return gr.count() >= 1 }, time.Second, 5*time.Millisecond)
	// capacity 1: only one of the two frames produced in the same deframe
	// call can ever have been enqueued; the other must have been dropped.
	assert.LessOrEqual(t, gr.count(), 1)
}

// TestDownlinkRoutesPayloadsToMatchingHistory pins spec §3/§4.8's one
// append-only list per record type: a deframed event payload must land on
// the Events history and not on Channels or Commands.
func TestDownlinkRoutesPayloadsToMatchingHistory(t *testing.T) {
	codec := frame.NewFPrime(frame.CRC32)
	payload := make([]byte, 8)
	binary.BigEndian.PutUint32(payload, uint32(dict.DescEvent))
	f, _ := codec.Frame(payload)

	ad := &fakeAdapter{chunks: [][]byte{f}}
	gr := &fakeGround{}

	dl := pipeline.NewDownlink(ad, codec, gr, nil, 20*time.Millisecond, 4)
	events := history.New(t.Name()+"-events", time.Hour)
	channels := history.New(t.Name()+"-channels", time.Hour)
	commands := history.New(t.Name()+"-commands", time.Hour)
	dl.Events, dl.Channels, dl.Commands = events, channels, commands

	dl.Start()
	defer func() {
		dl.Stop()
		dl.Join()
	}()

	require.Eventually(t, func() bool { return gr.count() >= 1 }, time.Second, 5*time.Millisecond)

	res := events.Retrieve(t.Name(), history.Unlimited)
	assert.Len(t, res.Records, 1)
	assert.Empty(t, channels.Retrieve(t.Name(), history.Unlimited).Records)
	assert.Empty(t, commands.Retrieve(t.Name(), history.Unlimited).Records)
}

func TestUplinkInjectsLoopbackHandshakeOnSuccess(t *testing.T) {
	codec := frame.NewFPrime(frame.CRC32)
	ad := &fakeAdapter{}
	gr := &singleShotGround{payloads: [][]byte{[]byte("cmd-bytes")}}
	loopback := make(chan []byte, 4)

	ul := pipeline.NewUplink(gr, codec, ad, nil, loopback, 3)
	ul.Start()
	defer func() {
		ul.Stop()
		ul.Join()
	}()

	select {
	case hs := <-loopback:
		assert.Equal(t, byte(0), hs[0])
		assert.Equal(t, byte(0), hs[1])
		assert.Equal(t, byte(0), hs[2])
		assert.Equal(t, byte(5), hs[3]) // DescHandshake == 5
		assert.Equal(t, []byte("cmd-bytes"), hs[4:])
	case <-time.After(time.Second):
		t.Fatal("no loopback handshake injected")
	}
}

type singleShotGround struct {
	mu       sync.Mutex
	payloads [][]byte
	done     bool
}

func (g *singleShotGround) Open() error  { return nil }
func (g *singleShotGround) Close() error { return nil }
func (g *singleShotGround) ReceiveAll() [][]byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return nil
	}
	g.done = true
	return g.payloads
}
func (g *singleShotGround) SendAll([][]byte) {}
