// Package hk provides a mechanism for registering cleanup functions which
// are invoked at specified intervals - used by session histories to expire
// inactive sessions (spec §4.8 expire()) and by the internal transport to
// flush periodic stats, without a dedicated goroutine per registrant.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package hk

import (
	"container/heap"
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/cmn/nlog"
)

const NameSuffix = ".hk"

// CleanupFunc returns the duration after which it should be called again.
// Returning a non-positive duration unregisters the callback.
type CleanupFunc func() time.Duration

type request struct {
	name     string
	f        CleanupFunc
	interval time.Duration
	unreg    bool
}

type entry struct {
	name  string
	f     CleanupFunc
	due   time.Time
	index int
}

type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].due.Before(h[j].due) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index, h[j].index = i, j }
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Housekeeper runs registered CleanupFuncs on their own schedule, one
// goroutine total regardless of registrant count.
type Housekeeper struct {
	reqCh   chan request
	stopCh  chan struct{}
	started chan struct{}
	once    sync.Once
}

var DefaultHK = New()

func New() *Housekeeper {
	return &Housekeeper{
		reqCh:   make(chan request, 64),
		stopCh:  make(chan struct{}),
		started: make(chan struct{}),
	}
}

// TestInit resets DefaultHK for a fresh test run.
func TestInit() { DefaultHK = New() }

func Reg(name string, f CleanupFunc, interval time.Duration) {
	DefaultHK.reqCh <- request{name: name, f: f, interval: interval}
}

func Unreg(name string) {
	DefaultHK.reqCh <- request{name: name, unreg: true}
}

func WaitStarted() { <-DefaultHK.started }

func (hk *Housekeeper) Run() error {
	h := &entryHeap{}
	heap.Init(h)
	byName := make(map[string]*entry)

	var timer *time.Timer
	hk.once.Do(func() { close(hk.started) })

	armTimer := func() *time.Timer {
		if h.Len() == 0 {
			return time.NewTimer(time.Hour)
		}
		d := time.Until((*h)[0].due)
		if d < 0 {
			d = 0
		}
		return time.NewTimer(d)
	}
	timer = armTimer()
	defer timer.Stop()

	for {
		select {
		case <-hk.stopCh:
			return nil
		case req := <-hk.reqCh:
			if req.unreg {
				if e, ok := byName[req.name]; ok {
					heap.Remove(h, e.index)
					delete(byName, req.name)
				}
				continue
			}
			e := &entry{name: req.name, f: req.f, due: time.Now().Add(req.interval)}
			byName[req.name] = e
			heap.Push(h, e)
			timer.Stop()
			timer = armTimer()
		case <-timer.C:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].due.After(now) {
				e := heap.Pop(h).(*entry)
				delete(byName, e.name)
				next := func() (d time.Duration) {
					defer func() {
						if r := recover(); r != nil {
							nlog.Errorf("hk: %s panicked: %v", e.name, r)
							d = 0
						}
					}()
					return e.f()
				}()
				if next > 0 {
					e.due = time.Now().Add(next)
					byName[e.name] = e
					heap.Push(h, e)
				}
			}
			timer = armTimer()
		}
	}
}

func (hk *Housekeeper) Stop(_ error) {
	close(hk.stopCh)
}
