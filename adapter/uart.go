/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package adapter

import (
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/nasa-jpl/gogds/cmn/nlog"
)

// UART is a serial-port byte adapter using go.bug.st/serial (named, not
// pack-grounded — see DESIGN.md). Reconnect-on-error mirrors IP's behavior:
// a closed or errored port is silently reopened on the next read/write.
type UART struct {
	Port string
	Baud int

	mu     sync.Mutex
	port   serial.Port
	closed bool
}

func NewUART(portName string, baud int) *UART {
	return &UART{Port: portName, Baud: baud}
}

func (a *UART) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = false
	return a.openLocked()
}

func (a *UART) openLocked() error {
	if a.port != nil {
		return nil
	}
	mode := &serial.Mode{BaudRate: a.Baud}
	p, err := serial.Open(a.Port, mode)
	if err != nil {
		nlog.Warningf("adapter/uart: open %s failed: %v", a.Port, err)
		return err
	}
	a.port = p
	return nil
}

func (a *UART) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return a.closeLocked()
}

func (a *UART) closeLocked() error {
	if a.port == nil {
		return nil
	}
	err := a.port.Close()
	a.port = nil
	return err
}

func (a *UART) Read(timeout time.Duration) []byte {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	if err := a.openLocked(); err != nil {
		a.mu.Unlock()
		return nil
	}
	p := a.port
	a.mu.Unlock()

	_ = p.SetReadTimeout(timeout)
	buf := make([]byte, 4096)
	n, err := p.Read(buf)
	if err != nil {
		nlog.Warningf("adapter/uart: read from %s failed: %v", a.Port, err)
		a.reconnect()
		return nil
	}
	return buf[:n]
}

func (a *UART) Write(frame []byte) bool {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	if err := a.openLocked(); err != nil {
		a.mu.Unlock()
		return false
	}
	p := a.port
	a.mu.Unlock()

	n, err := p.Write(frame)
	if err != nil || n != len(frame) {
		nlog.Warningf("adapter/uart: write to %s failed: %v", a.Port, err)
		a.reconnect()
		return false
	}
	return true
}

func (a *UART) reconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.closeLocked()
}
