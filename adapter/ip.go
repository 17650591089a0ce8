/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package adapter

import (
	"net"
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/cmn/cos"
	"github.com/nasa-jpl/gogds/cmn/nlog"
)

// IP is a TCP client byte adapter to the flight binary, reconnecting
// internally on any I/O failure so read/write never surface link errors.
type IP struct {
	Address string // host:port

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

func NewIP(address string) *IP { return &IP{Address: address} }

func (a *IP) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = false
	return a.dialLocked()
}

// dialLocked must be called with a.mu held; it is a no-op if already
// connected and tolerates repeated calls on failure (the caller retries on
// the next read/write).
func (a *IP) dialLocked() error {
	if a.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", a.Address, 5*time.Second)
	if err != nil {
		nlog.Warningf("adapter/ip: dial %s failed: %v", a.Address, err)
		return err
	}
	a.conn = conn
	return nil
}

func (a *IP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return a.closeLocked()
}

func (a *IP) closeLocked() error {
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

func (a *IP) Read(timeout time.Duration) []byte {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	if err := a.dialLocked(); err != nil {
		a.mu.Unlock()
		return nil
	}
	conn := a.conn
	a.mu.Unlock()

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 64*1024)
	n, err := conn.Read(buf)
	if err != nil {
		if cos.IsErrTimeout(err) {
			return nil
		}
		nlog.Warningf("adapter/ip: read from %s failed: %v", a.Address, err)
		a.reconnect()
		return nil
	}
	return buf[:n]
}

func (a *IP) Write(frame []byte) bool {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	if err := a.dialLocked(); err != nil {
		a.mu.Unlock()
		return false
	}
	conn := a.conn
	a.mu.Unlock()

	n, err := conn.Write(frame)
	if err != nil || n != len(frame) {
		nlog.Warningf("adapter/ip: write to %s failed: %v", a.Address, err)
		a.reconnect()
		return false
	}
	return true
}

func (a *IP) reconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.closeLocked()
}
