/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package adapter_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/adapter"
)

func TestNoneReadBlocksThenUnblocksOnClose(t *testing.T) {
	n := adapter.NewNone()
	require.NoError(t, n.Open())

	done := make(chan []byte, 1)
	go func() { done <- n.Read(2 * time.Second) }()

	time.Sleep(20 * time.Millisecond) // Read should still be blocked
	select {
	case <-done:
		t.Fatal("Read returned before timeout or close")
	default:
	}

	require.NoError(t, n.Close())
	select {
	case b := <-done:
		assert.Empty(t, b)
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock after Close")
	}
}

func TestNoneWriteAlwaysFails(t *testing.T) {
	n := adapter.NewNone()
	assert.False(t, n.Write([]byte("anything")))
}

func TestIPRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverRecv := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		n, _ := conn.Read(buf)
		serverRecv <- buf[:n]
		conn.Write([]byte("pong"))
	}()

	ip := adapter.NewIP(ln.Addr().String())
	require.NoError(t, ip.Open())
	defer ip.Close()

	ok := ip.Write([]byte("ping"))
	assert.True(t, ok)

	select {
	case got := <-serverRecv:
		assert.Equal(t, []byte("ping"), got)
	case <-time.After(time.Second):
		t.Fatal("server never received write")
	}

	resp := ip.Read(time.Second)
	assert.Equal(t, []byte("pong"), resp)
}

func TestIPReadTimesOutEmpty(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(time.Second)
		}
	}()

	ip := adapter.NewIP(ln.Addr().String())
	require.NoError(t, ip.Open())
	defer ip.Close()

	b := ip.Read(50 * time.Millisecond)
	assert.Empty(t, b)
}
