/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package xport

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/memsys"
)

// Conn is a client connection to a Server: it registers under an incoming
// tag and both sends tagged messages and receives the messages the server
// forwards to that tag.
type Conn struct {
	Addr    string
	Incoming Tag

	mu   sync.Mutex
	conn net.Conn
	pool []byte
}

func Dial(addr string, incoming Tag) (*Conn, error) {
	c := &Conn{Addr: addr, Incoming: incoming}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Conn) connect() error {
	conn, err := net.DialTimeout("tcp", c.Addr, 5*time.Second)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(conn, "Register %s\n", c.Incoming); err != nil {
		conn.Close()
		return err
	}
	c.conn = conn
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Send wraps body in the internal transport envelope addressed to dest and
// writes it in one call so the server's reader sees a whole envelope (or a
// contiguous prefix of one) per read, never blocking indefinitely.
func (c *Conn) Send(dest Tag, body []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("xport: connection closed")
	}
	envelope := encodeEnvelope(dest, body)
	_, err := conn.Write(envelope)
	return err
}

// Recv blocks up to timeout for the next whole message addressed to this
// connection's incoming tag (the server only ever sends it messages that
// already matched, so dest is discarded here).
func (c *Conn) Recv(timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, fmt.Errorf("xport: connection closed")
	}

	for {
		_, body, remaining, discarded, ok := decodeEnvelope(c.pool)
		if len(discarded) > 0 {
			nlog.Warningf("xport/client: discarded %d bytes resyncing", len(discarded))
		}
		c.pool = remaining
		if ok {
			return body, nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
		buf, slab := memsys.PageMM().AllocSize(memsys.DefaultBufSize)
		n, err := conn.Read(buf)
		memsys.PageMM().Free(buf, slab)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil, nil
			}
			return nil, err
		}
		c.pool = append(c.pool, buf[:n]...)
	}
}
