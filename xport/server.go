/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package xport

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/cmn/cos"
	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/memsys"
)

// Server is the routed TCP publish/subscribe server of spec §4.6: one
// listener socket, a registration handshake ("Register <tag>\n"), and
// tag-matched forwarding between registered peers.
type Server struct {
	Addr string

	ln net.Listener
	mm *memsys.MMSA

	mu    sync.RWMutex
	peers map[uint64][]*peerConn // bucket by xxhash of the incoming tag

	stopCh chan struct{}
	wg     sync.WaitGroup
}

type peerConn struct {
	conn net.Conn
	tag  Tag
	tie  string // disambiguates log lines when several peers share a tag
	out  chan []byte // per-peer send queue, so a slow peer never blocks others
	dead chan struct{}
	once sync.Once
}

func NewServer(addr string) *Server {
	return &Server{
		Addr:   addr,
		mm:     memsys.PageMM(),
		peers:  make(map[uint64][]*peerConn),
		stopCh: make(chan struct{}),
	}
}

func bucketOf(tag Tag) uint64 { return cos.HashTag(tag[:]) }

func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) Close() error {
	close(s.stopCh)
	err := s.ln.Close()
	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				nlog.Warningf("xport/server: accept failed: %v", err)
				return
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil {
		nlog.Warningf("xport/server: registration handshake failed: %v", err)
		return
	}
	line = strings.TrimRight(line, "\r\n")
	const prefix = "Register "
	if !strings.HasPrefix(line, prefix) {
		nlog.Warningf("xport/server: malformed registration %q", line)
		return
	}
	tag, err := NewTag(strings.TrimPrefix(line, prefix))
	if err != nil {
		nlog.Warningf("xport/server: %v", err)
		return
	}

	pc := &peerConn{conn: conn, tag: tag, tie: cos.GenTie(), out: make(chan []byte, 256), dead: make(chan struct{})}
	nlog.Infof("xport/server: peer %s/%s registered", tag, pc.tie)
	s.register(pc)
	defer s.unregister(pc)

	s.wg.Add(1)
	go s.sendLoop(pc)

	buf, slab := s.mm.AllocSize(memsys.DefaultBufSize)
	defer s.mm.Free(buf, slab)
	pool := buf[:0]
	for {
		n, err := conn.Read(buf[:cap(buf)])
		if err != nil {
			return
		}
		pool = append(pool, buf[:n]...)
		for {
			dest, body, remaining, discarded, ok := decodeEnvelope(pool)
			if len(discarded) > 0 {
				nlog.Warningf("xport/server: discarded %d bytes resyncing from peer %s", len(discarded), tag)
			}
			pool = remaining
			if !ok {
				break
			}
			s.forward(dest, body)
		}
	}
}

func (s *Server) register(pc *peerConn) {
	bucket := bucketOf(pc.tag)
	s.mu.Lock()
	s.peers[bucket] = append(s.peers[bucket], pc)
	s.mu.Unlock()
}

func (s *Server) unregister(pc *peerConn) {
	bucket := bucketOf(pc.tag)
	s.mu.Lock()
	list := s.peers[bucket]
	for i, p := range list {
		if p == pc {
			s.peers[bucket] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	pc.once.Do(func() { close(pc.dead) })
}

// forward delivers body (without the envelope header) to every peer
// registered under dest, dropping a peer whose send queue can't keep up
// rather than blocking the forwarder.
func (s *Server) forward(dest Tag, body []byte) {
	bucket := bucketOf(dest)
	s.mu.RLock()
	targets := append([]*peerConn(nil), s.peers[bucket]...)
	s.mu.RUnlock()
	for _, pc := range targets {
		if pc.tag != dest {
			continue // hash collision guard
		}
		select {
		case pc.out <- body:
		default:
			nlog.Warningf("xport/server: peer %s send queue full, dropping connection", pc.tag)
			pc.conn.Close()
		}
	}
}

func (s *Server) sendLoop(pc *peerConn) {
	defer s.wg.Done()
	for {
		select {
		case <-pc.dead:
			return
		case body := <-pc.out:
			_ = pc.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if _, err := pc.conn.Write(body); err != nil {
				pc.conn.Close()
				return
			}
		}
	}
}
