/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package ground

import (
	"time"

	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/xport"
)

const pollTimeout = 10 * time.Millisecond

// TCP is the ground handler connecting to the internal transport as the
// FSW-side peer (spec §4.3): a receive connection registered under OwnTag
// (so it gets everything ground clients address to FSW) and a send
// connection used to push downlinked frames addressed to PeerTag.
type TCP struct {
	Addr    string
	OwnTag  xport.Tag
	PeerTag xport.Tag

	recv *xport.Conn
	send *xport.Conn
}

func NewTCP(addr string, own, peer xport.Tag) *TCP {
	return &TCP{Addr: addr, OwnTag: own, PeerTag: peer}
}

func (g *TCP) Open() error {
	recv, err := xport.Dial(g.Addr, g.OwnTag)
	if err != nil {
		return err
	}
	send, err := xport.Dial(g.Addr, g.OwnTag)
	if err != nil {
		recv.Close()
		return err
	}
	g.recv, g.send = recv, send
	return nil
}

func (g *TCP) Close() error {
	err1 := g.recv.Close()
	err2 := g.send.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func (g *TCP) ReceiveAll() [][]byte {
	first, err := g.recv.Recv(pollTimeout)
	if err != nil {
		nlog.Warningf("ground/tcp: receive failed: %v", err)
		return nil
	}
	if first == nil {
		return nil
	}
	msgs := [][]byte{first}
	for {
		next, err := g.recv.Recv(0)
		if err != nil || next == nil {
			break
		}
		msgs = append(msgs, next)
	}
	return msgs
}

func (g *TCP) SendAll(frames [][]byte) {
	for _, f := range frames {
		if err := g.send.Send(g.PeerTag, f); err != nil {
			nlog.Warningf("ground/tcp: send failed: %v", err)
		}
	}
}
