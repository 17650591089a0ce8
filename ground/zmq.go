/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package ground

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/nasa-jpl/gogds/cmn/nlog"
)

// ZMQ is the ZeroMQ ground handler (spec §4.7): one PUB socket for outgoing
// traffic and one SUB socket for incoming, filtered by routing tag. Exactly
// one endpoint in a deployment binds (Server=true); all others connect.
// github.com/pebbe/zmq4 is a real ecosystem CZMQ binding, named but not
// pack-grounded (see DESIGN.md) since no retrieved example demonstrates a
// messaging-broker binding.
type ZMQ struct {
	PubAddr, SubAddr string
	Server           bool
	IncomingTag      string
	OutgoingTag      string

	pub *zmq.Socket
	sub *zmq.Socket
}

func NewZMQ(pubAddr, subAddr string, server bool, incoming, outgoing string) *ZMQ {
	return &ZMQ{PubAddr: pubAddr, SubAddr: subAddr, Server: server, IncomingTag: incoming, OutgoingTag: outgoing}
}

func (z *ZMQ) Open() error {
	pub, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return err
	}
	sub, err := zmq.NewSocket(zmq.SUB)
	if err != nil {
		pub.Close()
		return err
	}
	// unlimited high-water marks: no broker sits between peers to buffer.
	_ = pub.SetSndhwm(0)
	_ = sub.SetRcvhwm(0)

	if z.Server {
		if err := pub.Bind(z.PubAddr); err != nil {
			pub.Close()
			sub.Close()
			return err
		}
		if err := sub.Bind(z.SubAddr); err != nil {
			pub.Close()
			sub.Close()
			return err
		}
	} else {
		if err := pub.Connect(z.PubAddr); err != nil {
			pub.Close()
			sub.Close()
			return err
		}
		if err := sub.Connect(z.SubAddr); err != nil {
			pub.Close()
			sub.Close()
			return err
		}
	}
	if err := sub.SetSubscribe(z.IncomingTag); err != nil {
		pub.Close()
		sub.Close()
		return err
	}
	z.pub, z.sub = pub, sub
	return nil
}

func (z *ZMQ) Close() error {
	err1 := z.pub.Close()
	err2 := z.sub.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// ReceiveAll polls for the first message up to the fixed ~10ms poll
// timeout, then drains any further messages already queued without
// blocking; ZMQ's whole-message semantics mean no re-framing is needed.
func (z *ZMQ) ReceiveAll() [][]byte {
	poller := zmq.NewPoller()
	poller.Add(z.sub, zmq.POLLIN)
	sockets, err := poller.Poll(pollTimeout)
	if err != nil || len(sockets) == 0 {
		return nil
	}

	var msgs [][]byte
	for {
		// frames[0] is the subscription-prefix tag, frames[1] is the body.
		frames, err := z.sub.RecvMessageBytes(zmq.DONTWAIT)
		if err != nil {
			break // EAGAIN: nothing further already queued
		}
		if len(frames) >= 2 {
			msgs = append(msgs, frames[1])
		}
	}
	return msgs
}

func (z *ZMQ) SendAll(frames [][]byte) {
	for _, f := range frames {
		if _, err := z.pub.SendMessage(z.OutgoingTag, f); err != nil {
			nlog.Warningf("ground/zmq: send failed: %v", err)
		}
	}
}
