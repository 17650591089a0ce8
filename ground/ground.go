// Package ground implements the Ground Handler (spec §4.3): delivers
// deframed frames to the internal transport and receives outgoing ground
// packets, in TCP and ZMQ variants sharing one interface. Grounded on the
// teacher's stream-client open/close lifecycle (transport/handler.go)
// generalized to the ground-side {receive_all, send_all} batch contract.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package ground

// Handler is the Ground Handler contract shared by the TCP and ZMQ
// variants (spec §4.3).
type Handler interface {
	Open() error
	Close() error
	// ReceiveAll blocks until at least one message is available or its
	// internal poll timeout expires, then returns every message ready
	// without further blocking.
	ReceiveAll() [][]byte
	// SendAll transmits every frame in order; partial failures are logged
	// internally and do not abort the remaining sends.
	SendAll(frames [][]byte)
}
