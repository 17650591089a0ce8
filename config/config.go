// Package config defines the explicit, flat configuration structs for every
// pluggable component of the gds transport core (§9 Design Notes:
// "Configuration objects"), plus a process-wide atomic holder analogous to
// the teacher's cmn.GCO.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"fmt"
	"time"
)

type (
	AdapterKind   string
	FramerKind    string
	TransportKind string
	ChecksumKind  string
)

const (
	AdapterIP   AdapterKind = "ip"
	AdapterUART AdapterKind = "uart"
	AdapterNone AdapterKind = "none"

	FramerFPrime FramerKind = "fprime"
	FramerCCSDS  FramerKind = "ccsds"
	FramerSDLP   FramerKind = "sdlp"

	TransportTCP TransportKind = "tcp"
	TransportZMQ TransportKind = "zmq"

	ChecksumCRC32     ChecksumKind = "crc32"
	ChecksumPermissive ChecksumKind = "permissive"
)

// Config is the single, explicit configuration object threaded through every
// component constructor in place of keyword-style construction.
type Config struct {
	// Byte Adapter (§4.1)
	Adapter     AdapterKind
	IPAddress   string // host:port of the flight-software binary, for AdapterIP
	SerialPort  string // device path, for AdapterUART
	SerialBaud  int

	// Framer/Deframer (§4.2)
	Framer       FramerKind
	Checksum     ChecksumKind
	MaxPayload   uint32 // pinned to 2^32-1 ceiling per §9 Open Question

	// Internal transport (§4.6-4.7)
	Transport     TransportKind
	TCSAddr       string // internal TCP transport bind/connect address
	TCSPort       int
	ZMQTransportURLs [2]string // [0]=incoming, [1]=outgoing - §9: "two-URL" form

	// Pipeline (§4.4-4.5)
	RetryCount  int
	QueueDepth  int
	ReadTimeout time.Duration

	// Session history (§4.8)
	SessionInactivityWindow time.Duration
	HistoryLimit            int

	// File transfer (§6)
	UplinkDir   string
	DownlinkDir string

	// discard sink
	DiscardedSinkPath string
}

// Default returns a Config populated with the spec's documented defaults.
func Default() *Config {
	return &Config{
		Adapter:    AdapterNone,
		Framer:     FramerFPrime,
		Checksum:   ChecksumCRC32,
		MaxPayload: maxUint32Minus1,

		Transport: TransportTCP,
		TCSAddr:   "127.0.0.1",
		TCSPort:   50000,

		RetryCount:  3,
		QueueDepth:  5000,
		ReadTimeout: 500 * time.Millisecond,

		SessionInactivityWindow: 60 * time.Second,
		HistoryLimit:            2000,
	}
}

const maxUint32Minus1 = ^uint32(0) - 1

func (c *Config) Validate() error {
	switch c.Adapter {
	case AdapterIP, AdapterUART, AdapterNone:
	default:
		return fmt.Errorf("invalid adapter kind %q", c.Adapter)
	}
	switch c.Framer {
	case FramerFPrime, FramerCCSDS, FramerSDLP:
	default:
		return fmt.Errorf("invalid framer kind %q", c.Framer)
	}
	switch c.Transport {
	case TransportTCP, TransportZMQ:
	default:
		return fmt.Errorf("invalid transport kind %q", c.Transport)
	}
	switch c.Checksum {
	case ChecksumCRC32, ChecksumPermissive:
	default:
		return fmt.Errorf("invalid checksum kind %q", c.Checksum)
	}
	if c.MaxPayload == 0 || c.MaxPayload > maxUint32Minus1 {
		return fmt.Errorf("max payload %d out of range", c.MaxPayload)
	}
	if c.RetryCount <= 0 {
		return fmt.Errorf("retry count must be positive")
	}
	if c.QueueDepth <= 0 {
		return fmt.Errorf("queue depth must be positive")
	}
	return nil
}
