// Package dispatch implements the command dispatch contract of spec §6:
// a caller supplies a command name and its arguments as strings; the
// dictionary template is looked up, arguments are coerced and aggregated
// on failure, the result is serialized via the framer, and the framed
// bytes are enqueued via the uplinker. No partial submission ever reaches
// the uplinker.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package dispatch

import (
	"github.com/nasa-jpl/gogds/dict"
)

// Uplinker is the subset of pipeline.Uplink the dispatcher needs: a way to
// hand a already-resolved payload to the byte adapter with retry.
type Uplinker interface {
	Submit(payload []byte)
}

// Dispatcher resolves and submits commands against a fixed dictionary.
type Dispatcher struct {
	Dict    *dict.Dictionary
	Uplink  Uplinker
}

func New(d *dict.Dictionary, u Uplinker) *Dispatcher {
	return &Dispatcher{Dict: d, Uplink: u}
}

// Dispatch resolves name against the dictionary, coerces args, and submits
// the encoded command. Per spec §7: a dictionary lookup miss or an
// argument-coercion failure is returned to the caller without invoking the
// uplinker.
func (d *Dispatcher) Dispatch(name string, args []string) error {
	cmd, err := d.Dict.Lookup(name)
	if err != nil {
		return err
	}
	values, err := dict.CoerceArgs(cmd, args)
	if err != nil {
		return err
	}
	payload, err := dict.EncodeCommand(cmd, values)
	if err != nil {
		return err
	}
	d.Uplink.Submit(payload)
	return nil
}
