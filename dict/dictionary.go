// Package dict defines the typed surface that an external dictionary parser
// populates; Dictionary is the aggregate lookup table by opcode/id/name.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package dict

import "fmt"

// Descriptor is the 32-bit payload-kind prefix inside every payload (spec
// §3 "payload fingerprint" / GLOSSARY "Descriptor"). Values per the
// original's utils/data_desc_type.py enumeration.
type Descriptor uint32

const (
	DescCommand   Descriptor = 0
	DescHandshake Descriptor = 5
	DescFile      Descriptor = 6
	DescTelemetry Descriptor = 7
	DescEvent     Descriptor = 8
)

// Dictionary aggregates commands/events/channels by id and by name.
type Dictionary struct {
	CommandsByOpcode map[uint32]*Command
	CommandsByName   map[string]*Command
	EventsByID       map[uint32]*Event
	ChannelsByID     map[uint32]*Channel
	ChannelsByName   map[string]*Channel
}

func NewDictionary() *Dictionary {
	return &Dictionary{
		CommandsByOpcode: make(map[uint32]*Command),
		CommandsByName:   make(map[string]*Command),
		EventsByID:       make(map[uint32]*Event),
		ChannelsByID:     make(map[uint32]*Channel),
		ChannelsByName:   make(map[string]*Channel),
	}
}

func (d *Dictionary) AddCommand(c *Command) {
	d.CommandsByOpcode[c.Opcode] = c
	d.CommandsByName[c.Name] = c
}

func (d *Dictionary) AddEvent(e *Event) { d.EventsByID[e.ID] = e }

func (d *Dictionary) AddChannel(c *Channel) {
	d.ChannelsByID[c.ID] = c
	d.ChannelsByName[c.Name] = c
}

// ErrUnknownCommand is returned by Lookup when the dispatch contract's
// caller-supplied command name has no dictionary entry (spec §7: "Dictionary
// lookup miss").
type ErrUnknownCommand struct{ Name string }

func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// Lookup resolves a command by its qualified name, as the command dispatch
// contract (spec §6) requires before any argument coercion is attempted.
func (d *Dictionary) Lookup(name string) (*Command, error) {
	cmd, ok := d.CommandsByName[name]
	if !ok {
		return nil, &ErrUnknownCommand{Name: name}
	}
	return cmd, nil
}
