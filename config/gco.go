// Package config defines the explicit, flat configuration structs for every
// pluggable component of the gds transport core.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package config

import "sync/atomic"

// globalConfigOwner holds the current process-wide Config behind an atomic
// pointer so read-mostly access (every component's hot path) never takes a
// lock, while updates swap the whole struct - same pattern as the teacher's
// cmn.GCO.
type globalConfigOwner struct {
	v atomic.Value
}

var GCO = &globalConfigOwner{}

func init() {
	GCO.Put(Default())
}

func (o *globalConfigOwner) Put(cfg *Config) { o.v.Store(cfg) }
func (o *globalConfigOwner) Get() *Config    { return o.v.Load().(*Config) }
