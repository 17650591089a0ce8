// Package cos provides common low-level types and utilities for the gds
// transport core.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"github.com/OneOfOne/xxhash"
	"github.com/teris-io/shortid"

	"github.com/nasa-jpl/gogds/cmn/atomic"
)

const (
	// alphabet for generated session tokens, same family as shortid.DEFAULT_ABC
	tokenABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

	LenSessionToken = 9
)

var (
	sid  *shortid.Shortid
	rtie atomic.Uint32
)

// InitIDGen seeds the process-wide short-ID generator. Call once at startup;
// safe to skip in tests, which fall back to a fixed seed on first use.
func InitIDGen(seed uint64) {
	sid = shortid.MustNew(1, tokenABC, seed)
}

// GenSessionToken generates an opaque per-client session token for callers of
// the history-polling contract (spec §6) that don't supply their own session.
func GenSessionToken() string {
	if sid == nil {
		InitIDGen(1)
	}
	return sid.MustGenerate()
}

// GenTie produces a short, fast tie-breaker string used to disambiguate
// concurrently-created internal transport connection/session IDs.
func GenTie() string {
	tie := rtie.Add(1)
	b0 := tokenABC[tie&0x3f]
	b1 := tokenABC[^tie&0x3f]
	b2 := tokenABC[(tie>>2)&0x3f]
	return string([]byte{b0, b1, b2})
}

// HashTag returns a fast 64-bit digest of a routing tag or session token,
// used to bucket the internal TCP transport's peer registry.
func HashTag(b []byte) uint64 {
	return xxhash.Checksum64(b)
}
