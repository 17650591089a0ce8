//go:build !mono

// Package mono provides low-level monotonic time
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package mono

import "time"

// NanoTime returns a monotonic clock reading in nanoseconds. Only the
// difference between two readings is meaningful.
func NanoTime() int64 { return time.Now().UnixNano() }

// Since is a convenience wrapper returning the elapsed duration since a prior
// NanoTime() reading.
func Since(start int64) time.Duration { return time.Duration(NanoTime() - start) }
