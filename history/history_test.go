/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/history"
)

func newTestHistory(t *testing.T) *history.History {
	t.Helper()
	return history.New(t.Name(), time.Hour)
}

func TestNewSessionSeesOnlyFutureData(t *testing.T) {
	h := newTestHistory(t)
	h.Append("a")
	h.Append("b")

	res := h.Retrieve("sess1", history.Unlimited)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Validation)

	h.Append("c")
	res = h.Retrieve("sess1", history.Unlimited)
	assert.Equal(t, []any{"c"}, res.Records)
	assert.Equal(t, 1, res.Validation)
}

// TestRetrieveZeroIsNoOp pins spec §3/§8's retrieve(S, 0): an empty result,
// and the session's cursor must not move, so a later unlimited retrieve
// still sees everything that was pending before the limit=0 call.
func TestRetrieveZeroIsNoOp(t *testing.T) {
	h := newTestHistory(t)
	h.Append("x")
	h.Append("y")

	res := h.Retrieve("s", 0)
	assert.Empty(t, res.Records)

	res = h.Retrieve("s", history.Unlimited)
	assert.Equal(t, []any{"x", "y"}, res.Records)
}

func TestRetrieveIdempotentAfterDrain(t *testing.T) {
	h := newTestHistory(t)
	h.Append("x")
	h.Append("y")

	res := h.Retrieve("s", history.Unlimited)
	require.Len(t, res.Records, 2)

	res = h.Retrieve("s", history.Unlimited)
	assert.Empty(t, res.Records)
}

func TestValidationMonotonicNonDecreasing(t *testing.T) {
	h := newTestHistory(t)
	h.Append("1")
	r1 := h.Retrieve("s", history.Unlimited)
	h.Append("2")
	h.Append("3")
	r2 := h.Retrieve("s", history.Unlimited)
	assert.GreaterOrEqual(t, r2.Validation, r1.Validation)
}

func TestIndependentSessionCursors(t *testing.T) {
	h := newTestHistory(t)
	h.Append("1")

	a := h.Retrieve("a", history.Unlimited)
	require.Len(t, a.Records, 1)

	h.Append("2")
	b := h.Retrieve("b", history.Unlimited) // b created after "2" appended, so sees nothing yet
	assert.Empty(t, b.Records)

	aNext := h.Retrieve("a", history.Unlimited)
	assert.Equal(t, []any{"2"}, aNext.Records)
}

func TestLimitBoundsRetrieve(t *testing.T) {
	h := newTestHistory(t)
	for i := 0; i < 5; i++ {
		h.Append(i)
	}
	res := h.Retrieve("s", 2)
	assert.Len(t, res.Records, 2)
	res = h.Retrieve("s", 2)
	assert.Len(t, res.Records, 2)
	res = h.Retrieve("s", 2)
	assert.Len(t, res.Records, 1)
}

func TestClearTrimsBelowMinCursor(t *testing.T) {
	h := newTestHistory(t)
	h.Append("1")
	h.Append("2")
	h.Retrieve("a", history.Unlimited) // a's cursor now at tail (2)
	h.Append("3")
	h.Retrieve("b", 1) // b reads record "3" only, cursor advances by 1 from its creation tail...

	h.Clear()
	// whichever session has the lowest cursor bounds what's retained; a
	// further retrieve for the most-advanced session should still see
	// only genuinely new data afterward.
	h.Append("4")
	res := h.Retrieve("a", history.Unlimited)
	assert.Equal(t, []any{"3", "4"}, res.Records)
}
