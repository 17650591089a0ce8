/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/dict"
	"github.com/nasa-jpl/gogds/dispatch"
)

type fakeUplinker struct{ submitted [][]byte }

func (f *fakeUplinker) Submit(payload []byte) { f.submitted = append(f.submitted, payload) }

func testDict() *dict.Dictionary {
	d := dict.NewDictionary()
	d.AddCommand(&dict.Command{
		Opcode: 42,
		Name:   "CMD_NOOP",
		Args: []dict.Arg{
			{Name: "count", Type: &dict.Type{Kind: dict.KindU32}},
		},
	})
	return d
}

func TestDispatchSubmitsEncodedCommandOnSuccess(t *testing.T) {
	up := &fakeUplinker{}
	disp := dispatch.New(testDict(), up)

	err := disp.Dispatch("CMD_NOOP", []string{"7"})

	require.NoError(t, err)
	require.Len(t, up.submitted, 1)
	payload := up.submitted[0]
	// DescCommand(0) || opcode(42) || count(7), all big-endian U32.
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 42, 0, 0, 0, 7}, payload)
}

func TestDispatchUnknownCommandNeverInvokesUplinker(t *testing.T) {
	up := &fakeUplinker{}
	disp := dispatch.New(testDict(), up)

	err := disp.Dispatch("NOT_A_COMMAND", nil)

	require.Error(t, err)
	assert.Empty(t, up.submitted)
}

func TestDispatchCoercionFailureNeverInvokesUplinker(t *testing.T) {
	up := &fakeUplinker{}
	disp := dispatch.New(testDict(), up)

	err := disp.Dispatch("CMD_NOOP", []string{"not-a-number"})

	require.Error(t, err)
	assert.Empty(t, up.submitted)
}
