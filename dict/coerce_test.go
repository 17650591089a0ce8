/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package dict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/dict"
)

func noOpCmd() *dict.Command {
	return &dict.Command{
		Opcode: 1,
		Name:   "NO_OP",
		Args: []dict.Arg{
			{Name: "count", Type: &dict.Type{Kind: dict.KindU32}},
			{Name: "label", Type: &dict.Type{Kind: dict.KindString, MaxLen: 8}},
		},
	}
}

func TestCoerceArgsSuccess(t *testing.T) {
	vals, err := dict.CoerceArgs(noOpCmd(), []string{"42", "hi"})
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.EqualValues(t, 42, vals[0].U)
	assert.Equal(t, "hi", vals[1].S)
}

func TestCoerceArgsAggregatesFailures(t *testing.T) {
	_, err := dict.CoerceArgs(noOpCmd(), []string{"not-a-number", "this label is way too long"})
	require.Error(t, err)
	// both failures must be present - no partial dispatch, fail-together semantics
	assert.Contains(t, err.Error(), "count")
	assert.Contains(t, err.Error(), "label")
}

func TestCoerceArgsWrongArity(t *testing.T) {
	_, err := dict.CoerceArgs(noOpCmd(), []string{"1"})
	assert.Error(t, err)
}

func TestDictionaryLookupMiss(t *testing.T) {
	d := dict.NewDictionary()
	_, err := d.Lookup("DOES_NOT_EXIST")
	require.Error(t, err)
	var unknown *dict.ErrUnknownCommand
	assert.ErrorAs(t, err, &unknown)
}
