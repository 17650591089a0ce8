/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package filexfer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/filexfer"
)

func TestSendSplitsIntoChunkSizedPackets(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("abcdefghij"), 0o644))

	up := &recordingUplinker{}
	sender := filexfer.NewSender(up)
	sender.Chunk = 4

	require.NoError(t, sender.Send(src, "remote/out.bin"))

	assert.Len(t, up.submitted, 3) // 4 + 4 + 2 bytes
}

func TestReceiveAcceptAppendsAcrossPackets(t *testing.T) {
	root := t.TempDir()
	recv := filexfer.NewReceiver(root)

	up := &recordingUplinker{}
	sender := filexfer.NewSender(up)
	sender.Chunk = 4
	src := filepath.Join(t.TempDir(), "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o644))
	require.NoError(t, sender.Send(src, "nested/dest.bin"))

	for _, pkt := range up.submitted {
		require.NoError(t, recv.Accept(pkt))
	}

	got, err := os.ReadFile(filepath.Join(root, "nested/dest.bin"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestAcceptRejectsPathEscape(t *testing.T) {
	root := t.TempDir()
	recv := filexfer.NewReceiver(root)

	up := &recordingUplinker{}
	sender := filexfer.NewSender(up)
	src := filepath.Join(t.TempDir(), "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, sender.Send(src, "../../etc/passwd"))

	require.Len(t, up.submitted, 1)
	err := recv.Accept(up.submitted[0])
	assert.Error(t, err)
}

func TestAcceptRejectsNonFilePacket(t *testing.T) {
	recv := filexfer.NewReceiver(t.TempDir())
	err := recv.Accept([]byte{0, 0, 0, 1, 0, 0})
	assert.ErrorIs(t, err, filexfer.ErrNotFilePacket)
}

type recordingUplinker struct{ submitted [][]byte }

func (r *recordingUplinker) Submit(payload []byte) { r.submitted = append(r.submitted, payload) }
