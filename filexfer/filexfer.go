// Package filexfer implements the file-transfer contract of spec §6: the
// uplink accepts (source-path, destination-path) and submits a file-packet
// payload through the same framing layer as commands; the downlink side
// writes file packets it receives to a configured directory, rooted to
// prevent path escape. File-transfer packets use the distinct DescFile
// descriptor prefix (spec §3 "payload fingerprint").
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package filexfer

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nasa-jpl/gogds/cmn/cos"
	"github.com/nasa-jpl/gogds/dict"
)

// Uplinker is the subset of pipeline.Uplink the sender needs.
type Uplinker interface {
	Submit(payload []byte)
}

// Sender reads a local source file and submits it as one or more file
// packets. Large files are split into Chunk-sized packets so a single
// transfer never exceeds the frame's payload ceiling.
type Sender struct {
	Uplink Uplinker
	Chunk  int
}

const defaultChunk = 4096

func NewSender(u Uplinker) *Sender { return &Sender{Uplink: u, Chunk: defaultChunk} }

// Send reads sourcePath and submits its contents as destPath-addressed file
// packets: DescFile(U32) || destPathLen(U16) || destPath || chunk-bytes.
func (s *Sender) Send(sourcePath, destPath string) error {
	f, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("filexfer: open %q: %w", sourcePath, err)
	}
	defer f.Close()

	chunkSize := s.Chunk
	if chunkSize <= 0 {
		chunkSize = defaultChunk
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			s.Uplink.Submit(encodeFilePacket(destPath, buf[:n]))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("filexfer: read %q: %w", sourcePath, err)
		}
	}
}

func encodeFilePacket(destPath string, data []byte) []byte {
	out := make([]byte, 4+2+len(destPath)+len(data))
	binary.BigEndian.PutUint32(out[0:4], uint32(dict.DescFile))
	binary.BigEndian.PutUint16(out[4:6], uint16(len(destPath)))
	copy(out[6:], destPath)
	copy(out[6+len(destPath):], data)
	return out
}

// Receiver writes incoming file-packet payloads under Root, a configured
// directory (spec §6: "downlink writes files under a configured directory").
type Receiver struct {
	Root string
}

func NewReceiver(root string) *Receiver { return &Receiver{Root: root} }

// ErrNotFilePacket is returned by Accept when payload does not carry the
// DescFile descriptor prefix.
var ErrNotFilePacket = fmt.Errorf("filexfer: payload is not a file packet")

// Accept parses and appends one file packet's data to its destination file
// under Root, creating parent directories as needed. Appending (rather than
// truncate-per-packet) lets a multi-chunk transfer accumulate in order.
func (r *Receiver) Accept(payload []byte) error {
	if len(payload) < 6 {
		return ErrNotFilePacket
	}
	if dict.Descriptor(binary.BigEndian.Uint32(payload[0:4])) != dict.DescFile {
		return ErrNotFilePacket
	}
	pathLen := int(binary.BigEndian.Uint16(payload[4:6]))
	if len(payload) < 6+pathLen {
		return fmt.Errorf("filexfer: truncated file packet header")
	}
	destPath := string(payload[6 : 6+pathLen])
	data := payload[6+pathLen:]

	full, err := cos.SafeJoin(r.Root, destPath)
	if err != nil {
		return err
	}
	if err := cos.EnsureDir(filepath.Dir(full)); err != nil {
		return err
	}
	out, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("filexfer: open %q: %w", full, err)
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("filexfer: write %q: %w", full, err)
	}
	return nil
}
