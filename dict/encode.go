// Package dict defines the typed surface that an external dictionary parser
// populates; this file serializes a coerced command invocation to the wire
// bytes the uplinker frames (spec §6 "Command dispatch contract": "...
// serializes via the framer, and enqueues via the uplinker").
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package dict

import (
	"encoding/binary"
	"fmt"
	"math"
)

func float32bits(f float64) uint32 { return math.Float32bits(float32(f)) }
func float64bits(f float64) uint64 { return math.Float64bits(f) }

// EncodeCommand serializes a command invocation to the payload bytes the
// framer wraps: DescCommand(U32) || opcode(U32) || args in declared order,
// each written big-endian per the original's per-type serializable_type
// encoding (fixed-width ints/floats, one-byte bool, length-prefixed string).
func EncodeCommand(cmd *Command, args []Value) ([]byte, error) {
	buf := make([]byte, 8, 32)
	binary.BigEndian.PutUint32(buf[0:4], uint32(DescCommand))
	binary.BigEndian.PutUint32(buf[4:8], cmd.Opcode)

	for i, v := range args {
		enc, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", cmd.Args[i].Name, err)
		}
		buf = append(buf, enc...)
	}
	return buf, nil
}

func encodeValue(v Value) ([]byte, error) {
	switch v.Type.Kind {
	case KindI8, KindU8:
		return []byte{byte(v.I) | byte(v.U)}, nil
	case KindI16, KindU16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(v.I)|uint16(v.U))
		return b, nil
	case KindI32, KindU32, KindEnum:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v.I)|uint32(v.U))
		return b, nil
	case KindI64, KindU64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v.I)|v.U)
		return b, nil
	case KindF32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, float32bits(v.F))
		return b, nil
	case KindF64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, float64bits(v.F))
		return b, nil
	case KindBool:
		if v.B {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case KindString:
		b := make([]byte, 2+len(v.S))
		binary.BigEndian.PutUint16(b[0:2], uint16(len(v.S)))
		copy(b[2:], v.S)
		return b, nil
	case KindArray, KindStruct:
		var out []byte
		for _, m := range v.A {
			enc, err := encodeValue(m)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("type %s has no wire encoding", v.Type.Kind)
	}
}
