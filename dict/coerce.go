// Package dict defines the typed surface that an external dictionary parser
// populates; this file implements string-argument coercion for the command
// dispatch contract (spec §6).
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package dict

import (
	"fmt"
	"strconv"

	"github.com/nasa-jpl/gogds/cmn/cos"
)

// Value is a coerced command argument ready for wire serialization.
type Value struct {
	Type *Type
	I    int64
	U    uint64
	F    float64
	B    bool
	S    string
	A    []Value // KindArray / KindStruct members, in order
}

// CoerceArgs coerces a caller-supplied list of string arguments against a
// command template's ordered argument list. Per spec §7/§6: coercion
// failures are aggregated and reported together; there is no partial
// dispatch, so on any failure the returned slice is nil.
func CoerceArgs(cmd *Command, raw []string) ([]Value, error) {
	if len(raw) != len(cmd.Args) {
		return nil, fmt.Errorf("command %s expects %d argument(s), got %d", cmd.Name, len(cmd.Args), len(raw))
	}
	errs := &cos.Errs{}
	out := make([]Value, len(raw))
	for i, a := range cmd.Args {
		v, err := CoerceOne(a.Type, raw[i])
		if err != nil {
			errs.Add(fmt.Errorf("argument %q: %w", a.Name, err))
			continue
		}
		out[i] = v
	}
	if err := errs.JoinErr(); err != nil {
		return nil, err
	}
	return out, nil
}

// CoerceOne coerces a single string into a typed Value per the enumerated
// type mapping (spec §6).
func CoerceOne(t *Type, raw string) (Value, error) {
	switch t.Kind {
	case KindI8, KindI16, KindI32, KindI64:
		n, err := strconv.ParseInt(raw, 0, bitsOf(t.Kind))
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid %s: %w", raw, t.Kind, err)
		}
		return Value{Type: t, I: n}, nil
	case KindU8, KindU16, KindU32, KindU64:
		n, err := strconv.ParseUint(raw, 0, bitsOf(t.Kind))
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid %s: %w", raw, t.Kind, err)
		}
		return Value{Type: t, U: n}, nil
	case KindF32, KindF64:
		n, err := strconv.ParseFloat(raw, bitsOf(t.Kind))
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid %s: %w", raw, t.Kind, err)
		}
		return Value{Type: t, F: n}, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid bool: %w", raw, err)
		}
		return Value{Type: t, B: b}, nil
	case KindString:
		if t.MaxLen > 0 && len(raw) > t.MaxLen {
			return Value{}, fmt.Errorf("string %q exceeds max length %d", raw, t.MaxLen)
		}
		return Value{Type: t, S: raw}, nil
	case KindEnum:
		n, ok := t.EnumValues[raw]
		if !ok {
			return Value{}, fmt.Errorf("%q is not a valid enumerator", raw)
		}
		return Value{Type: t, I: n}, nil
	default:
		return Value{}, fmt.Errorf("type %s is not coercible from a single string argument", t.Kind)
	}
}

func bitsOf(k Kind) int {
	switch k {
	case KindI8, KindU8:
		return 8
	case KindI16, KindU16:
		return 16
	case KindI32, KindU32, KindF32:
		return 32
	default:
		return 64
	}
}
