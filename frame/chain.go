// Package frame implements the framing/deframing state machine.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package frame

// Chain composes Codecs so that the output of one framer becomes the input
// to the next (spec §4.2: "Plugin variants... may be chained"), grounded on
// the original's plugins/framing/chain.py composition of a framer list.
type Chain struct {
	codecs []Codec
}

func NewChain(codecs ...Codec) *Chain { return &Chain{codecs: codecs} }

// Frame applies each codec's Frame in order: the first codec frames the raw
// payload, and each subsequent codec frames the previous one's output.
func (c *Chain) Frame(payload []byte) ([]byte, error) {
	cur := payload
	for _, codec := range c.codecs {
		out, err := codec.Frame(cur)
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}

// Deframe applies each codec's Deframe in order on the pool, feeding the
// frames produced by one stage as the payload stream into the next. Only
// the last stage's frames are returned as final output; discarded bytes
// from every stage are concatenated for the caller's sink.
func (c *Chain) Deframe(pool []byte) (frames [][]byte, remaining []byte, discarded []byte) {
	if len(c.codecs) == 0 {
		return nil, pool, nil
	}
	stageFrames, rem, disc := c.codecs[0].Deframe(pool)
	discarded = append(discarded, disc...)
	cur := stageFrames
	for _, codec := range c.codecs[1:] {
		var next [][]byte
		for _, fr := range cur {
			fs, stageRem, stageDisc := codec.Deframe(fr)
			next = append(next, fs...)
			discarded = append(discarded, stageDisc...)
			// a downstream stage's "remaining" on a single already-complete
			// upstream frame indicates a malformed nested frame; treat it
			// as discarded rather than silently dropped.
			discarded = append(discarded, stageRem...)
		}
		cur = next
	}
	return cur, rem, discarded
}
