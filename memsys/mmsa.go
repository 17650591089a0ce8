// Package memsys provides pooled byte-buffer allocation for the framing and
// transport layers, trading aistore's full scatter-gather MMSA/SGL subsystem
// (size-pressure monitoring, periodic idle-slab reaping, multiple named
// arenas) for the narrow slice this repo actually exercises: fixed-size-class
// buffers handed to deframer pools and TCP/ZMQ read loops, reclaimed by
// sync.Pool instead of an MMSA freelist. Grounded on the original's
// memsys/mem2.go slab-size-class layout (PageSize-indexed slabs) and its test
// file's Slab.Tag()/AllocSize-by-size calling convention.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"fmt"
	"sync"
)

const (
	PageSize        = 4 * 1024
	NumPageSlabs    = 32
	MaxPageSlabSize = NumPageSlabs * PageSize
	DefaultBufSize  = 32 * 1024
)

// Slab is one size class: a sync.Pool of same-sized byte slices.
type Slab struct {
	pool sync.Pool
	size int64
	id   int
}

func (s *Slab) Size() int64    { return s.size }
func (s *Slab) Tag() string    { return fmt.Sprintf("page-%d", s.id) }

func (s *Slab) alloc() []byte {
	if b, ok := s.pool.Get().([]byte); ok {
		return b[:s.size]
	}
	return make([]byte, s.size)
}

func (s *Slab) free(buf []byte) { s.pool.Put(buf[:cap(buf)]) } //nolint:staticcheck // reuse full capacity

// MMSA ("multi-memory slab allocator," after the original's naming) owns a
// ladder of page-multiple Slabs plus an overflow path for anything larger.
type MMSA struct {
	Name   string
	slabs  [NumPageSlabs]*Slab
	hits   [NumPageSlabs]int64
	mu     sync.Mutex
	inited bool
}

var (
	pageMM     *MMSA
	pageMMOnce sync.Once
)

// PageMM returns the process-wide default allocator, lazily initialized.
func PageMM() *MMSA {
	pageMMOnce.Do(func() {
		pageMM = &MMSA{Name: "page-mm"}
		pageMM.Init()
	})
	return pageMM
}

func (m *MMSA) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inited {
		return
	}
	for i := range m.slabs {
		m.slabs[i] = &Slab{size: int64(i+1) * PageSize, id: i + 1}
	}
	m.inited = true
}

// GetSlab returns the slab for an exact page-multiple size, or an error if
// size isn't a positive multiple of PageSize within the ladder's range.
func (m *MMSA) GetSlab(size int64) (*Slab, error) {
	if size <= 0 || size%PageSize != 0 {
		return nil, fmt.Errorf("memsys: size %d is not a positive multiple of PageSize", size)
	}
	idx := int(size/PageSize) - 1
	if idx < 0 || idx >= NumPageSlabs {
		return nil, fmt.Errorf("memsys: size %d exceeds max page-slab size %d", size, MaxPageSlabSize)
	}
	return m.slabs[idx], nil
}

// AllocSize returns a buffer of at least size bytes and the Slab it came
// from (nil if the request overflowed the page ladder and was satisfied with
// a plain heap allocation instead).
func (m *MMSA) AllocSize(size int64) ([]byte, *Slab) {
	if size <= 0 {
		size = DefaultBufSize
	}
	if size > MaxPageSlabSize {
		return make([]byte, size), nil
	}
	idx := (size + PageSize - 1) / PageSize
	if idx < 1 {
		idx = 1
	}
	slab := m.slabs[idx-1]
	m.mu.Lock()
	m.hits[idx-1]++
	m.mu.Unlock()
	return slab.alloc()[:size], slab
}

// Free returns buf to its originating slab; a nil slab (overflow allocation)
// is simply dropped for GC to reclaim.
func (m *MMSA) Free(buf []byte, slab *Slab) {
	if slab == nil {
		return
	}
	slab.free(buf)
}

// Stats reports per-size-class allocation counts, e.g. for a stats exporter.
type Stats struct {
	Hits [NumPageSlabs]int64
}

func (m *MMSA) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s Stats
	copy(s.Hits[:], m.hits[:])
	return s
}
