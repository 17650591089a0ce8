/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package adapter

import (
	"sync"
	"time"

	"github.com/nasa-jpl/gogds/cmn/nlog"
)

// None is the disabled byte adapter, matching the original's NoneAdapter:
// read blocks until closed (never producing bytes), write always fails.
// Unlike the original, which raises NotImplementedError, this adapter logs
// and returns a failure value so no exception-equivalent escapes.
type None struct {
	closeCh chan struct{}
	once    sync.Once
}

func NewNone() *None { return &None{closeCh: make(chan struct{})} }

func (a *None) Open() error { return nil }

func (a *None) Close() error {
	a.once.Do(func() { close(a.closeCh) })
	return nil
}

func (a *None) Read(timeout time.Duration) []byte {
	select {
	case <-a.closeCh:
		return nil
	case <-time.After(timeout):
		return nil
	}
}

func (a *None) Write([]byte) bool {
	nlog.Warningf("adapter/none: %v", ErrDisabled)
	return false
}
