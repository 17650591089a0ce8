// Package cos provides common low-level types and utilities for the gds
// transport core.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/nasa-jpl/gogds/cmn/nlog"
)

// Errs aggregates distinct errors up to a small cap, used wherever the spec
// calls for "aggregated list of per-argument error messages" (command
// argument coercion) rather than failing fast on the first bad argument.
type Errs struct {
	errs []error
	mu   sync.Mutex
}

const maxErrs = 8

func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			return
		}
	}
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
	}
}

func (e *Errs) Cnt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs)
}

// JoinErr returns nil if no errors were added, otherwise a single error
// joining all aggregated errors (errors.Join semantics: Is/As see through it).
func (e *Errs) JoinErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	return errors.Join(e.errs...)
}

func (e *Errs) Error() string {
	if err := e.JoinErr(); err != nil {
		return err.Error()
	}
	return ""
}

//
// syscall / transient-error classification - used by adapters and transport
// peers to decide "reconnect silently" vs "surface as fatal"
//

func IsErrConnectionRefused(err error) bool { return errors.Is(err, syscall.ECONNREFUSED) }
func IsErrConnectionReset(err error) bool   { return errors.Is(err, syscall.ECONNRESET) }
func IsErrBrokenPipe(err error) bool        { return errors.Is(err, syscall.EPIPE) }
func IsErrTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// IsRetriableConnErr reports whether err represents a transient condition
// that an adapter or transport peer should recover from internally (§7:
// "Transient I/O") rather than surface to its caller.
func IsRetriableConnErr(err error) bool {
	return IsErrConnectionRefused(err) || IsErrConnectionReset(err) || IsErrBrokenPipe(err) || IsErrTimeout(err)
}

//
// fatal-exit helpers (§7: "inability to bind the internal transport at
// startup, or to open the dictionary" - reported once, non-zero exit)
//

const fatalPrefix = "FATAL ERROR: "

func ExitLogf(f string, a ...any) {
	msg := fmt.Sprintf(fatalPrefix+f, a...)
	nlog.ErrorDepth(1, msg)
	nlog.Flush(true)
	_exit(msg)
}

func _exit(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
