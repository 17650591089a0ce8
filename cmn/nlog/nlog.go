// Package nlog is the gds logger: leveled, timestamped, with optional
// file output and buffered writes, adapted from the flat Infof/Warningf/Errorf
// surface aistore's nlog exposes.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var sevTag = [...]byte{sevInfo: 'I', sevWarn: 'W', sevErr: 'E'}

var (
	toStderr     bool
	alsoToStderr bool

	logDir, role, title string

	mw  sync.Mutex
	out *bufio.Writer
	f   *os.File
)

func InitFlags(flset *flag.FlagSet) {
	flset.BoolVar(&toStderr, "logtostderr", false, "log to standard error instead of files")
	flset.BoolVar(&alsoToStderr, "alsologtostderr", false, "log to standard error as well as files")
}

func SetLogDirRole(dir, r string) { logDir, role = dir, r }
func SetTitle(s string)           { title = s }

func InfoLogName() string { return sname() + ".INFO" }
func ErrLogName() string  { return sname() + ".ERROR" }

func sname() string {
	if title == "" {
		return role
	}
	return title + "." + role
}

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth+1, "", args...) }
func Infoln(args ...any)                  { log(sevInfo, 1, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 1, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 1, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 1, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth+1, "", args...) }
func Errorln(args ...any)                 { log(sevErr, 1, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 1, format, args...) }

func log(sev severity, depth int, format string, args ...any) {
	line := render(sev, depth, format, args...)
	mw.Lock()
	defer mw.Unlock()

	if toStderr || (alsoToStderr) || sev >= sevErr || out == nil {
		os.Stderr.WriteString(line)
	}
	if out != nil && !toStderr {
		out.WriteString(line)
	}
}

func render(sev severity, depth int, format string, args ...any) string {
	var msg string
	if format == "" {
		msg = fmt.Sprintln(args...)
	} else {
		msg = fmt.Sprintf(format, args...)
		if len(msg) == 0 || msg[len(msg)-1] != '\n' {
			msg += "\n"
		}
	}
	_, file, line, ok := runtime.Caller(depth + 2)
	if !ok {
		file, line = "???", 0
	} else {
		file = filepath.Base(file)
	}
	now := time.Now()
	return fmt.Sprintf("%c%02d%02d %02d:%02d:%02d.%06d %s:%d] %s",
		sevTag[sev], now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond()/1e3,
		file, line, msg)
}

// Flush opens (lazily) and syncs the log file. When exit is true, it also
// closes the file; it is safe to call repeatedly.
func Flush(exit ...bool) {
	ex := len(exit) > 0 && exit[0]
	mw.Lock()
	defer mw.Unlock()
	if out == nil {
		if !ex {
			openLocked()
		}
		if out == nil {
			return
		}
	}
	out.Flush()
	if ex {
		f.Sync()
		f.Close()
		out, f = nil, nil
	}
}

// under mw-lock
func openLocked() {
	if logDir == "" || toStderr {
		return
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return
	}
	name := filepath.Join(logDir, sname()+".log")
	fh, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	f = fh
	out = bufio.NewWriterSize(f, 32*1024)
}

func init() {
	go func() {
		for range time.Tick(10 * time.Second) {
			Flush()
		}
	}()
}
