// Package main is the ground-side data system daemon entrypoint, grounded
// on the teacher's cmd/authn/main.go flag/signal/config-load pattern.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nasa-jpl/gogds/adapter"
	"github.com/nasa-jpl/gogds/cmn/cos"
	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/config"
	"github.com/nasa-jpl/gogds/dict"
	"github.com/nasa-jpl/gogds/dispatch"
	"github.com/nasa-jpl/gogds/filexfer"
	"github.com/nasa-jpl/gogds/frame"
	"github.com/nasa-jpl/gogds/ground"
	"github.com/nasa-jpl/gogds/history"
	"github.com/nasa-jpl/gogds/hk"
	"github.com/nasa-jpl/gogds/httpapi"
	"github.com/nasa-jpl/gogds/pipeline"
	"github.com/nasa-jpl/gogds/xport"
)

var (
	configPath string
	logDir     string
	httpAddr   string
	xportAddr  string
)

func init() {
	flag.StringVar(&configPath, "config", "", "gdsd configuration file")
	flag.StringVar(&logDir, "logdir", "", "log directory (stderr if unset)")
	flag.StringVar(&httpAddr, "http", ":8080", "history-poll HTTP listen address")
	flag.StringVar(&xportAddr, "xport", ":50000", "internal transport listen address")
}

func main() {
	flag.Parse()
	nlog.SetLogDirRole(logDir, "gdsd")

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			cos.ExitLogf("failed to load configuration from %q: %v", configPath, errors.WithStack(err))
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		cos.ExitLogf("invalid configuration: %v", err)
	}
	config.GCO.Put(cfg)

	go hk.DefaultHK.Run()
	hk.WaitStarted()

	srv := xport.NewServer(xportAddr)
	if err := srv.Open(); err != nil {
		cos.ExitLogf("failed to bind internal transport at %s: %v", xportAddr, errors.WithStack(err))
	}
	defer srv.Close()

	a := buildAdapter(cfg)
	codec := buildCodec(cfg)

	fswTag, _ := xport.NewTag("FSW")
	guiTag, _ := xport.NewTag("GUI")
	g := ground.NewTCP(xportAddr, fswTag, guiTag)
	if err := g.Open(); err != nil {
		cos.ExitLogf("failed to connect ground handler: %v", errors.WithStack(err))
	}
	defer g.Close()

	// One append-only history per record type (spec §3/§4.8): events,
	// channels, and commands each get an independent arena and cursor set.
	events := history.New("events", cfg.SessionInactivityWindow)
	channels := history.New("channels", cfg.SessionInactivityWindow)
	commands := history.New("commands", cfg.SessionInactivityWindow)

	dl := pipeline.NewDownlink(a, codec, g, nil, cfg.ReadTimeout, cfg.QueueDepth)
	dl.Events = events
	dl.Channels = channels
	dl.Commands = commands
	if cfg.DownlinkDir != "" {
		dl.FileSink = filexfer.NewReceiver(cfg.DownlinkDir)
	}
	ul := pipeline.NewUplink(g, codec, a, nil, dl.Outgoing(), cfg.RetryCount)
	dl.Start()
	ul.Start()
	defer func() {
		dl.Stop()
		ul.Stop()
		dl.Join()
		ul.Join()
	}()

	// Dictionary parsing is out of scope (spec §1 Non-goals); an operator
	// populates this from an external loader before commands resolve.
	dispatcher := dispatch.New(dict.NewDictionary(), ul)

	mux := http.NewServeMux()
	mux.Handle("/history/events", httpapi.NewHistoryHandler(events))
	mux.Handle("/history/channels", httpapi.NewHistoryHandler(channels))
	mux.Handle("/history/commands", httpapi.NewHistoryHandler(commands))
	mux.Handle("/command", httpapi.NewDispatchHandler(dispatcher))

	server := &http.Server{Addr: httpAddr, Handler: mux}

	// The HTTP server and the signal wait race to finish first: whichever
	// returns (a listen failure, or SIGINT/SIGTERM) cancels ctx so the other
	// shuts down too. errgroup surfaces whichever error actually ended the
	// process instead of discarding it in a bare goroutine.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		nlog.Infof("gdsd: shutting down")
		return server.Close()
	})
	if err := eg.Wait(); err != nil {
		nlog.Errorf("gdsd: %v", err)
	}
	nlog.Flush(true)
}

func buildAdapter(cfg *config.Config) adapter.Adapter {
	switch cfg.Adapter {
	case config.AdapterIP:
		return adapter.NewIP(cfg.IPAddress)
	case config.AdapterUART:
		return adapter.NewUART(cfg.SerialPort, cfg.SerialBaud)
	default:
		return adapter.NewNone()
	}
}

func buildCodec(cfg *config.Config) frame.Codec {
	cs := frame.CRC32
	if cfg.Checksum == config.ChecksumPermissive {
		cs = frame.Permissive
	}
	switch cfg.Framer {
	case config.FramerCCSDS:
		return frame.NewChain(&frame.CCSDS{}, frame.NewFPrime(cs))
	case config.FramerSDLP:
		return frame.NewSDLP(1, 0)
	default:
		return frame.NewFPrime(cs)
	}
}
