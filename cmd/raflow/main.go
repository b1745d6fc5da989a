// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Command raflow is the process entrypoint: it loads configuration, wires
// the long-lived dispatcher and injection worker once at startup, and
// drives a single recording session end to end. A host embedding this core
// as a library would instead construct runtime.State directly and call
// Worker.Start/Stop from its own UI event loop; this binary exists so the
// pipeline can run standalone.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rapidaai/internal/audio"
	"github.com/rapidaai/internal/config"
	"github.com/rapidaai/internal/dispatch"
	"github.com/rapidaai/internal/inject"
	"github.com/rapidaai/internal/reconcile"
	"github.com/rapidaai/internal/runtime"
	"github.com/rapidaai/pkg/commons"
)

func main() {
	logPath := flag.String("log-file", "", "path to a rotating log file; stderr only if empty")
	flag.Parse()

	settings, err := config.Load(nil)
	if err != nil {
		log.Fatalf("raflow: invalid configuration: %v", err)
	}

	logger, err := commons.NewApplicationLogger(settings.LogLevel, *logPath)
	if err != nil {
		log.Fatalf("raflow: failed to build logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("raflow: shutdown signal received")
		cancel()
	}()

	state := runtime.NewState(logger, nil)
	state.SetHotkey(settings.Hotkey)

	clipboard := &inject.InMemoryClipboard{}
	injectorMaker := func() inject.TextInjector {
		return inject.NewDefaultTextInjector(inject.NoopKeystrokeBackend{}, clipboard)
	}
	// The commit resolver only ever calls WriteClipboardOnly, which is
	// stateless with respect to keystroke delivery, so one injector can be
	// shared across commits rather than minted fresh per call.
	clipboardWriter := injectorMaker()

	dispatcher := dispatch.New(
		logger,
		dispatch.Config{
			LanguageCode: settings.LanguageCode,
			Rewrite: reconcile.RewriteConfig{
				RewriteEnabled: settings.PartialRewriteEnabled,
				MaxBackspace:   settings.PartialRewriteMaxBackspace,
				WindowMs:       settings.PartialRewriteWindowMs,
			},
		},
		state.Tracker,
		state.VoiceActivity,
		dispatch.AlwaysAvailableCursor{},
		state.CommittedQueue,
		state.InjectionNotify,
		state.Emitter,
		injectorMaker,
		clipboardWriter,
	)

	injectionWorker := inject.NewWorker(logger, state.CommittedQueue, state.InjectionNotify, injectorMaker, state.Metrics, state.Emitter)
	go injectionWorker.Run(ctx, nowMs)

	capturer := audio.NewSyntheticCapturer(logger, nil)
	worker := runtime.NewWorker(state, capturer)

	if err := startSession(ctx, worker, dispatcher, state, settings); err != nil {
		logger.Errorf("raflow: failed to start recording session: %v", err)
		os.Exit(1)
	}
	logger.Info("raflow: recording started")

	<-ctx.Done()

	if err := worker.Stop(); err != nil {
		logger.Warnf("raflow: stop returned error: %v", err)
	}
	logger.Info("raflow: shut down cleanly")
}

// startSession binds the scribe client's event stream to the long-lived
// dispatcher before the worker dials out, so no event can be dropped
// between connect and subscribe.
func startSession(ctx context.Context, worker *runtime.Worker, dispatcher *dispatch.Dispatcher, state *runtime.State, settings config.Settings) error {
	client := state.ClientFor(settings.APIKey, settings.LanguageCode)
	go dispatcher.Run(ctx, client.Subscribe(), nowMs)
	return worker.Start(ctx, settings)
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
