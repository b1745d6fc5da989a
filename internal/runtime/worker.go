// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rapidaai/internal/audio"
	"github.com/rapidaai/internal/batch"
	"github.com/rapidaai/internal/config"
	"github.com/rapidaai/internal/reconcile"
	"github.com/rapidaai/internal/scribe"
)

const (
	readyTimeout     = 5 * time.Second
	postStopFlushWait = 120 * time.Millisecond
)

// Worker owns the lifecycle of one recording session: capturer, ring
// buffer, processing task, and batcher. It is not itself long-lived — the
// dispatcher and injection worker (wired once at process start) outlive
// every Start/Stop cycle.
type Worker struct {
	state    *State
	capturer audio.Capturer

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	client  *scribe.Client
}

func NewWorker(state *State, capturer audio.Capturer) *Worker {
	return &Worker{state: state, capturer: capturer}
}

// Start opens the audio device and the scribe connection concurrently,
// blocking up to 5s for both to become ready, then launches the processing
// task and batcher goroutines. It resets the partial tracker for the new
// session.
func (w *Worker) Start(parent context.Context, cfg config.Settings) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.IsRecording() {
		return ErrAlreadyRecording
	}

	ctx, cancel := context.WithCancel(parent)

	audioCfg := audio.DefaultConfig()
	ring := audio.NewRingBuffer(w.state.Logger, audioCfg.RingCapacity())

	client := w.state.ClientFor(cfg.APIKey, cfg.LanguageCode)
	events := client.Subscribe()

	w.state.WithTracker(func(t *reconcile.Tracker) {
		t.ResetForSession()
	})

	readyCtx, readyCancel := context.WithTimeout(ctx, readyTimeout)
	defer readyCancel()

	g, gctx := errgroup.WithContext(readyCtx)
	g.Go(func() error {
		opened, err := w.capturer.Open(audioCfg, func(frame []float32) {
			mono := audio.InterleavedF32ToMono(frame, int(audioCfg.Channels))
			ring.Push(mono)
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDevice, err)
		}
		audioCfg = opened
		return nil
	})
	g.Go(func() error {
		return client.Connect(gctx)
	})

	if err := g.Wait(); err != nil {
		cancel()
		if readyCtx.Err() != nil {
			return ErrNotReady
		}
		return err
	}

	processed := make(chan audio.ProcessedChunk, 16)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := audio.ProcessingTask(ctx, w.state.Logger, ring, audioCfg, processed, nil); err != nil {
			w.state.Logger.Warnf("audio processing task ended: %v", err)
		}
	}()

	batcher := batch.NewBatcher(w.state.Logger, client, w.state.Metrics, batch.Policy{}, w.state.VoiceActivity)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		batcher.Run(ctx, processed, nowMs)
	}()

	_ = events // not read here; the dispatcher reads its own subscription, made by the caller

	w.cancel = cancel
	w.client = client
	w.state.setRecording(true)
	return nil
}

// Stop signals the capturer and pipeline to wind down, waits for the last
// batch to flush, then disconnects the websocket. It blocks until the
// worker's goroutines have fully joined.
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.IsRecording() {
		return ErrNotRecording
	}

	_ = w.capturer.Close()
	time.Sleep(postStopFlushWait)
	_ = w.client.Flush()

	w.cancel()
	w.wg.Wait()

	_ = w.client.Disconnect()
	w.state.setRecording(false)
	return nil
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
