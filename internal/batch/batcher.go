// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package batch

import (
	"context"
	"time"

	"github.com/rapidaai/internal/audio"
	"github.com/rapidaai/internal/metrics"
	"github.com/rapidaai/pkg/commons"
)

const (
	flushIntervalMs    = 180
	maxBatchChunks     = 3
	slowSendMs         = 250
	silenceGraceChunks = 12
)

// Sender is the outbound side of the batcher: whatever can push a flushed
// batch of mono 16kHz samples over the network (the scribe client).
type Sender interface {
	SendAudio(ctx context.Context, samples []int16) error
}

// Policy carries the tunables a host can change between sessions.
type Policy struct {
	SilenceSuppressionEnabled bool
}

// Batcher accumulates ProcessedChunk samples into bounded batches (by count
// or elapsed time) before handing them to a Sender, and derives the voice
// activity signal other components gate on.
type Batcher struct {
	logger  commons.Logger
	sender  Sender
	metrics *metrics.Runtime
	policy  Policy

	lastVoiceActivityMs *VoiceActivityClock

	silentStreak int
}

// VoiceActivityClock is the cross-goroutine last-voice-activity timestamp.
// It is a thin wrapper so the dispatcher and batcher can share one without
// passing raw atomics around.
type VoiceActivityClock struct {
	ms atomicUint64
}

func NewVoiceActivityClock() *VoiceActivityClock { return &VoiceActivityClock{} }

func (c *VoiceActivityClock) Touch(nowMs uint64)   { c.ms.storeIfGreater(nowMs) }
func (c *VoiceActivityClock) Load() uint64         { return c.ms.load() }

func NewBatcher(logger commons.Logger, sender Sender, m *metrics.Runtime, policy Policy, vac *VoiceActivityClock) *Batcher {
	return &Batcher{logger: logger, sender: sender, metrics: m, policy: policy, lastVoiceActivityMs: vac}
}

// Run consumes processed chunks from in until ctx is cancelled, flushing on
// a 180ms tick or once the batch reaches 3 chunks.
func (b *Batcher) Run(ctx context.Context, in <-chan audio.ProcessedChunk, nowMs func() uint64) {
	ticker := time.NewTicker(flushIntervalMs * time.Millisecond)
	defer ticker.Stop()

	var batch []int16
	batchChunks := 0

	flush := func() {
		if batchChunks == 0 {
			return
		}
		start := time.Now()
		err := b.sender.SendAudio(ctx, batch)
		elapsed := time.Since(start)
		if err != nil {
			b.logger.Warnf("audio batch send failed: %v", err)
		} else {
			b.metrics.SentAudioBatches.Add(1)
			b.metrics.SentAudioChunks.Add(uint64(batchChunks))
			b.metrics.NetworkSend.Record(float64(elapsed.Milliseconds()))
			if elapsed.Milliseconds() > slowSendMs {
				b.logger.Warnf("slow audio send: %dms", elapsed.Milliseconds())
			}
		}
		batch = batch[:0]
		batchChunks = 0
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-ticker.C:
			flush()
		case chunk, ok := <-in:
			if !ok {
				flush()
				return
			}
			b.observeVoiceActivity(chunk.Samples, nowMs())
			if b.policy.SilenceSuppressionEnabled && b.shouldSuppress(chunk.Samples) {
				continue
			}
			batch = append(batch, chunk.Samples...)
			batchChunks++
			if batchChunks >= maxBatchChunks {
				flush()
			}
		}
	}
}

func (b *Batcher) observeVoiceActivity(samples []int16, nowMs uint64) {
	if audio.DetectVoiceActivity(samples) {
		b.lastVoiceActivityMs.Touch(nowMs)
		b.silentStreak = 0
	}
}

func (b *Batcher) shouldSuppress(samples []int16) bool {
	if !audio.IsSilentChunk(samples) {
		b.silentStreak = 0
		return false
	}
	b.silentStreak++
	return b.silentStreak > silenceGraceChunks
}
