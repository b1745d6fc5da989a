// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import (
	"sync/atomic"

	"github.com/rapidaai/pkg/commons"
)

// RingBuffer is a single-producer single-consumer bounded queue of raw audio
// chunks. Push is wait-free and never blocks the caller (the audio driver's
// callback thread): on a full buffer it drops the chunk and counts it. Pop is
// non-blocking; callers are expected to back off themselves when it reports
// nothing available (see the processing task's 10ms sleep).
//
// The slot array is sized to a power of two so index wrapping is a mask
// instead of a modulo, matching how rtrb lays out its ring.
type RingBuffer struct {
	logger commons.Logger

	slots []ringSlot
	mask  uint64

	head uint64 // next slot the consumer will read
	tail uint64 // next slot the producer will write

	dropped       atomic.Uint64
	consumerTaken atomic.Bool
}

type ringSlot struct {
	chunk []float32
	full  atomic.Bool
}

const dropWarnEvery = 100

// NewRingBuffer allocates a ring with at least `capacity` slots, rounded up
// to the next power of two.
func NewRingBuffer(logger commons.Logger, capacity int) *RingBuffer {
	size := nextPowerOfTwo(capacity)
	rb := &RingBuffer{
		logger: logger,
		slots:  make([]ringSlot, size),
		mask:   uint64(size - 1),
	}
	return rb
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		n = 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Push attempts to enqueue chunk without blocking. On success it returns
// true; on a full ring it increments the drop counter, warns every 100th
// drop, and returns false. The producer owns `chunk` going in and must not
// reuse the backing slice afterwards.
func (rb *RingBuffer) Push(chunk []float32) bool {
	tail := rb.tail
	idx := tail & rb.mask
	slot := &rb.slots[idx]

	if slot.full.Load() {
		dropped := rb.dropped.Add(1)
		if dropped%dropWarnEvery == 0 && rb.logger != nil {
			rb.logger.Warnf("ring buffer full, dropped %d chunks so far", dropped)
		}
		return false
	}

	slot.chunk = chunk
	slot.full.Store(true)
	rb.tail = tail + 1
	return true
}

// Pop attempts to dequeue one chunk without blocking. ok is false when the
// ring is currently empty; callers should back off (sleep) before retrying.
func (rb *RingBuffer) Pop() (chunk []float32, ok bool) {
	head := rb.head
	idx := head & rb.mask
	slot := &rb.slots[idx]

	if !slot.full.Load() {
		return nil, false
	}

	chunk = slot.chunk
	slot.chunk = nil
	slot.full.Store(false)
	rb.head = head + 1
	return chunk, true
}

// DroppedCount returns the total number of chunks dropped because the ring
// was full.
func (rb *RingBuffer) DroppedCount() uint64 {
	return rb.dropped.Load()
}

// Consumer returns the single allowed consumer handle. Calling it twice is a
// programming error (I1: exactly one consumer) and returns
// ErrConsumerAlreadyTaken on the second call.
func (rb *RingBuffer) Consumer() (*RingBuffer, error) {
	if !rb.consumerTaken.CompareAndSwap(false, true) {
		return nil, ErrConsumerAlreadyTaken
	}
	return rb, nil
}
