// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package batch

import "testing"

func TestAtomicUint64StoreIfGreaterIsMonotonic(t *testing.T) {
	var a atomicUint64
	a.storeIfGreater(10)
	if a.load() != 10 {
		t.Fatalf("expected 10, got %d", a.load())
	}
	a.storeIfGreater(5)
	if a.load() != 10 {
		t.Fatalf("lower value must not move the counter back, got %d", a.load())
	}
	a.storeIfGreater(20)
	if a.load() != 20 {
		t.Fatalf("expected 20, got %d", a.load())
	}
}

func TestVoiceActivityClockTouchAndLoad(t *testing.T) {
	c := NewVoiceActivityClock()
	if c.Load() != 0 {
		t.Fatalf("expected zero value before any touch, got %d", c.Load())
	}
	c.Touch(100)
	c.Touch(50)
	if c.Load() != 100 {
		t.Fatalf("expected clock to stay at the max touched value, got %d", c.Load())
	}
}
