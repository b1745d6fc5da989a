// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package scribe

import "testing"

func TestParseEventPartialTranscript(t *testing.T) {
	payload := []byte(`{"message_type":"partial_transcript","text":"hel"}`)
	ev, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != EventPartialTranscript || ev.Text != "hel" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseEventCommittedTranscriptWithConfidence(t *testing.T) {
	payload := []byte(`{"message_type":"committed_transcript","text":"hello","confidence":0.92,"created_at_ms":12345}`)
	ev, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != EventCommittedTranscript || ev.Confidence != 0.92 || ev.CreatedAtMs != 12345 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseEventUnknownMessageType(t *testing.T) {
	payload := []byte(`{"message_type":"something_new"}`)
	ev, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != EventUnknown {
		t.Fatalf("expected EventUnknown, got %v", ev.Type)
	}
}

func TestParseEventMalformedJSON(t *testing.T) {
	if _, err := ParseEvent([]byte("not json")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestParseEventAuthError(t *testing.T) {
	payload := []byte(`{"message_type":"auth_error","message":"invalid key"}`)
	ev, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != EventAuthError || ev.Message != "invalid key" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseEventUnknownWithEmbeddedErrorMessage(t *testing.T) {
	payload := []byte(`{"message_type":"something_new","error_message":"boom"}`)
	ev, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != EventUnknown || ev.Message != "boom" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.HasEmbeddedError() {
		t.Fatal("expected an unknown event carrying error_message to report HasEmbeddedError")
	}
}
