// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package scribe

import "encoding/json"

// EventType discriminates the server's tagged JSON events via message_type.
type EventType string

const (
	EventSessionStarted      EventType = "session_started"
	EventPartialTranscript   EventType = "partial_transcript"
	EventCommittedTranscript EventType = "committed_transcript"
	EventInputError          EventType = "input_error"
	EventError               EventType = "error"
	EventAuthError           EventType = "auth_error"
	EventUnknown             EventType = "unknown"
)

// envelope is the wire shape every server frame is first decoded into.
type envelope struct {
	MessageType string          `json:"message_type"`
	Text        string          `json:"text"`
	SessionID   string          `json:"session_id"`
	Confidence  *float32        `json:"confidence"`
	CreatedAtMs uint64          `json:"created_at_ms"`
	Message     string          `json:"message"`
	ErrorMsg    string          `json:"error_message"`
	ErrorField  json.RawMessage `json:"error"`
}

// Event is the decoded sum type consumed by the dispatcher.
type Event struct {
	Type        EventType
	SessionID   string
	Text        string
	Confidence  float32
	CreatedAtMs uint64
	Message     string
	Raw         json.RawMessage
}

// ParseEvent decodes one server text frame. Unrecognized message_type
// values become EventUnknown, preserving the raw payload for logging; if an
// error_message/error field is present the caller should treat it as a
// transport-level error instead (see Client.readLoop).
func ParseEvent(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Event{}, err
	}

	switch EventType(env.MessageType) {
	case EventSessionStarted:
		return Event{Type: EventSessionStarted, SessionID: env.SessionID, Raw: payload}, nil
	case EventPartialTranscript:
		return Event{Type: EventPartialTranscript, Text: env.Text, CreatedAtMs: env.CreatedAtMs, Raw: payload}, nil
	case EventCommittedTranscript:
		confidence := float32(0)
		if env.Confidence != nil {
			confidence = *env.Confidence
		}
		return Event{Type: EventCommittedTranscript, Text: env.Text, Confidence: confidence, CreatedAtMs: env.CreatedAtMs, Raw: payload}, nil
	case EventInputError:
		return Event{Type: EventInputError, Message: env.Message, Raw: payload}, nil
	case EventError:
		return Event{Type: EventError, Message: env.Message, Raw: payload}, nil
	case EventAuthError:
		return Event{Type: EventAuthError, Message: env.Message, Raw: payload}, nil
	default:
		ev := Event{Type: EventUnknown, Raw: payload}
		if env.ErrorMsg != "" {
			ev.Message = env.ErrorMsg
		} else if len(env.ErrorField) > 0 {
			ev.Message = string(env.ErrorField)
		}
		return ev, nil
	}
}

// HasEmbeddedError reports whether an Unknown event actually carries an
// error_message/error field the reader loop should surface as a transport
// error instead of a silent unknown-event log.
func (e Event) HasEmbeddedError() bool {
	return e.Type == EventUnknown && e.Message != ""
}
