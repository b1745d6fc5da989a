// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package scribe

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rapidaai/pkg/commons"
)

const (
	DefaultBaseURL              = "wss://api.elevenlabs.io/v1/speech-to-text"
	DefaultModelID              = "scribe_v2_realtime"
	DefaultAudioFormat          = "pcm_16000"
	DefaultSampleRate           = 16000
	DefaultCommitStrategy       = "vad"
	DefaultIdleTimeout          = 30 * time.Second
	DefaultReconnectAttempts    = 2
	DefaultVADThreshold         = 0.6
	DefaultMinSpeechDurationMs  = 180
	DefaultMaxBufferDelayMs     = 1000
	reconnectBackoff            = 250 * time.Millisecond
	handshakeTimeout             = 10 * time.Second
)

var (
	ErrWebSocketSend = errors.New("websocket send failed")
	ErrWebSocketConn = errors.New("websocket connect failed")
)

// NetworkEventKind discriminates Client's fan-out between decoded scribe
// protocol events and transport-level failures.
type NetworkEventKind int

const (
	NetworkEventScribe NetworkEventKind = iota
	NetworkEventTransportError
)

// NetworkEvent is what Client broadcasts to its subscribers (the dispatcher
// is the only consumer in this module, but the fan-out shape matches the
// original broadcast-channel design).
type NetworkEvent struct {
	Kind   NetworkEventKind
	Scribe Event
	Err    string
}

// Options configures a Client; zero values fall back to the package
// defaults.
type Options struct {
	BaseURL               string
	APIKey                string
	LanguageCode          string
	ModelID               string
	VADThreshold          float64
	MinSpeechDurationMs   int
	MaxBufferDelayMs      int
}

// Client is a pooled (at most one live connection) websocket client to the
// Scribe realtime speech-to-text endpoint.
type Client struct {
	logger commons.Logger
	opts   Options

	dialer *websocket.Dialer

	mu       sync.Mutex
	conn     *websocket.Conn
	lastUsed time.Time
	writeMu  sync.Mutex

	broadcast *broadcaster
}

// NewClient builds a Client. It does not connect until the first send.
func NewClient(logger commons.Logger, opts Options) *Client {
	if opts.ModelID == "" {
		opts.ModelID = DefaultModelID
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.VADThreshold == 0 {
		opts.VADThreshold = DefaultVADThreshold
	}
	if opts.MinSpeechDurationMs == 0 {
		opts.MinSpeechDurationMs = DefaultMinSpeechDurationMs
	}
	if opts.MaxBufferDelayMs == 0 {
		opts.MaxBufferDelayMs = DefaultMaxBufferDelayMs
	}
	return &Client{
		logger:    logger,
		opts:      opts,
		dialer:    &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		broadcast: newBroadcaster(),
	}
}

// Subscribe returns a channel of NetworkEvent; the channel is buffered (256)
// and, when it is full, the oldest pending event is discarded rather than
// blocking the publisher. Discarded events are not logged.
func (c *Client) Subscribe() <-chan NetworkEvent {
	return c.broadcast.subscribe()
}

func (c *Client) buildURL() (string, error) {
	u, err := url.Parse(c.opts.BaseURL + "/realtime")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("model_id", c.opts.ModelID)
	q.Set("audio_format", DefaultAudioFormat)
	q.Set("commit_strategy", DefaultCommitStrategy)
	q.Set("vad_threshold", fmt.Sprintf("%v", c.opts.VADThreshold))
	q.Set("min_speech_duration_ms", fmt.Sprintf("%d", c.opts.MinSpeechDurationMs))
	q.Set("max_buffer_delay_ms", fmt.Sprintf("%d", c.opts.MaxBufferDelayMs))
	if c.opts.LanguageCode != "" {
		q.Set("language_code", c.opts.LanguageCode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ensureConnection opens a new connection if the pool is empty or the
// existing one has been idle past DefaultIdleTimeout.
func (c *Client) ensureConnection(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		if time.Since(c.lastUsed) < DefaultIdleTimeout {
			return nil
		}
		c.invalidateLocked()
	}

	return c.connectWithRetryLocked(ctx)
}

func (c *Client) connectWithRetryLocked(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt <= DefaultReconnectAttempts; attempt++ {
		conn, err := c.connectOnce(ctx)
		if err == nil {
			c.conn = conn
			c.lastUsed = time.Now()
			go c.readLoop(conn)
			return nil
		}
		lastErr = err
		c.broadcast.publish(NetworkEvent{Kind: NetworkEventTransportError, Err: fmt.Sprintf("connect failed: %v", err)})
		if attempt < DefaultReconnectAttempts {
			time.Sleep(reconnectBackoff)
		}
	}
	return fmt.Errorf("%w: %v", ErrWebSocketConn, lastErr)
}

func (c *Client) connectOnce(ctx context.Context) (*websocket.Conn, error) {
	wsURL, err := c.buildURL()
	if err != nil {
		return nil, err
	}
	headers := http.Header{}
	headers.Set("xi-api-key", c.opts.APIKey)
	conn, _, err := c.dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Client) invalidateLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Connect eagerly opens (or reuses) the pooled connection; used by the
// recording worker's startup readiness handshake.
func (c *Client) Connect(ctx context.Context) error {
	return c.ensureConnection(ctx)
}

// SendAudio encodes samples as little-endian PCM16 and sends the
// input_audio_chunk frame, with exactly one reconnect-and-retry on failure.
func (c *Client) SendAudio(ctx context.Context, samples []int16) error {
	payload, err := buildAudioFrame(samples)
	if err != nil {
		return err
	}
	return c.sendWithReconnect(ctx, payload)
}

func (c *Client) sendWithReconnect(ctx context.Context, payload []byte) error {
	if err := c.ensureConnection(ctx); err != nil {
		return err
	}
	if err := c.writeText(payload); err == nil {
		return nil
	}

	c.mu.Lock()
	c.invalidateLocked()
	c.mu.Unlock()

	if err := c.ensureConnection(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrWebSocketSend, err)
	}
	if err := c.writeText(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrWebSocketSend, err)
	}
	return nil
}

func (c *Client) writeText(payload []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("%w: no active connection", ErrWebSocketSend)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}
	c.mu.Lock()
	c.lastUsed = time.Now()
	c.mu.Unlock()
	return nil
}

func buildAudioFrame(samples []int16) ([]byte, error) {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	frame := struct {
		MessageType string `json:"message_type"`
		AudioBase64 string `json:"audio_base_64"`
		SampleRate  int    `json:"sample_rate"`
	}{
		MessageType: "input_audio_chunk",
		AudioBase64: base64.StdEncoding.EncodeToString(buf),
		SampleRate:  DefaultSampleRate,
	}
	return json.Marshal(frame)
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !isExpectedCloseError(err) {
				c.broadcast.publish(NetworkEvent{Kind: NetworkEventTransportError, Err: fmt.Sprintf("websocket closed: %v", err)})
			}
			return
		}
		switch msgType {
		case websocket.TextMessage:
			ev, perr := ParseEvent(data)
			if perr != nil {
				c.logger.Warnf("failed to parse scribe event: %v", perr)
				continue
			}
			if ev.HasEmbeddedError() {
				c.broadcast.publish(NetworkEvent{Kind: NetworkEventTransportError, Err: fmt.Sprintf("scribe error: %s", ev.Message)})
				continue
			}
			c.broadcast.publish(NetworkEvent{Kind: NetworkEventScribe, Scribe: ev})
		case websocket.BinaryMessage:
			// not used by this protocol; ignored.
		default:
			// Ping/Pong/Close are handled by gorilla's default handlers.
		}
	}
}

func isExpectedCloseError(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "sending after closing is not allowed")
}

// Disconnect sends a close frame and tears down the connection. Already-closed
// connections are treated as a successful disconnect.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	err := c.conn.Close()
	c.conn = nil
	if err != nil && !isExpectedCloseError(err) {
		return err
	}
	return nil
}

// Flush is a no-op kept for symmetry with the stop sequence in the original
// worker lifecycle.
func (c *Client) Flush() error { return nil }
