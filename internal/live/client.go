package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Connect after Close.
var ErrClosed = errors.New("client closed")

const handshakeTimeout = 10 * time.Second

// EventKind classifies channel events.
type EventKind int

const (
	EventConnect EventKind = iota
	EventDisconnect
	EventConnectError
	EventError
	EventData
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventConnectError:
		return "connect_error"
	case EventError:
		return "error"
	default:
		return "data"
	}
}

// Event is one notification from the realtime channel. Name and Payload are
// set for EventData; Err is set for the failure kinds and for a disconnect
// caused by a read error.
type Event struct {
	Kind    EventKind
	Name    string
	Payload json.RawMessage
	Err     error
	At      time.Time
}

// Client is a Socket.IO client over a single websocket. It delivers lifecycle
// and server events on Events. It does not reconnect on its own; the owner
// calls Connect again, which is a no-op while connected or dialing.
type Client struct {
	url    string
	dialer websocket.Dialer
	log    *slog.Logger
	events chan Event
	done   chan struct{}

	mu        sync.Mutex
	conn      *websocket.Conn
	dialing   bool
	connected bool
	closed    bool

	writeMu sync.Mutex
}

// NewClient creates a client for the Socket.IO endpoint under baseURL.
func NewClient(baseURL, path string, log *slog.Logger) (*Client, error) {
	u, err := socketURL(baseURL, path)
	if err != nil {
		return nil, err
	}
	return &Client{
		url:    u,
		dialer: websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		log:    log,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}, nil
}

// URL returns the websocket endpoint.
func (c *Client) URL() string { return c.url }

// Events returns the event stream. It is never closed.
func (c *Client) Events() <-chan Event { return c.events }

// Connected reports whether the namespace handshake has completed and the
// connection is still up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect dials the server and joins the default namespace. It returns nil
// immediately when a connection is already up or another dial is running.
// Failures are reported both as the return value and as an
// EventConnectError.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.conn != nil || c.dialing {
		c.mu.Unlock()
		return nil
	}
	c.dialing = true
	c.mu.Unlock()

	conn, hs, err := c.dial(ctx)

	c.mu.Lock()
	c.dialing = false
	if err == nil && c.closed {
		err = ErrClosed
		conn.Close()
	}
	if err != nil {
		c.mu.Unlock()
		if !errors.Is(err, ErrClosed) {
			c.emit(Event{Kind: EventConnectError, Err: err})
		}
		return err
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.log.Info("socket connected", "url", c.url, "sid", hs.SID,
		"ping_interval_ms", hs.PingInterval, "ping_timeout_ms", hs.PingTimeout)
	c.emit(Event{Kind: EventConnect})

	go c.readLoop(conn, hs)
	return nil
}

// dial opens the websocket and completes both handshakes: the Engine.IO
// open packet and the Socket.IO namespace connect.
func (c *Client) dial(ctx context.Context) (*websocket.Conn, handshake, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, handshake{}, fmt.Errorf("dialing %s: %w", c.url, err)
	}

	deadline := time.Now().Add(handshakeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)

	_, frame, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, handshake{}, fmt.Errorf("reading open packet: %w", err)
	}
	hs, err := parseHandshake(frame)
	if err != nil {
		conn.Close()
		return nil, handshake{}, err
	}

	if err := c.write(conn, []byte{engineMessage, socketConnect}); err != nil {
		conn.Close()
		return nil, handshake{}, fmt.Errorf("joining namespace: %w", err)
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return nil, handshake{}, fmt.Errorf("awaiting namespace ack: %w", err)
		}
		if len(frame) == 0 {
			continue
		}
		switch frame[0] {
		case enginePing:
			if err := c.write(conn, []byte{enginePong}); err != nil {
				conn.Close()
				return nil, handshake{}, fmt.Errorf("answering ping: %w", err)
			}
			continue
		case engineMessage:
		default:
			continue
		}
		p, err := decodeSocketPacket(frame[1:])
		if err != nil {
			conn.Close()
			return nil, handshake{}, fmt.Errorf("decoding namespace ack: %w", err)
		}
		switch p.Type {
		case socketConnect:
			return conn, hs, nil
		case socketConnectError:
			conn.Close()
			return nil, handshake{}, fmt.Errorf("namespace rejected: %s", p.connectErrorMessage())
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn, hs handshake) {
	timeout := hs.readTimeout()
	var cause error

loop:
	for {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
		_, frame, err := conn.ReadMessage()
		if err != nil {
			cause = err
			break
		}
		if len(frame) == 0 {
			continue
		}

		switch frame[0] {
		case enginePing:
			if err := c.write(conn, []byte{enginePong}); err != nil {
				cause = err
				break loop
			}
		case engineClose:
			cause = errors.New("server closed the transport")
			break loop
		case engineMessage:
			if c.handleMessage(frame[1:]) {
				cause = errors.New("server disconnected the namespace")
				break loop
			}
		}
	}

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	closed := c.closed
	c.mu.Unlock()
	conn.Close()

	if closed {
		return
	}
	c.log.Warn("socket disconnected", "error", cause)
	c.emit(Event{Kind: EventDisconnect, Err: cause})
}

// handleMessage processes one Socket.IO packet. It reports whether the
// connection should be dropped.
func (c *Client) handleMessage(body []byte) (stop bool) {
	p, err := decodeSocketPacket(body)
	if err != nil {
		c.log.Error("malformed socket packet", "error", err)
		c.emit(Event{Kind: EventError, Err: err})
		return false
	}
	switch p.Type {
	case socketEvent, socketBinaryEvent:
		name, payload, err := p.event()
		if err != nil {
			c.log.Error("malformed socket event", "error", err)
			c.emit(Event{Kind: EventError, Err: err})
			return false
		}
		c.emit(Event{Kind: EventData, Name: name, Payload: payload})
	case socketDisconnect:
		return true
	case socketConnectError:
		c.emit(Event{Kind: EventConnectError, Err: errors.New(p.connectErrorMessage())})
		return true
	}
	return false
}

func (c *Client) write(conn *websocket.Conn, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(handshakeTimeout))
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// Emit sends a named event to the server.
func (c *Client) Emit(name string, args ...any) error {
	frame, err := encodeEvent(name, args...)
	if err != nil {
		return err
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("emitting %s: not connected", name)
	}
	return c.write(conn, frame)
}

func (c *Client) emit(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	select {
	case c.events <- e:
	case <-c.done:
	}
}

// Close drops the connection and stops event delivery. Further Connect
// calls return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = c.write(conn, []byte{engineMessage, socketDisconnect})
	return conn.Close()
}
