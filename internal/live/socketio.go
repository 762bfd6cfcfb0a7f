package live

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Engine.IO v4 packet types.
const (
	engineOpen    = '0'
	engineClose   = '1'
	enginePing    = '2'
	enginePong    = '3'
	engineMessage = '4'
	engineNoop    = '6'
)

// Socket.IO v5 packet types, carried inside an Engine.IO message.
const (
	socketConnect      = '0'
	socketDisconnect   = '1'
	socketEvent        = '2'
	socketAck          = '3'
	socketConnectError = '4'
	socketBinaryEvent  = '5'
)

var errEmptyPacket = errors.New("empty packet")

// handshake is the payload of the Engine.IO open packet.
type handshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
	MaxPayload   int    `json:"maxPayload"`
}

// readTimeout is how long the client waits for any frame before it treats
// the connection as dead.
func (h handshake) readTimeout() time.Duration {
	d := time.Duration(h.PingInterval+h.PingTimeout) * time.Millisecond
	if d <= 0 {
		d = 45 * time.Second
	}
	return d
}

func parseHandshake(frame []byte) (handshake, error) {
	var h handshake
	if len(frame) == 0 || frame[0] != engineOpen {
		return h, fmt.Errorf("expected open packet, got %q", truncate(frame))
	}
	if err := json.Unmarshal(frame[1:], &h); err != nil {
		return h, fmt.Errorf("decoding open packet: %w", err)
	}
	return h, nil
}

// socketPacket is a decoded Socket.IO packet.
type socketPacket struct {
	Type      byte
	Namespace string
	AckID     int // -1 when absent
	Data      json.RawMessage
}

// decodeSocketPacket parses the body of an Engine.IO message packet, i.e.
// the frame without its leading '4'.
//
//	<type>[<attachments>-][<namespace>,][<ack id>][<json>]
func decodeSocketPacket(b []byte) (socketPacket, error) {
	p := socketPacket{AckID: -1}
	if len(b) == 0 {
		return p, errEmptyPacket
	}
	p.Type = b[0]
	if p.Type < socketConnect || p.Type > '6' {
		return p, fmt.Errorf("unknown packet type %q", p.Type)
	}
	rest := b[1:]

	if p.Type == socketBinaryEvent || p.Type == '6' {
		i := bytes.IndexByte(rest, '-')
		if i < 0 {
			return p, fmt.Errorf("binary packet without attachment count")
		}
		rest = rest[i+1:]
	}

	p.Namespace = "/"
	if len(rest) > 0 && rest[0] == '/' {
		i := bytes.IndexByte(rest, ',')
		if i < 0 {
			p.Namespace = string(rest)
			rest = nil
		} else {
			p.Namespace = string(rest[:i])
			rest = rest[i+1:]
		}
	}

	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n > 0 {
		id := 0
		for _, c := range rest[:n] {
			id = id*10 + int(c-'0')
		}
		p.AckID = id
		rest = rest[n:]
	}

	if len(bytes.TrimSpace(rest)) > 0 {
		if !json.Valid(rest) {
			return p, fmt.Errorf("invalid packet payload %q", truncate(rest))
		}
		p.Data = json.RawMessage(rest)
	}
	return p, nil
}

// event splits an EVENT packet into its name and first argument. A missing
// argument yields a nil payload.
func (p socketPacket) event() (name string, payload json.RawMessage, err error) {
	var args []json.RawMessage
	if err := json.Unmarshal(p.Data, &args); err != nil || len(args) == 0 {
		return "", nil, fmt.Errorf("event payload is not a non-empty array")
	}
	if err := json.Unmarshal(args[0], &name); err != nil {
		return "", nil, fmt.Errorf("event name is not a string")
	}
	if len(args) > 1 {
		payload = args[1]
	}
	return name, payload, nil
}

// connectErrorMessage extracts the message from a CONNECT_ERROR payload.
func (p socketPacket) connectErrorMessage() string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(p.Data, &body) == nil && body.Message != "" {
		return body.Message
	}
	var s string
	if json.Unmarshal(p.Data, &s) == nil && s != "" {
		return s
	}
	return "connection refused"
}

// encodeEvent builds the Engine.IO frame for an EVENT on the default
// namespace.
func encodeEvent(name string, args ...any) ([]byte, error) {
	payload := append([]any{name}, args...)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding event %s: %w", name, err)
	}
	return append([]byte{engineMessage, socketEvent}, data...), nil
}

// socketURL turns an http(s) base URL and a Socket.IO path into the
// websocket endpoint.
func socketURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if path == "" {
		path = "/socket.io/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()
	return u.String(), nil
}

func truncate(b []byte) string {
	if len(b) > 64 {
		return string(b[:64]) + "..."
	}
	return string(b)
}
