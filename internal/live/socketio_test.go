package live

import (
	"testing"
	"time"
)

func TestDecodeSocketPacket(t *testing.T) {
	tests := []struct {
		in      string
		typ     byte
		ns      string
		ack     int
		data    string
		wantErr bool
	}{
		{in: `0`, typ: socketConnect, ns: "/", ack: -1},
		{in: `0{"sid":"x"}`, typ: socketConnect, ns: "/", ack: -1, data: `{"sid":"x"}`},
		{in: `2["stock_data",[]]`, typ: socketEvent, ns: "/", ack: -1, data: `["stock_data",[]]`},
		{in: `2/admin,12["ping"]`, typ: socketEvent, ns: "/admin", ack: 12, data: `["ping"]`},
		{in: `1/admin`, typ: socketDisconnect, ns: "/admin", ack: -1},
		{in: `4{"message":"denied"}`, typ: socketConnectError, ns: "/", ack: -1, data: `{"message":"denied"}`},
		{in: `51-["upload",{"_placeholder":true,"num":0}]`, typ: socketBinaryEvent, ns: "/", ack: -1, data: `["upload",{"_placeholder":true,"num":0}]`},
		{in: ``, wantErr: true},
		{in: `9`, wantErr: true},
		{in: `2[oops`, wantErr: true},
	}
	for _, tt := range tests {
		p, err := decodeSocketPacket([]byte(tt.in))
		if tt.wantErr {
			if err == nil {
				t.Errorf("decodeSocketPacket(%q) = %+v, want error", tt.in, p)
			}
			continue
		}
		if err != nil {
			t.Errorf("decodeSocketPacket(%q): %v", tt.in, err)
			continue
		}
		if p.Type != tt.typ || p.Namespace != tt.ns || p.AckID != tt.ack || string(p.Data) != tt.data {
			t.Errorf("decodeSocketPacket(%q) = {%c %q %d %s}, want {%c %q %d %s}",
				tt.in, p.Type, p.Namespace, p.AckID, p.Data, tt.typ, tt.ns, tt.ack, tt.data)
		}
	}
}

func TestPacketEvent(t *testing.T) {
	p, err := decodeSocketPacket([]byte(`2["etf_data",[{"symbol":"SPY"}],"extra"]`))
	if err != nil {
		t.Fatal(err)
	}
	name, payload, err := p.event()
	if err != nil {
		t.Fatal(err)
	}
	if name != "etf_data" {
		t.Errorf("name = %q, want etf_data", name)
	}
	if string(payload) != `[{"symbol":"SPY"}]` {
		t.Errorf("payload = %s", payload)
	}

	p, _ = decodeSocketPacket([]byte(`2["heartbeat"]`))
	if name, payload, err = p.event(); err != nil || name != "heartbeat" || payload != nil {
		t.Errorf("event() = %q, %s, %v", name, payload, err)
	}

	p, _ = decodeSocketPacket([]byte(`2[42]`))
	if _, _, err = p.event(); err == nil {
		t.Error("expected error for non-string event name")
	}
}

func TestConnectErrorMessage(t *testing.T) {
	p, _ := decodeSocketPacket([]byte(`4{"message":"not authorized"}`))
	if got := p.connectErrorMessage(); got != "not authorized" {
		t.Errorf("connectErrorMessage = %q", got)
	}
	p, _ = decodeSocketPacket([]byte(`4`))
	if got := p.connectErrorMessage(); got != "connection refused" {
		t.Errorf("connectErrorMessage = %q", got)
	}
}

func TestEncodeEvent(t *testing.T) {
	b, err := encodeEvent("subscribe", map[string]string{"symbol": "AAPL"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `42["subscribe",{"symbol":"AAPL"}]`; string(b) != want {
		t.Errorf("encodeEvent = %s, want %s", b, want)
	}
}

func TestParseHandshake(t *testing.T) {
	h, err := parseHandshake([]byte(`0{"sid":"abc","pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}`))
	if err != nil {
		t.Fatal(err)
	}
	if h.SID != "abc" {
		t.Errorf("SID = %q", h.SID)
	}
	if got := h.readTimeout(); got != 45*time.Second {
		t.Errorf("readTimeout = %v, want 45s", got)
	}
	if _, err := parseHandshake([]byte(`40`)); err == nil {
		t.Error("expected error for non-open packet")
	}
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:5000", "/socket.io/", "ws://localhost:5000/socket.io/?EIO=4&transport=websocket"},
		{"https://example.com/app/", "socket.io", "wss://example.com/app/socket.io/?EIO=4&transport=websocket"},
		{"http://localhost:5000", "", "ws://localhost:5000/socket.io/?EIO=4&transport=websocket"},
	}
	for _, tt := range tests {
		got, err := socketURL(tt.base, tt.path)
		if err != nil {
			t.Errorf("socketURL(%q, %q): %v", tt.base, tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("socketURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
	if _, err := socketURL("ftp://host", ""); err == nil {
		t.Error("expected error for ftp scheme")
	}
}
