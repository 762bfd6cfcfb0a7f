package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"marketboard/internal/util"
)

const openFrame = `0{"sid":"abc","pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}`

// fakeSocketServer performs the Engine.IO and namespace handshakes, then
// hands the connection to script. ack overrides the namespace reply.
func fakeSocketServer(t *testing.T, ack string, script func(conn *websocket.Conn)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var upgrades atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/socket.io/" || r.URL.Query().Get("EIO") != "4" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		upgrades.Add(1)

		_ = conn.WriteMessage(websocket.TextMessage, []byte(openFrame))
		_, msg, err := conn.ReadMessage()
		if err != nil || string(msg) != "40" {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(ack))
		if script != nil {
			script(conn)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &upgrades
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, "/socket.io/", util.Discard())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func waitEvent(t *testing.T, c *Client, kind EventKind) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", kind)
		}
	}
}

func TestClientReceivesEvents(t *testing.T) {
	pong := make(chan string, 1)
	srv, _ := fakeSocketServer(t, `40{"sid":"ns"}`, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`42["stock_data",[{"symbol":"AAPL","price":189.5}]]`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`2`))
		_, msg, err := conn.ReadMessage()
		if err == nil {
			pong <- string(msg)
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`41`))
		time.Sleep(100 * time.Millisecond)
	})
	c := newTestClient(t, srv)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitEvent(t, c, EventConnect)
	if !c.Connected() {
		t.Error("Connected() = false after connect event")
	}

	ev := waitEvent(t, c, EventData)
	if ev.Name != "stock_data" {
		t.Errorf("Name = %q, want stock_data", ev.Name)
	}
	if !strings.Contains(string(ev.Payload), `"AAPL"`) {
		t.Errorf("Payload = %s", ev.Payload)
	}
	if ev.At.IsZero() {
		t.Error("event time not stamped")
	}

	select {
	case got := <-pong:
		if got != "3" {
			t.Errorf("ping reply = %q, want 3", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no pong received")
	}

	waitEvent(t, c, EventDisconnect)
	if c.Connected() {
		t.Error("Connected() = true after disconnect")
	}
}

func TestClientConnectIsIdempotent(t *testing.T) {
	release := make(chan struct{})
	srv, upgrades := fakeSocketServer(t, `40`, func(conn *websocket.Conn) {
		<-release
	})
	defer close(release)
	c := newTestClient(t, srv)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	waitEvent(t, c, EventConnect)

	if n := upgrades.Load(); n != 1 {
		t.Errorf("server saw %d connections, want 1", n)
	}
}

func TestClientConnectError(t *testing.T) {
	srv, _ := fakeSocketServer(t, `44{"message":"not authorized"}`, nil)
	c := newTestClient(t, srv)

	err := c.Connect(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not authorized") {
		t.Fatalf("Connect error = %v, want not authorized", err)
	}
	ev := waitEvent(t, c, EventConnectError)
	if ev.Err == nil {
		t.Error("connect_error event without error")
	}
	if c.Connected() {
		t.Error("Connected() = true after rejected handshake")
	}
}

func TestClientMalformedPacketEmitsError(t *testing.T) {
	srv, _ := fakeSocketServer(t, `40`, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`42[broken`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`42["etf_data",[]]`))
		time.Sleep(200 * time.Millisecond)
	})
	c := newTestClient(t, srv)
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitEvent(t, c, EventError)
	ev := waitEvent(t, c, EventData)
	if ev.Name != "etf_data" {
		t.Errorf("Name = %q, want etf_data", ev.Name)
	}
}

func TestClientClosed(t *testing.T) {
	srv, _ := fakeSocketServer(t, `40`, nil)
	c := newTestClient(t, srv)
	c.Close()
	if err := c.Connect(context.Background()); err != ErrClosed {
		t.Errorf("Connect after Close = %v, want ErrClosed", err)
	}
}
