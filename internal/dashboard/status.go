package dashboard

import (
	"fmt"
	"time"
)

// Status classes.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Status is the connection status line.
type Status struct {
	Text  string
	Class string
}

// ConnectingStatus is shown before the first connection attempt resolves.
func ConnectingStatus(msgs Messages) Status {
	return Status{Text: msgs.Connecting, Class: StatusDisconnected}
}

// ConnectedStatus is shown right after the channel connects.
func ConnectedStatus(msgs Messages) Status {
	return Status{Text: msgs.Connected, Class: StatusConnected}
}

// DisconnectedStatus is shown after the channel drops.
func DisconnectedStatus(msgs Messages) Status {
	return Status{Text: msgs.Disconnected, Class: StatusDisconnected}
}

// ConnectErrorStatus is shown when a connection attempt fails.
func ConnectErrorStatus(msgs Messages) Status {
	return Status{Text: msgs.ConnectError, Class: StatusDisconnected}
}

// SocketErrorStatus is shown on a transport error.
func SocketErrorStatus(msgs Messages) Status {
	return Status{Text: msgs.SocketError, Class: StatusDisconnected}
}

// LoadErrorStatus is shown when a fallback fetch fails.
func LoadErrorStatus(msgs Messages) Status {
	return Status{Text: msgs.LoadError, Class: StatusDisconnected}
}

// UpdatedStatus stamps the time of the latest successful data apply.
func UpdatedStatus(msgs Messages, at time.Time) Status {
	return Status{Text: fmt.Sprintf(msgs.UpdatedAt, at.Format(msgs.TimeLayout)), Class: StatusConnected}
}
