// Package domain defines the core types shared by the marketboard client:
// quotes, news articles, chat messages, and connection state.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotSequence is returned when a payload that must be a JSON array is not.
var ErrNotSequence = errors.New("payload is not a sequence")

// Quote types as reported by the backend.
const (
	TypeStock = "stock"
	TypeETF   = "etf"
)

// Quote is the latest price snapshot for one symbol. ETF quotes also carry a
// display name. Price and Change may hold non-numeric placeholders.
type Quote struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name,omitempty"`
	Type      string `json:"type,omitempty"`
	Price     Value  `json:"price"`
	Change    Value  `json:"change"`
	Open      Value  `json:"open,omitempty"`
	High      Value  `json:"high,omitempty"`
	Low       Value  `json:"low,omitempty"`
	PrevClose Value  `json:"prev_close,omitempty"`

	// Invalid marks an element of a quote sequence that was not an object.
	// Renderers skip it.
	Invalid bool `json:"-"`
}

// ParseQuotes decodes a quote sequence. A payload that is not a JSON array
// yields ErrNotSequence. Elements that are not objects are kept as Invalid
// quotes so that renderers can skip and count them without losing siblings.
func ParseQuotes(raw []byte) ([]Quote, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrNotSequence
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, ErrNotSequence
	}

	quotes := make([]Quote, 0, len(elems))
	for _, e := range elems {
		quotes = append(quotes, parseQuote(e))
	}
	return quotes, nil
}

func parseQuote(raw json.RawMessage) Quote {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Quote{Invalid: true}
	}
	var q Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return Quote{Invalid: true}
	}
	return q
}

// FilterType returns the quotes whose Type equals typ, preserving order.
func FilterType(quotes []Quote, typ string) []Quote {
	var out []Quote
	for _, q := range quotes {
		if !q.Invalid && q.Type == typ {
			out = append(out, q)
		}
	}
	return out
}

// NewsArticle is a single headline. Symbol is stamped by the client from the
// key the article was grouped under.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Symbol      string `json:"symbol,omitempty"`
}

// PublishedTime parses PublishedAt. ok is false for missing or malformed
// timestamps.
func (a NewsArticle) PublishedTime() (t time.Time, ok bool) {
	if a.PublishedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, a.PublishedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ConnectionState tracks whether the realtime channel is up.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
)

func (s ConnectionState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// ChatMessage is one entry of the chat scrollback.
type ChatMessage struct {
	Role    Role
	Content string
	// Loading marks the placeholder shown while a reply is pending.
	Loading bool
}
