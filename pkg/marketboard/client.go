// Package marketboard is a Go SDK for the dashboard backend's REST API:
// quotes, grouped news, and the chat endpoint.
package marketboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketboard/internal/domain"
)

// ErrNotObject is returned when the news payload is not a JSON object.
var ErrNotObject = errors.New("payload is not an object")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, strings.TrimSpace(strings.TrimPrefix(e.Status, fmt.Sprint(e.Code))))
}

// Client provides a Go SDK for interacting with the dashboard backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client. Per-call deadlines come from the
// context; the http client timeout is only a backstop.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// BaseURL returns the server origin.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchQuotes retrieves the combined stock and ETF quote list as raw JSON.
// A non-2xx status is an error.
func (c *Client) FetchQuotes(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, "/api/quotes")
	if err != nil {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}
	return body, nil
}

// Quotes retrieves and decodes the quote list.
func (c *Client) Quotes(ctx context.Context) ([]domain.Quote, error) {
	raw, err := c.FetchQuotes(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ParseQuotes(raw)
}

// NewsGroup is the article list the server filed under one symbol.
type NewsGroup struct {
	Symbol   string
	Articles []domain.NewsArticle
}

// News retrieves the symbol → articles mapping, keeping the server's key
// order. Each article is stamped with its symbol. Groups that are not
// arrays and articles that are not objects are dropped; the returned count
// says how many were.
func (c *Client) News(ctx context.Context) (groups []NewsGroup, dropped int, err error) {
	body, err := c.get(ctx, "/api/news")
	if err != nil {
		return nil, 0, fmt.Errorf("fetching news: %w", err)
	}
	groups, dropped, err = DecodeNews(body)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding news: %w", err)
	}
	return groups, dropped, nil
}

// DecodeNews parses a news payload in document order.
func DecodeNews(body []byte) (groups []NewsGroup, dropped int, err error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, 0, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, 0, ErrNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, 0, err
		}
		symbol, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, 0, err
		}
		var elems []json.RawMessage
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &elems) != nil {
			dropped++
			continue
		}

		g := NewsGroup{Symbol: symbol, Articles: make([]domain.NewsArticle, 0, len(elems))}
		for _, e := range elems {
			e = bytes.TrimSpace(e)
			var a domain.NewsArticle
			if len(e) == 0 || e[0] != '{' || json.Unmarshal(e, &a) != nil {
				dropped++
				continue
			}
			a.Symbol = symbol
			g.Articles = append(g.Articles, a)
		}
		groups = append(groups, g)
	}
	if _, err := dec.Token(); err != nil {
		return nil, 0, err
	}
	return groups, dropped, nil
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatReply is the body the chat endpoint returns, on success and on
// failure alike.
type ChatReply struct {
	Response     string   `json:"response,omitempty"`
	Error        string   `json:"error,omitempty"`
	ValidTickers []string `json:"valid_tickers,omitempty"`
	HasAnalysis  bool     `json:"has_analysis,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
}

// Chat posts a question. The reply body is decoded whatever the HTTP
// status, since the server reports its own errors in the body. The status
// is returned alongside so callers can log it.
func (c *Client) Chat(ctx context.Context, question string) (ChatReply, int, error) {
	var reply ChatReply
	payload, err := json.Marshal(ChatRequest{Question: question})
	if err != nil {
		return reply, 0, fmt.Errorf("encoding chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return reply, 0, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reply, 0, fmt.Errorf("posting chat: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return reply, resp.StatusCode, fmt.Errorf("decoding chat reply (HTTP %d): %w", resp.StatusCode, err)
	}
	return reply, resp.StatusCode, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
