package marketboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:5000/")
	if c == nil {
		t.Fatal("expected non-nil client")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL %q, got %q", "http://localhost:5000", c.baseURL)
	}
	if c.httpClient == nil {
		t.Fatal("expected non-nil httpClient")
	}
}

func TestFetchQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/quotes" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"symbol":"AAPL","type":"stock","price":189.5,"change":1.2}]`))
	}))
	defer srv.Close()

	quotes, err := NewClient(srv.URL).Quotes(context.Background())
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Symbol != "AAPL" || quotes[0].Type != "stock" {
		t.Errorf("quotes = %+v", quotes)
	}
}

func TestFetchQuotesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"upstream"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchQuotes(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want StatusError", err)
	}
	if se.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want 500", se.Code)
	}
	if se.Error() != "HTTP 500: Internal Server Error" {
		t.Errorf("Error() = %q", se.Error())
	}
}

func TestDecodeNewsKeepsServerOrder(t *testing.T) {
	body := []byte(`{
		"MSFT": [{"title":"m1","publishedAt":"2024-01-01T00:00:00Z"}],
		"AAPL": [{"title":"a1"}, 42, {"title":"a2"}],
		"TSLA": "unavailable",
		"GOOGL": []
	}`)
	groups, dropped, err := DecodeNews(body)
	if err != nil {
		t.Fatalf("DecodeNews: %v", err)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}

	var symbols []string
	for _, g := range groups {
		symbols = append(symbols, g.Symbol)
	}
	want := []string{"MSFT", "AAPL", "GOOGL"}
	if len(symbols) != len(want) {
		t.Fatalf("symbols = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbols[%d] = %q, want %q", i, symbols[i], want[i])
		}
	}

	aapl := groups[1].Articles
	if len(aapl) != 2 || aapl[0].Title != "a1" || aapl[1].Title != "a2" {
		t.Errorf("AAPL articles = %+v", aapl)
	}
	for _, a := range aapl {
		if a.Symbol != "AAPL" {
			t.Errorf("article symbol = %q, want AAPL", a.Symbol)
		}
	}
}

func TestDecodeNewsNotObject(t *testing.T) {
	if _, _, err := DecodeNews([]byte(`[1,2]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("err = %v, want ErrNotObject", err)
	}
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChatReply{Error: "Vui lòng nhập câu hỏi"})
			return
		}
		json.NewEncoder(w).Encode(ChatReply{Response: "answer to " + req.Question})
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	reply, code, err := c.Chat(context.Background(), "AAPL?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if code != http.StatusOK || reply.Response != "answer to AAPL?" {
		t.Errorf("reply = %+v (HTTP %d)", reply, code)
	}

	reply, code, err = c.Chat(context.Background(), "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if code != http.StatusBadRequest || reply.Error != "Vui lòng nhập câu hỏi" {
		t.Errorf("reply = %+v (HTTP %d)", reply, code)
	}
}
