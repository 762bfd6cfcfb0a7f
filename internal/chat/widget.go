// Package chat implements the chat panel: open/close state, the message
// scrollback, and the send flow that forwards one question at a time to
// the backend.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"marketboard/internal/dashboard"
	"marketboard/internal/domain"
	"marketboard/pkg/marketboard"
)

var (
	// ErrBusy is returned when a question is sent while another is pending.
	ErrBusy = errors.New("a question is already pending")
	// ErrEmptyQuestion is returned for blank input.
	ErrEmptyQuestion = errors.New("empty question")
)

// Asker posts a question to the chat endpoint.
type Asker interface {
	Chat(ctx context.Context, question string) (marketboard.ChatReply, int, error)
}

// Config holds the widget's delays.
type Config struct {
	FocusDelay     time.Duration
	WelcomeDelay   time.Duration
	RequestTimeout time.Duration
}

// View is the widget state handed to renderers.
type View struct {
	Open     bool
	Busy     bool
	Messages []domain.ChatMessage
}

// Widget is the chat panel state. All methods are safe for concurrent use.
type Widget struct {
	cfg   Config
	asker Asker
	msgs  dashboard.Messages
	log   *slog.Logger

	mu       sync.Mutex
	open     bool
	busy     bool
	messages []domain.ChatMessage
	pending  int
	welcomed bool
}

// NewWidget creates a closed widget with an empty scrollback.
func NewWidget(cfg Config, asker Asker, msgs dashboard.Messages, log *slog.Logger) *Widget {
	return &Widget{cfg: cfg, asker: asker, msgs: msgs, log: log, pending: -1}
}

// WelcomeDelay is how long after start the welcome message should appear.
func (w *Widget) WelcomeDelay() time.Duration { return w.cfg.WelcomeDelay }

// Open shows the panel. It returns how long the caller should wait before
// moving focus to the input.
func (w *Widget) Open() (focusAfter time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	return w.cfg.FocusDelay
}

// Close hides the panel.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
}

// Toggle flips the panel. focusAfter is only meaningful when open is true.
func (w *Widget) Toggle() (open bool, focusAfter time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.open
	return w.open, w.cfg.FocusDelay
}

// IsOpen reports whether the panel is shown.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Busy reports whether the input controls are disabled.
func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Welcome appends the greeting. Only the first call has an effect.
func (w *Widget) Welcome() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.welcomed {
		return
	}
	w.welcomed = true
	w.messages = append(w.messages, domain.ChatMessage{Role: domain.RoleAI, Content: w.msgs.ChatWelcome})
}

// View returns a copy of the current state.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	msgs := make([]domain.ChatMessage, len(w.messages))
	copy(msgs, w.messages)
	return View{Open: w.open, Busy: w.busy, Messages: msgs}
}

// Begin starts a send: it disables the controls, appends the question and
// a loading placeholder, and returns the trimmed question.
func (w *Widget) Begin(question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return "", ErrBusy
	}
	w.busy = true
	w.messages = append(w.messages,
		domain.ChatMessage{Role: domain.RoleUser, Content: q},
		domain.ChatMessage{Role: domain.RoleAI, Loading: true},
	)
	w.pending = len(w.messages) - 1
	return q, nil
}

// Ask posts the question, bounded by the request timeout.
func (w *Widget) Ask(ctx context.Context, question string) (marketboard.ChatReply, error) {
	if w.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.RequestTimeout)
		defer cancel()
	}
	reply, status, err := w.asker.Chat(ctx, question)
	if err != nil {
		w.log.Error("chat request failed", "status", status, "error", err)
		return reply, err
	}
	if reply.Error != "" {
		w.log.Warn("chat endpoint returned an error", "status", status, "error", reply.Error)
	}
	return reply, nil
}

// Finish replaces the loading placeholder with the answer or an error
// marker and re-enables the controls.
func (w *Widget) Finish(reply marketboard.ChatReply, err error) {
	var content string
	switch {
	case err != nil:
		content = w.msgs.ChatConnectionError
	case reply.Response != "":
		content = reply.Response
	case reply.Error != "":
		content = w.msgs.ChatErrorPrefix + reply.Error
	default:
		content = w.msgs.ChatConnectionError
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	answer := domain.ChatMessage{Role: domain.RoleAI, Content: content}
	if w.pending >= 0 && w.pending < len(w.messages) {
		w.messages[w.pending] = answer
	} else {
		w.messages = append(w.messages, answer)
	}
	w.pending = -1
	w.busy = false
}

// Deliver asks a question already recorded by Begin and settles the
// placeholder. The controls are re-enabled however the request ends.
func (w *Widget) Deliver(ctx context.Context, question string) error {
	var reply marketboard.ChatReply
	var err error
	defer func() { w.Finish(reply, err) }()

	reply, err = w.Ask(ctx, question)
	return err
}

// Send runs the whole flow for one question.
func (w *Widget) Send(ctx context.Context, question string) error {
	q, err := w.Begin(question)
	if err != nil {
		return err
	}
	return w.Deliver(ctx, q)
}
