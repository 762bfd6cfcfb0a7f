// Package news drives the news panel: fetching grouped articles from the
// backend, flattening and sorting them, and filtering by a debounced search
// query and a keyword category.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"marketboard/internal/dashboard"
	"marketboard/internal/domain"
	"marketboard/internal/util"
	"marketboard/pkg/marketboard"
)

// ErrBusy is returned by Fetch while another fetch is running.
var ErrBusy = errors.New("news fetch already in progress")

// Source supplies grouped news.
type Source interface {
	News(ctx context.Context) ([]marketboard.NewsGroup, int, error)
}

// Config holds the feed's timers.
type Config struct {
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	SearchDebounce  time.Duration
	SuccessFlash    time.Duration
}

// View is the feed state handed to renderers.
type View struct {
	Articles  []domain.NewsArticle // filtered, newest first
	Total     int
	Query     string
	Category  Category
	Loading   bool
	Success   bool // true for a short while after a successful fetch
	Err       error
	FetchedAt time.Time
}

// Feed owns the article list and the filter state. All methods are safe
// for concurrent use.
type Feed struct {
	cfg      Config
	source   Source
	log      *slog.Logger
	debounce *util.Debouncer

	mu        sync.Mutex
	all       []domain.NewsArticle
	filtered  []domain.NewsArticle
	query     string
	category  Category
	loading   bool
	success   bool
	err       error
	fetchedAt time.Time
	flash     *time.Timer
	passes    int

	updates chan View
}

// NewFeed creates an empty feed.
func NewFeed(cfg Config, source Source, log *slog.Logger) *Feed {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Feed{
		cfg:      cfg,
		source:   source,
		log:      log,
		debounce: util.NewDebouncer(cfg.SearchDebounce),
		category: CategoryAll,
		updates:  make(chan View, 1),
	}
}

// Updates delivers the latest View after every change. Only the newest
// undelivered view is kept.
func (f *Feed) Updates() <-chan View { return f.updates }

// View returns the current state.
func (f *Feed) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Feed) viewLocked() View {
	articles := make([]domain.NewsArticle, len(f.filtered))
	copy(articles, f.filtered)
	return View{
		Articles:  articles,
		Total:     len(f.all),
		Query:     f.query,
		Category:  f.category,
		Loading:   f.loading,
		Success:   f.success,
		Err:       f.err,
		FetchedAt: f.fetchedAt,
	}
}

// Fetch replaces the article list from the source. It is bounded by the
// configured fetch timeout and returns ErrBusy if a fetch is running.
func (f *Feed) Fetch(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrBusy
	}
	f.loading = true
	f.success = false
	f.err = nil
	f.publishLocked()
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, f.cfg.FetchTimeout)
	defer cancel()
	groups, dropped, err := f.source.News(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.err = err
		f.publishLocked()
		f.log.Error("fetching news", "error", err)
		return fmt.Errorf("fetching news: %w", err)
	}
	if dropped > 0 {
		f.log.Warn("skipped malformed news entries", "count", dropped)
	}

	all := Flatten(groups)
	SortByPublished(all)
	f.all = all
	f.fetchedAt = time.Now()
	f.success = true
	f.applyLocked()
	f.startFlashLocked()
	f.publishLocked()
	f.log.Info("news loaded", "articles", len(all), "groups", len(groups))
	return nil
}

func (f *Feed) startFlashLocked() {
	if f.flash != nil {
		f.flash.Stop()
	}
	if f.cfg.SuccessFlash <= 0 {
		return
	}
	f.flash = time.AfterFunc(f.cfg.SuccessFlash, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.success = false
		f.publishLocked()
	})
}

// SetQuery updates the search text. Filtering runs once the input has been
// quiet for the debounce period.
func (f *Feed) SetQuery(q string) {
	f.mu.Lock()
	f.query = q
	f.mu.Unlock()
	f.debounce.Trigger(f.refilter)
}

// SetCategory changes the category and filters at once.
func (f *Feed) SetCategory(c Category) {
	f.mu.Lock()
	f.category = c
	f.mu.Unlock()
	f.refilter()
}

func (f *Feed) refilter() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyLocked()
	f.publishLocked()
}

func (f *Feed) applyLocked() {
	f.filtered = Filter(f.all, f.query, f.category)
	f.passes++
}

func (f *Feed) publishLocked() {
	v := f.viewLocked()
	select {
	case f.updates <- v:
		return
	default:
	}
	select {
	case <-f.updates:
	default:
	}
	select {
	case f.updates <- v:
	default:
	}
}

// Run fetches once, then again every refresh interval until ctx is
// cancelled. Fetch errors are reported through the view, not returned.
func (f *Feed) Run(ctx context.Context) error {
	f.fetchLogged(ctx)
	if f.cfg.RefreshInterval <= 0 {
		<-ctx.Done()
		f.stop()
		return nil
	}

	ticker := time.NewTicker(f.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.stop()
			return nil
		case <-ticker.C:
			f.fetchLogged(ctx)
		}
	}
}

func (f *Feed) fetchLogged(ctx context.Context) {
	if err := f.Fetch(ctx); errors.Is(err, ErrBusy) {
		f.log.Debug("news refresh skipped, fetch in progress")
	}
}

func (f *Feed) stop() {
	f.debounce.Stop()
	f.mu.Lock()
	if f.flash != nil {
		f.flash.Stop()
	}
	f.mu.Unlock()
}

// ErrorText turns a fetch error into the message shown to the user.
func ErrorText(err error, msgs dashboard.Messages) string {
	var dnsErr *net.DNSError
	var opErr *net.OpError
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return msgs.NewsTimeout
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr) && opErr.Op == "dial":
		return msgs.NewsUnreachable
	default:
		return fmt.Sprintf(msgs.NewsError, err.Error())
	}
}
