package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"marketboard/internal/dashboard"
	"marketboard/internal/domain"
)

// Server event names carrying quote sets.
const (
	EventStockData = "stock_data"
	EventETFData   = "etf_data"
)

// Channel is the realtime connection the board drives.
type Channel interface {
	Connect(ctx context.Context) error
	Events() <-chan Event
	Connected() bool
}

// QuoteSource fetches the full quote list over the polling endpoint.
type QuoteSource interface {
	FetchQuotes(ctx context.Context) (json.RawMessage, error)
}

// BoardConfig holds the board's timers.
type BoardConfig struct {
	ReconnectInterval    time.Duration
	CheckInterval        time.Duration
	StaleAfter           time.Duration
	InitialFallbackDelay time.Duration
	FetchTimeout         time.Duration
	// GuardFallback suppresses new fallback fetches while one is running.
	GuardFallback bool
}

type fallbackResult struct {
	data json.RawMessage
	err  error
	at   time.Time
}

// Board is the single dispatcher for realtime quotes. Its Run loop owns the
// watchdog and is the only writer of the model; fallback fetches run on
// their own goroutines and report back over a channel.
type Board struct {
	cfg     BoardConfig
	channel Channel
	source  QuoteSource
	model   *Model
	log     *slog.Logger
	now     func() time.Time

	wd      *Watchdog
	results chan fallbackResult
}

// NewBoard wires a board. The model should not be written by anyone else.
func NewBoard(cfg BoardConfig, channel Channel, source QuoteSource, model *Model, log *slog.Logger) *Board {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Board{
		cfg:     cfg,
		channel: channel,
		source:  source,
		model:   model,
		log:     log,
		now:     time.Now,
		results: make(chan fallbackResult, 4),
	}
}

// Model returns the model the board writes to.
func (b *Board) Model() *Model { return b.model }

// Run connects the channel and dispatches events until ctx is cancelled.
func (b *Board) Run(ctx context.Context) error {
	b.wd = NewWatchdog(b.cfg.StaleAfter, b.cfg.GuardFallback, b.now())
	go b.connect(ctx)

	reconnect := time.NewTicker(b.cfg.ReconnectInterval)
	defer reconnect.Stop()
	check := time.NewTicker(b.cfg.CheckInterval)
	defer check.Stop()
	initial := time.NewTimer(b.cfg.InitialFallbackDelay)
	defer initial.Stop()

	events := b.channel.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			b.handleEvent(ev)
		case <-reconnect.C:
			if b.needsReconnect() {
				b.log.Info("attempting to reconnect")
				go b.connect(ctx)
			}
		case <-check.C:
			b.checkFreshness(ctx, b.now())
		case <-initial.C:
			if !b.channel.Connected() {
				b.log.Info("channel not connected, loading quotes over http")
				b.startFallback(ctx)
			}
		case res := <-b.results:
			b.applyFallback(res)
		}
	}
}

// needsReconnect requires both the socket and the last reported state to be
// down.
func (b *Board) needsReconnect() bool {
	return !b.channel.Connected() && b.model.State() != domain.Connected
}

func (b *Board) connect(ctx context.Context) {
	if err := b.channel.Connect(ctx); err != nil && ctx.Err() == nil {
		b.log.Debug("connect attempt failed", "error", err)
	}
}

func (b *Board) handleEvent(ev Event) {
	msgs := b.model.Messages()
	switch ev.Kind {
	case EventConnect:
		b.log.Info("connected to server")
		b.model.SetState(domain.Connected, dashboard.ConnectedStatus(msgs))
	case EventDisconnect:
		b.log.Info("disconnected from server", "error", ev.Err)
		b.model.SetState(domain.Disconnected, dashboard.DisconnectedStatus(msgs))
	case EventConnectError:
		b.log.Error("connection failed", "error", ev.Err)
		b.model.SetStatus(dashboard.ConnectErrorStatus(msgs))
	case EventError:
		b.log.Error("socket error", "error", ev.Err)
		b.model.SetStatus(dashboard.SocketErrorStatus(msgs))
	case EventData:
		b.handleData(ev)
	}
}

func (b *Board) handleData(ev Event) {
	if ev.Name != EventStockData && ev.Name != EventETFData {
		b.log.Debug("ignoring event", "name", ev.Name)
		return
	}
	at := ev.At
	if at.IsZero() {
		at = b.now()
	}
	// Any quote event counts as fresh data, even one that fails validation.
	b.wd.Touch(at)

	quotes, err := domain.ParseQuotes(ev.Payload)
	if err != nil {
		b.log.Error("invalid quote payload", "event", ev.Name, "error", err)
		return
	}

	if ev.Name == EventStockData {
		if skipped := b.model.SetStocks(quotes); skipped > 0 {
			b.log.Warn("skipped invalid stock records", "count", skipped)
		}
	} else {
		skipped, missing := b.model.SetETFs(quotes, true)
		if skipped > 0 {
			b.log.Warn("skipped invalid etf records", "count", skipped)
		}
		if len(missing) > 0 {
			b.log.Debug("no index card for symbols", "symbols", missing)
		}
	}
	b.model.MarkUpdated(at)
}

func (b *Board) checkFreshness(ctx context.Context, now time.Time) {
	if !b.wd.Due(now) {
		return
	}
	b.log.Info("no recent socket data, using fallback", "since_last", now.Sub(b.wd.Last()))
	b.startFallback(ctx)
}

func (b *Board) startFallback(ctx context.Context) {
	if b.cfg.GuardFallback && b.wd.InFlight() {
		return
	}
	b.wd.Begin()
	go func() {
		fctx, cancel := context.WithTimeout(ctx, b.cfg.FetchTimeout)
		defer cancel()
		data, err := b.source.FetchQuotes(fctx)
		select {
		case b.results <- fallbackResult{data: data, err: err, at: b.now()}:
		case <-ctx.Done():
		}
	}()
}

// applyFallback applies a polling result. It never counts as fresh realtime
// data, so the watchdog is left untouched apart from the in-flight flag.
func (b *Board) applyFallback(res fallbackResult) {
	b.wd.Done()
	if res.err != nil {
		b.log.Error("fallback fetch failed", "error", res.err)
		b.model.SetStatus(dashboard.LoadErrorStatus(b.model.Messages()))
		return
	}

	quotes, err := domain.ParseQuotes(res.data)
	if err != nil {
		b.log.Error("invalid fallback payload", "error", err)
		return
	}

	stocks := domain.FilterType(quotes, domain.TypeStock)
	etfs := domain.FilterType(quotes, domain.TypeETF)
	if len(stocks) > 0 {
		b.model.SetStocks(stocks)
	}
	if len(etfs) > 0 {
		b.model.SetETFs(etfs, false)
	}
	b.log.Info("fallback data applied", "stocks", len(stocks), "etfs", len(etfs))
	b.model.MarkUpdated(res.at)
}
