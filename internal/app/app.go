// Package app wires the board's components from a Config and runs their
// background loops together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"marketboard/internal/chat"
	"marketboard/internal/config"
	"marketboard/internal/dashboard"
	"marketboard/internal/live"
	"marketboard/internal/news"
	"marketboard/pkg/marketboard"
)

// App holds the wired components.
type App struct {
	Config *config.Config
	Msgs   dashboard.Messages
	API    *marketboard.Client
	Socket *live.Client
	Quotes *live.Model
	Board  *live.Board
	Feed   *news.Feed
	Chat   *chat.Widget
	Log    *slog.Logger
}

// New builds every component but starts nothing.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	msgs := dashboard.MessagesFor(cfg.Dashboard.Locale)
	api := marketboard.NewClient(cfg.Server.BaseURL)

	socket, err := live.NewClient(cfg.Server.BaseURL, cfg.Server.SocketPath, log.With("component", "socket"))
	if err != nil {
		return nil, fmt.Errorf("creating socket client: %w", err)
	}

	quotes := live.NewModel(msgs, cfg.Dashboard.ETFCards)
	board := live.NewBoard(live.BoardConfig{
		ReconnectInterval:    cfg.Realtime.ReconnectInterval,
		CheckInterval:        cfg.Realtime.CheckInterval,
		StaleAfter:           cfg.Realtime.StaleAfter,
		InitialFallbackDelay: cfg.Realtime.InitialFallbackDelay,
		FetchTimeout:         cfg.Realtime.FetchTimeout,
		GuardFallback:        cfg.Realtime.FallbackGuarded(),
	}, socket, api, quotes, log.With("component", "board"))

	feed := news.NewFeed(news.Config{
		FetchTimeout:    cfg.News.FetchTimeout,
		RefreshInterval: cfg.News.RefreshInterval,
		SearchDebounce:  cfg.News.SearchDebounce,
		SuccessFlash:    cfg.News.SuccessFlash,
	}, api, log.With("component", "news"))

	widget := chat.NewWidget(chat.Config{
		FocusDelay:     cfg.Chat.FocusDelay,
		WelcomeDelay:   cfg.Chat.WelcomeDelay,
		RequestTimeout: cfg.Chat.RequestTimeout,
	}, api, msgs, log.With("component", "chat"))

	return &App{
		Config: cfg,
		Msgs:   msgs,
		API:    api,
		Socket: socket,
		Quotes: quotes,
		Board:  board,
		Feed:   feed,
		Chat:   widget,
		Log:    log,
	}, nil
}

// Run drives the quote board and, when withNews is set, the news feed until
// ctx is cancelled or one of them fails. The socket is closed on return.
func (a *App) Run(ctx context.Context, withNews bool) error {
	defer a.Socket.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Board.Run(gctx) })
	if withNews {
		g.Go(func() error { return a.Feed.Run(gctx) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
