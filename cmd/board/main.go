package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"marketboard/internal/app"
	"marketboard/internal/config"
	"marketboard/internal/tui"
	"marketboard/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "config/marketboard.yaml"
	if p := os.Getenv("MARKETBOARD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := util.OpenLogFile(cfg.Logging.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(cfg.Logging.Level, logFile)
	util.SetDefault(logger)

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, true) }()

	logger.Info("starting board", "server", cfg.Server.BaseURL, "socket", a.Socket.URL())
	p := tea.NewProgram(
		tui.New(tui.Deps{
			Ctx:    ctx,
			Cancel: cancel,
			Quotes: a.Quotes,
			Feed:   a.Feed,
			Chat:   a.Chat,
			Msgs:   a.Msgs,
			Loc:    cfg.News.Location(),
			Log:    logger,
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, uiErr := p.Run()
	cancel()

	if err := <-done; err != nil {
		logger.Error("board stopped", "error", err)
	}
	if uiErr != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", uiErr)
		os.Exit(1)
	}
}
