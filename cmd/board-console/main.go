package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marketboard/internal/app"
	"marketboard/internal/config"
	"marketboard/internal/dashboard"
	"marketboard/internal/live"
	"marketboard/internal/util"
)

func main() {
	_ = godotenv.Load()

	once := flag.Bool("once", false, "print the polled quote list once and exit")
	flag.Parse()

	cfgPath := "config/marketboard.yaml"
	if p := os.Getenv("MARKETBOARD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Logging.Level, os.Stderr)
	util.SetDefault(logger)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("wiring board", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		if err := printOnce(ctx, a, cfg.Realtime.FetchTimeout); err != nil {
			logger.Error("fetching quotes", "error", err)
			os.Exit(1)
		}
		return
	}

	_, snaps := a.Quotes.Subscribe()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, false) }()

	for {
		select {
		case s := <-snaps:
			printSnapshot(s)
		case err := <-done:
			if err != nil {
				logger.Error("board stopped", "error", err)
				os.Exit(1)
			}
			fmt.Println("\nshutdown")
			return
		}
	}
}

// printOnce renders the raw polling payload. A payload that is not a list
// prints as the no-data row.
func printOnce(ctx context.Context, a *app.App, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	raw, err := a.API.FetchQuotes(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	printTable(&b, dashboard.RenderPayload(raw, dashboard.KindStock, a.Msgs), true)
	fmt.Print(b.String())
	return nil
}

func printSnapshot(s live.Snapshot) {
	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	fmt.Fprintf(&b, "Marketboard    [%s] %s\n\n", s.Status.Class, s.Status.Text)

	for _, c := range s.Cards {
		fmt.Fprintf(&b, "%-6s %14s  %s\n", c.Symbol, c.Value, c.Change)
	}
	b.WriteString("\n")

	printTable(&b, s.Stocks, s.StocksLoaded)
	b.WriteString("\n")
	printTable(&b, s.ETFs, s.ETFsLoaded)
	fmt.Print(b.String())
}

func printTable(b *strings.Builder, view dashboard.TableView, loaded bool) {
	if !loaded {
		fmt.Fprintf(b, "%s: ...\n", view.Kind)
		return
	}
	fmt.Fprintf(b, "%-32s %16s %10s\n", view.Columns[0], view.Columns[1], view.Columns[2])
	for _, row := range view.Rows {
		if row.Placeholder {
			fmt.Fprintf(b, "%s\n", row.Cells[0].Text)
			continue
		}
		first := row.Cells[0].Text
		if row.Cells[0].Sub != "" {
			first += " (" + row.Cells[0].Sub + ")"
		}
		fmt.Fprintf(b, "%-32s %16s %10s\n", first, row.Cells[1].Text, row.Cells[2].Text)
	}
	if view.Skipped > 0 {
		fmt.Fprintf(b, "(%s malformed rows hidden)\n", dashboard.FormatInt(view.Skipped))
	}
}
