package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the marketboard client.
type Config struct {
	Server    Server    `yaml:"server"`
	Realtime  Realtime  `yaml:"realtime"`
	News      News      `yaml:"news"`
	Chat      Chat      `yaml:"chat"`
	Dashboard Dashboard `yaml:"dashboard"`
	Logging   Logging   `yaml:"logging"`
}

// Server locates the dashboard backend. The Socket.IO channel and the REST
// endpoints share the same origin.
type Server struct {
	BaseURL    string `yaml:"base_url"`
	SocketPath string `yaml:"socket_path"`
}

// Realtime controls the push channel and the staleness fallback.
type Realtime struct {
	ReconnectInterval    time.Duration `yaml:"reconnect_interval"`
	StaleAfter           time.Duration `yaml:"stale_after"`
	CheckInterval        time.Duration `yaml:"check_interval"`
	InitialFallbackDelay time.Duration `yaml:"initial_fallback_delay"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`
	GuardFallback        *bool         `yaml:"guard_fallback"`
}

// News controls fetching and filtering of the news feed.
type News struct {
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	SearchDebounce  time.Duration `yaml:"search_debounce"`
	SuccessFlash    time.Duration `yaml:"success_flash"`
	Timezone        string        `yaml:"timezone"`
}

// Chat controls the chat panel.
type Chat struct {
	FocusDelay     time.Duration `yaml:"focus_delay"`
	WelcomeDelay   time.Duration `yaml:"welcome_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Dashboard controls presentation.
type Dashboard struct {
	Locale   string   `yaml:"locale"`
	ETFCards []string `yaml:"etf_cards"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// FallbackGuarded reports whether overlapping fallback fetches are
// suppressed. Defaults to true.
func (r Realtime) FallbackGuarded() bool {
	return r.GuardFallback == nil || *r.GuardFallback
}

// Location resolves the news timezone, falling back to time.Local.
func (n News) Location() *time.Location {
	if n.Timezone == "" || n.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(n.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, fills unset fields with defaults, and then applies
// environment variable overrides. A missing file is not an error: defaults
// and environment are used instead.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	setString(&cfg.Server.BaseURL, "http://localhost:5000")
	setString(&cfg.Server.SocketPath, "/socket.io/")

	setDuration(&cfg.Realtime.ReconnectInterval, 5*time.Second)
	setDuration(&cfg.Realtime.StaleAfter, 30*time.Second)
	setDuration(&cfg.Realtime.CheckInterval, 30*time.Second)
	setDuration(&cfg.Realtime.InitialFallbackDelay, 5*time.Second)
	setDuration(&cfg.Realtime.FetchTimeout, 30*time.Second)

	setDuration(&cfg.News.FetchTimeout, 30*time.Second)
	setDuration(&cfg.News.RefreshInterval, 5*time.Minute)
	setDuration(&cfg.News.SearchDebounce, 300*time.Millisecond)
	setDuration(&cfg.News.SuccessFlash, 3*time.Second)
	setString(&cfg.News.Timezone, "Local")

	setDuration(&cfg.Chat.FocusDelay, 300*time.Millisecond)
	setDuration(&cfg.Chat.WelcomeDelay, time.Second)
	setDuration(&cfg.Chat.RequestTimeout, 2*time.Minute)

	setString(&cfg.Dashboard.Locale, "vi")
	if cfg.Dashboard.ETFCards == nil {
		cfg.Dashboard.ETFCards = []string{"SPY", "DIA", "QQQ"}
	}

	setString(&cfg.Logging.Level, "info")
}

func setString(p *string, def string) {
	if *p == "" {
		*p = def
	}
}

func setDuration(p *time.Duration, def time.Duration) {
	if *p <= 0 {
		*p = def
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MARKETBOARD_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}

	if v := os.Getenv("MARKETBOARD_LOCALE"); v != "" {
		cfg.Dashboard.Locale = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
