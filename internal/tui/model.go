// Package tui is the Bubble Tea front end for the board: it subscribes to
// the quote model and the news feed, and renders their view-models along
// with the chat panel.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"marketboard/internal/chat"
	"marketboard/internal/dashboard"
	"marketboard/internal/live"
	"marketboard/internal/news"
)

// Section is one page of the board.
type Section int

const (
	SectionHome Section = iota
	SectionStocks
	SectionETFs
	SectionNews
	SectionChat
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionHome:
		return "Home"
	case SectionStocks:
		return "Stocks"
	case SectionETFs:
		return "ETFs"
	case SectionNews:
		return "News"
	case SectionChat:
		return "Chat"
	default:
		return "?"
	}
}

// Deps are the collaborators the model renders and drives.
type Deps struct {
	Ctx    context.Context
	Cancel context.CancelFunc
	Quotes *live.Model
	Feed   *news.Feed
	Chat   *chat.Widget
	Msgs   dashboard.Messages
	Loc    *time.Location
	Log    *slog.Logger
}

// Messages.
type snapshotMsg live.Snapshot
type newsMsg news.View
type welcomeMsg struct{}
type focusMsg struct{}
type chatDoneMsg struct{ err error }
type fetchDoneMsg struct{ err error }

// Model is the Bubble Tea model.
type Model struct {
	deps Deps

	subID int
	snaps <-chan live.Snapshot

	section  Section
	previous Section
	snap     live.Snapshot
	news     news.View
	chat     chat.View

	viewport      viewport.Model
	search        textinput.Model
	input         textinput.Model
	searching     bool
	ready         bool
	width, height int
}

// New creates the model and subscribes to the quote model.
func New(deps Deps) Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Cancel == nil {
		deps.Cancel = func() {}
	}
	search := textinput.New()
	search.Placeholder = deps.Msgs.NewsSearchPlaceholder
	search.Prompt = "/ "
	input := textinput.New()
	input.Placeholder = deps.Msgs.ChatPlaceholder
	input.Prompt = "> "

	id, ch := deps.Quotes.Subscribe()
	return Model{
		deps:   deps,
		subID:  id,
		snaps:  ch,
		snap:   deps.Quotes.Snapshot(),
		news:   deps.Feed.View(),
		chat:   deps.Chat.View(),
		search: search,
		input:  input,
	}
}

func waitSnapshot(ch <-chan live.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(s)
	}
}

func waitNews(ch <-chan news.View) tea.Cmd {
	return func() tea.Msg {
		return newsMsg(<-ch)
	}
}

// Init starts listening for quote and news updates and schedules the chat
// greeting.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitSnapshot(m.snaps),
		waitNews(m.deps.Feed.Updates()),
		tea.Tick(m.deps.Chat.WelcomeDelay(), func(time.Time) tea.Msg { return welcomeMsg{} }),
	)
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 3 // header, tabs, footer
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.search.Width = m.width - 4
		m.input.Width = m.width - 4
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case snapshotMsg:
		m.snap = live.Snapshot(msg)
		m.refresh()
		return m, waitSnapshot(m.snaps)

	case newsMsg:
		m.news = news.View(msg)
		m.refresh()
		return m, waitNews(m.deps.Feed.Updates())

	case welcomeMsg:
		m.deps.Chat.Welcome()
		m.chat = m.deps.Chat.View()
		m.refresh()
		return m, nil

	case focusMsg:
		var cmd tea.Cmd
		if m.section == SectionChat && !m.chat.Busy {
			cmd = m.input.Focus()
		}
		return m, cmd

	case chatDoneMsg:
		if msg.err != nil {
			m.deps.Log.Warn("chat send failed", "error", msg.err)
		}
		m.chat = m.deps.Chat.View()
		m.refresh()
		m.viewport.GotoBottom()
		var cmd tea.Cmd
		if m.section == SectionChat {
			cmd = m.input.Focus()
		}
		return m, cmd

	case fetchDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, news.ErrBusy) {
			m.deps.Log.Warn("news retry failed", "error", msg.err)
		}
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. handled is false when the key should
// fall through to the viewport.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	// Text entry owns the keyboard.
	if m.searching {
		switch key {
		case "esc", "enter":
			m.searching = false
			m.search.Blur()
			return m, nil, true
		}
		var cmd tea.Cmd
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != before {
			m.deps.Feed.SetQuery(v)
		}
		return m, cmd, true
	}
	if m.section == SectionChat && m.input.Focused() {
		switch key {
		case "esc":
			m.closeChat()
			return m, nil, true
		case "enter":
			return m.sendChat()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd, true
	}

	switch key {
	case "q":
		return m.quit()
	case "tab":
		m.switchTo((m.section + 1) % sectionCount)
		cmd := m.focusIfChat()
		return m, cmd, true
	case "shift+tab":
		m.switchTo((m.section + sectionCount - 1) % sectionCount)
		cmd := m.focusIfChat()
		return m, cmd, true
	case "1", "2", "3", "4":
		m.switchTo(Section(key[0] - '1'))
		return m, nil, true
	case "c", "5":
		return m.toggleChat()
	}

	switch m.section {
	case SectionNews:
		switch key {
		case "/":
			m.searching = true
			cmd := m.search.Focus()
			return m, cmd, true
		case "f":
			m.deps.Feed.SetCategory(m.news.Category.Next())
			return m, nil, true
		case "r":
			feed, ctx := m.deps.Feed, m.deps.Ctx
			return m, func() tea.Msg { return fetchDoneMsg{err: feed.Fetch(ctx)} }, true
		}
	case SectionChat:
		switch key {
		case "esc":
			m.closeChat()
			return m, nil, true
		case "enter", "i":
			var cmd tea.Cmd
			if !m.chat.Busy {
				cmd = m.input.Focus()
			}
			return m, cmd, true
		}
	}
	return m, nil, false
}

func (m Model) quit() (Model, tea.Cmd, bool) {
	m.deps.Quotes.Unsubscribe(m.subID)
	m.deps.Cancel()
	return m, tea.Quit, true
}

func (m *Model) switchTo(s Section) {
	if s == m.section {
		return
	}
	if s == SectionChat {
		m.deps.Chat.Open()
	} else if m.section == SectionChat {
		m.deps.Chat.Close()
		m.input.Blur()
	}
	m.previous = m.section
	m.section = s
	m.chat = m.deps.Chat.View()
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) focusIfChat() tea.Cmd {
	if m.section != SectionChat {
		return nil
	}
	return focusAfter(m.deps.Chat.Open())
}

func focusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return focusMsg{} })
}

func (m Model) toggleChat() (Model, tea.Cmd, bool) {
	open, delay := m.deps.Chat.Toggle()
	if !open {
		m.input.Blur()
		m.section, m.previous = m.previous, SectionChat
		if m.section == SectionChat {
			m.section = SectionHome
		}
		m.chat = m.deps.Chat.View()
		m.refresh()
		return m, nil, true
	}
	if m.section != SectionChat {
		m.previous = m.section
		m.section = SectionChat
	}
	m.chat = m.deps.Chat.View()
	m.refresh()
	m.viewport.GotoBottom()
	return m, focusAfter(delay), true
}

func (m *Model) closeChat() {
	m.deps.Chat.Close()
	m.input.Blur()
	m.section = m.previous
	if m.section == SectionChat {
		m.section = SectionHome
	}
	m.chat = m.deps.Chat.View()
	m.refresh()
}

func (m Model) sendChat() (Model, tea.Cmd, bool) {
	q, err := m.deps.Chat.Begin(m.input.Value())
	if err != nil {
		return m, nil, true
	}
	m.input.Reset()
	m.input.Blur()
	m.chat = m.deps.Chat.View()
	m.refresh()
	m.viewport.GotoBottom()

	w, ctx := m.deps.Chat, m.deps.Ctx
	return m, func() tea.Msg {
		return chatDoneMsg{err: w.Deliver(ctx, q)}
	}, true
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderContent())
}
