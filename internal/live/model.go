// Package live keeps the realtime quote state: a Socket.IO channel client,
// the staleness watchdog, and the board dispatcher that applies channel
// events and polling fallbacks to a shared model with pub/sub for views.
package live

import (
	"sync"
	"time"

	"marketboard/internal/dashboard"
	"marketboard/internal/domain"
)

// Snapshot is the rendered state of the quote board at one point in time.
type Snapshot struct {
	Stocks       dashboard.TableView
	ETFs         dashboard.TableView
	StocksLoaded bool
	ETFsLoaded   bool
	Cards        []dashboard.Card
	Status       dashboard.Status
	State        domain.ConnectionState
	UpdatedAt    time.Time
}

// Model holds the latest quote sets and publishes a fresh Snapshot to
// subscribers after every change. Each data set replaces the previous one
// for its kind.
type Model struct {
	mu           sync.RWMutex
	msgs         dashboard.Messages
	stocks       []domain.Quote
	etfs         []domain.Quote
	stocksLoaded bool
	etfsLoaded   bool
	cards        *dashboard.Cards
	status       dashboard.Status
	state        domain.ConnectionState
	updatedAt    time.Time

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]chan Snapshot
}

// NewModel creates an empty model. cardSymbols lists the ETF symbols that
// have an index card.
func NewModel(msgs dashboard.Messages, cardSymbols []string) *Model {
	return &Model{
		msgs:   msgs,
		cards:  dashboard.NewCards(cardSymbols),
		status: dashboard.ConnectingStatus(msgs),
		subs:   make(map[int]chan Snapshot),
	}
}

// Messages returns the catalog the model renders with.
func (m *Model) Messages() dashboard.Messages { return m.msgs }

// SetStocks replaces the stock set. It returns the number of records that
// were skipped as malformed.
func (m *Model) SetStocks(quotes []domain.Quote) (skipped int) {
	m.mu.Lock()
	m.stocks = quotes
	m.stocksLoaded = true
	skipped = countInvalid(quotes)
	m.mu.Unlock()
	m.publish()
	return skipped
}

// SetETFs replaces the ETF set. With updateCards the index cards are
// refreshed too, and the symbols without a card are returned.
func (m *Model) SetETFs(quotes []domain.Quote, updateCards bool) (skipped int, missing []string) {
	m.mu.Lock()
	m.etfs = quotes
	m.etfsLoaded = true
	skipped = countInvalid(quotes)
	if updateCards {
		missing = m.cards.Apply(quotes)
	}
	m.mu.Unlock()
	m.publish()
	return skipped, missing
}

// SetStatus replaces the status line.
func (m *Model) SetStatus(s dashboard.Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
	m.publish()
}

// SetState records the channel state together with its status line.
func (m *Model) SetState(state domain.ConnectionState, s dashboard.Status) {
	m.mu.Lock()
	m.state = state
	m.status = s
	m.mu.Unlock()
	m.publish()
}

// State returns the last recorded channel state.
func (m *Model) State() domain.ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// MarkUpdated stamps the status line with the time of a successful apply.
func (m *Model) MarkUpdated(at time.Time) {
	m.mu.Lock()
	m.updatedAt = at
	m.status = dashboard.UpdatedStatus(m.msgs, at)
	m.mu.Unlock()
	m.publish()
}

// Snapshot renders the current state.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Stocks:       dashboard.RenderTable(m.stocks, dashboard.KindStock, m.msgs),
		ETFs:         dashboard.RenderTable(m.etfs, dashboard.KindETF, m.msgs),
		StocksLoaded: m.stocksLoaded,
		ETFsLoaded:   m.etfsLoaded,
		Cards:        m.cards.List(),
		Status:       m.status,
		State:        m.state,
		UpdatedAt:    m.updatedAt,
	}
}

// Subscribe returns a channel that receives a snapshot after every change.
// The channel holds at most one pending snapshot; a newer one replaces it,
// so slow readers only ever see the latest state.
func (m *Model) Subscribe() (id int, ch <-chan Snapshot) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	id = m.nextSubID
	m.nextSubID++
	c := make(chan Snapshot, 1)
	m.subs[id] = c
	return id, c
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Model) Unsubscribe(id int) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	if ch, ok := m.subs[id]; ok {
		close(ch)
		delete(m.subs, id)
	}
}

func (m *Model) publish() {
	snap := m.Snapshot()
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale pending snapshot and retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func countInvalid(quotes []domain.Quote) int {
	n := 0
	for _, q := range quotes {
		if q.Invalid {
			n++
		}
	}
	return n
}
