package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marketboard/internal/dashboard"
	"marketboard/internal/domain"
	"marketboard/internal/news"
)

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := " Marketboard "
	status := classStyle(m.snap.Status.Class).Render(" " + m.snap.Status.Text + " ")
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status)
	if gap < 0 {
		gap = 0
	}
	header := headerStyle.Render(title+strings.Repeat(" ", gap)) + status

	var tabs strings.Builder
	for s := SectionHome; s < sectionCount; s++ {
		label := fmt.Sprintf("%d %s", s+1, s)
		if s == m.section {
			tabs.WriteString(tabActiveStyle.Render(label))
		} else {
			tabs.WriteString(tabStyle.Render(label))
		}
	}

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := " " + m.footerHelp()
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	fgap := m.width - lipgloss.Width(footerLeft) - lipgloss.Width(footerRight)
	if fgap < 0 {
		fgap = 0
	}
	footer := footerStyle.Render(padOrTrunc(footerLeft+strings.Repeat(" ", fgap)+footerRight, m.width))

	return header + "\n" + tabs.String() + "\n" + m.viewport.View() + "\n" + footer
}

func (m Model) footerHelp() string {
	switch {
	case m.searching:
		return "type to search  enter/esc done"
	case m.section == SectionChat && m.input.Focused():
		return "enter send  esc close chat"
	case m.section == SectionNews:
		return "q quit  tab section  / search  f category  r reload  c chat"
	case m.section == SectionChat:
		return "q quit  tab section  i type  esc close"
	default:
		return "q quit  tab section  1-4 jump  c chat  pgup/dn scroll"
	}
}

func (m Model) renderContent() string {
	var b strings.Builder
	switch m.section {
	case SectionHome:
		m.renderHome(&b)
	case SectionStocks:
		renderTable(&b, m.snap.Stocks, m.snap.StocksLoaded, m.width)
	case SectionETFs:
		renderTable(&b, m.snap.ETFs, m.snap.ETFsLoaded, m.width)
	case SectionNews:
		m.renderNews(&b)
	case SectionChat:
		m.renderChat(&b)
	}
	return b.String()
}

func (m Model) renderHome(b *strings.Builder) {
	cards := make([]string, 0, len(m.snap.Cards))
	for _, c := range m.snap.Cards {
		name := c.Name
		if name == "" {
			name = c.Symbol
		}
		body := symbolStyle.Render(c.Symbol) + "\n" +
			dimStyle.Render(padOrTrunc(name, 18)) + "\n" +
			priceStyle.Render(c.Value) + "\n" +
			classStyle(c.Class).Render(c.Change)
		cards = append(cards, cardStyle.Render(body))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	if !m.snap.UpdatedAt.IsZero() {
		b.WriteString(dimStyle.Render("  " + m.snap.Status.Text))
		b.WriteString("\n\n")
	}

	b.WriteString(colHeaderStyle.Render("  Stocks"))
	b.WriteString("\n")
	renderTable(b, m.snap.Stocks, m.snap.StocksLoaded, m.width)
}

// renderTable writes a quote table. Column widths are fixed; the first
// column takes whatever the others leave.
func renderTable(b *strings.Builder, view dashboard.TableView, loaded bool, width int) {
	if !loaded {
		b.WriteString(dimStyle.Render("  Loading..."))
		b.WriteString("\n")
		return
	}
	const priceW, changeW = 16, 10
	firstW := width - priceW - changeW - 6
	if firstW > 40 {
		firstW = 40
	}
	if firstW < 10 {
		firstW = 10
	}
	widths := []int{firstW, priceW, changeW}

	b.WriteString("  ")
	for i, col := range view.Columns {
		b.WriteString(colHeaderStyle.Render(padOrTrunc(col, widths[i])))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	for _, row := range view.Rows {
		b.WriteString("  ")
		if row.Placeholder {
			b.WriteString(classStyle(row.Cells[0].Class).Render(row.Cells[0].Text))
			b.WriteString("\n")
			continue
		}
		for i, cell := range row.Cells {
			text := cell.Text
			if cell.Sub != "" {
				text += " (" + cell.Sub + ")"
			}
			b.WriteString(classStyle(cell.Class).Render(padOrTrunc(text, widths[i])))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
}

func (m Model) renderNews(b *strings.Builder) {
	msgs := m.deps.Msgs
	b.WriteString("  ")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(dimStyle.Render(msgs.NewsSearchPlaceholder + " (/)"))
	}
	b.WriteString("\n  ")
	for _, c := range news.Categories {
		label := msgs.NewsCategories[string(c)]
		if label == "" {
			label = string(c)
		}
		if c == m.news.Category {
			b.WriteString(tabActiveStyle.Render(label))
		} else {
			b.WriteString(tabStyle.Render(label))
		}
	}
	b.WriteString("\n")

	switch {
	case m.news.Loading:
		b.WriteString(dimStyle.Render("  " + msgs.NewsLoading))
		b.WriteString("\n")
	case m.news.Err != nil:
		b.WriteString(errorStyle.Render("  " + news.ErrorText(m.news.Err, msgs) + "  [r]"))
		b.WriteString("\n")
	case m.news.Success:
		b.WriteString(successStyle.Render("  " + msgs.NewsLoaded))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	grid := dashboard.RenderNews(m.news.Articles, m.deps.Loc, msgs)
	if grid.Empty != "" {
		b.WriteString(dimStyle.Render("  " + grid.Empty))
		b.WriteString("\n")
		return
	}
	wrap := lipgloss.NewStyle().Width(max(m.width-4, 20))
	for _, item := range grid.Items {
		b.WriteString("  ")
		b.WriteString(newsSymbolStyle.Render(item.Symbol))
		b.WriteString(" ")
		b.WriteString(newsTitleStyle.Render(item.Title))
		b.WriteString("\n  ")
		b.WriteString(linkStyle.Render(item.URL))
		b.WriteString("\n")
		for _, line := range strings.Split(wrap.Render(item.Description), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString(dimStyle.Render("  " + item.Date + "  " + item.Source))
		b.WriteString("\n\n")
	}
}

func (m Model) renderChat(b *strings.Builder) {
	wrap := lipgloss.NewStyle().Width(max(m.width-6, 20))
	for _, msg := range m.chat.Messages {
		text := msg.Content
		if msg.Loading {
			text = "..."
		}
		text = wrap.Render(text)
		if msg.Role == domain.RoleUser {
			line := userMsgStyle.Render(text)
			pad := m.width - 2 - lipgloss.Width(line)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(strings.Repeat(" ", pad) + line)
		} else {
			b.WriteString("  " + aiMsgStyle.Render(text))
		}
		b.WriteString("\n\n")
	}
	if m.chat.Busy {
		b.WriteString(dimStyle.Render("  ..."))
	} else {
		b.WriteString("  " + m.input.View())
	}
	b.WriteString("\n")
}
