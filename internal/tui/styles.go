package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marketboard/internal/dashboard"
)

// Styles.
var (
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	tabStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	symbolStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	priceStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	gainStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	colHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Underline(true)
	connectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2"))
	disconnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	cardStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1).Width(22)
	newsSymbolStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")).Padding(0, 1)
	newsTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	linkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Underline(true)
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	userMsgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Padding(0, 1)
	aiMsgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("237")).Padding(0, 1)
)

// classStyle maps a view-model class to its terminal style.
func classStyle(class string) lipgloss.Style {
	switch class {
	case dashboard.ClassUp, dashboard.CardPositive:
		return gainStyle
	case dashboard.ClassDown, dashboard.CardNegative:
		return lossStyle
	case dashboard.ClassNeutral, "placeholder":
		return dimStyle
	case "symbol-cell":
		return symbolStyle
	case "price-cell":
		return priceStyle
	case dashboard.StatusConnected:
		return connectedStyle
	case dashboard.StatusDisconnected:
		return disconnStyle
	default:
		return lipgloss.NewStyle()
	}
}

// padOrTrunc pads s with spaces to width display cells, or truncates it.
func padOrTrunc(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w == width {
		return s
	}
	if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > width {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + strings.Repeat(" ", width-used)
}
