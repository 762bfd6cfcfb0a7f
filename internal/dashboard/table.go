// Package dashboard turns quote, news and status data into view-models: plain
// structs of display text and CSS-like classes that a terminal adapter can
// style without knowing any formatting rules.
package dashboard

import (
	"encoding/json"

	"marketboard/internal/domain"
)

// Kind selects the table layout.
type Kind int

const (
	KindStock Kind = iota
	KindETF
)

func (k Kind) String() string {
	if k == KindETF {
		return "etf"
	}
	return "stock"
}

// Column count shared by both table kinds.
const tableColumns = 3

// Cell is one table cell. Sub is a secondary line (the ETF symbol under its
// name). Span is the number of columns the cell covers.
type Cell struct {
	Text  string
	Sub   string
	Class string
	Span  int
}

// Row is one rendered table row.
type Row struct {
	Cells       []Cell
	Placeholder bool
}

// TableView is the complete rendered state of a quote table.
type TableView struct {
	Kind    Kind
	Columns []string
	Rows    []Row
	// Skipped counts records dropped because they were not objects.
	Skipped int
}

// RenderTable rebuilds a quote table from scratch. Empty input yields a single
// placeholder row spanning every column. Invalid records are skipped and
// counted; the remaining records still render.
func RenderTable(records []domain.Quote, kind Kind, msgs Messages) TableView {
	view := TableView{Kind: kind, Columns: columns(kind, msgs)}

	if len(records) == 0 {
		view.Rows = []Row{placeholderRow(kind, msgs)}
		return view
	}

	view.Rows = make([]Row, 0, len(records))
	for _, q := range records {
		if q.Invalid {
			view.Skipped++
			continue
		}
		view.Rows = append(view.Rows, quoteRow(q, kind))
	}
	return view
}

// RenderPayload renders a raw quote payload. Anything that is not a JSON
// array renders as the placeholder row.
func RenderPayload(raw json.RawMessage, kind Kind, msgs Messages) TableView {
	records, err := domain.ParseQuotes(raw)
	if err != nil {
		records = nil
	}
	return RenderTable(records, kind, msgs)
}

func columns(kind Kind, msgs Messages) []string {
	first := msgs.ColSymbol
	if kind == KindETF {
		first = msgs.ColName
	}
	return []string{first, msgs.ColPrice, msgs.ColChange}
}

func placeholderRow(kind Kind, msgs Messages) Row {
	text := msgs.NoData
	if kind == KindETF {
		text = msgs.NoETFData
	}
	return Row{
		Placeholder: true,
		Cells:       []Cell{{Text: text, Class: "placeholder", Span: tableColumns}},
	}
}

func quoteRow(q domain.Quote, kind Kind) Row {
	first := Cell{Text: orNA(q.Symbol), Class: "symbol-cell", Span: 1}
	if kind == KindETF {
		first = Cell{Text: orNA(q.Name), Sub: orNA(q.Symbol), Class: "symbol-cell", Span: 1}
	}

	changeText, changeClass := FormatChange(q.Change)
	return Row{Cells: []Cell{
		first,
		{Text: FormatPrice(q.Price), Class: "price-cell", Span: 1},
		{Text: changeText, Class: changeClass, Span: 1},
	}}
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
