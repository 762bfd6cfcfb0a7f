package dashboard

import (
	"testing"
	"time"

	"marketboard/internal/domain"
)

var vi = MessagesFor("vi")

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{-999, "-999"},
	}
	for _, tt := range tests {
		if got := FormatInt(tt.in); got != tt.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Value
		want string
	}{
		{"number", domain.NumberValue(1234.5), "US$ 1,234.50"},
		{"small", domain.NumberValue(0.1), "US$ 0.10"},
		{"numeric string", domain.StringValue("189.9"), "US$ 189.90"},
		{"numeric prefix", domain.StringValue("12.5abc"), "US$ 12.50"},
		{"placeholder", domain.StringValue("N/A"), "N/A"},
		{"missing", domain.Value{}, "N/A"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("%s: FormatPrice = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		in        domain.Value
		wantText  string
		wantClass string
	}{
		{domain.NumberValue(1.234), "+1.23%", ClassUp},
		{domain.NumberValue(-0.5), "-0.50%", ClassDown},
		{domain.NumberValue(0), "0.00%", ClassNeutral},
		{domain.NumberValue(1.005), "+1.00%", ClassUp},
		{domain.NumberValue(2.675), "+2.67%", ClassUp},
		{domain.NumberValue(0.125), "+0.13%", ClassUp},
		{domain.NumberValue(-0.125), "-0.13%", ClassDown},
		{domain.NumberValue(-0.001), "-0.00%", ClassDown},
		{domain.StringValue("2"), "+2.00%", ClassUp},
		{domain.StringValue("n/a"), "N/A", ClassNeutral},
	}
	for _, tt := range tests {
		text, class := FormatChange(tt.in)
		if text != tt.wantText || class != tt.wantClass {
			t.Errorf("FormatChange(%s) = (%q, %q), want (%q, %q)", tt.in, text, class, tt.wantText, tt.wantClass)
		}
	}
}

func TestRenderTableEmpty(t *testing.T) {
	for _, tt := range []struct {
		kind Kind
		want string
	}{
		{KindStock, "Không có dữ liệu"},
		{KindETF, "Không có dữ liệu ETF"},
	} {
		view := RenderTable(nil, tt.kind, vi)
		if len(view.Rows) != 1 || !view.Rows[0].Placeholder {
			t.Fatalf("%s: rows = %+v, want one placeholder", tt.kind, view.Rows)
		}
		cell := view.Rows[0].Cells[0]
		if cell.Text != tt.want {
			t.Errorf("%s: placeholder = %q, want %q", tt.kind, cell.Text, tt.want)
		}
		if cell.Span != 3 {
			t.Errorf("%s: span = %d, want 3", tt.kind, cell.Span)
		}
	}
}

func TestRenderTableStock(t *testing.T) {
	records := []domain.Quote{
		{Symbol: "AAPL", Price: domain.NumberValue(189.5), Change: domain.NumberValue(1.25)},
		{Invalid: true},
		{Symbol: "MSFT", Price: domain.StringValue("bad"), Change: domain.NumberValue(-2)},
	}
	view := RenderTable(records, KindStock, vi)

	if view.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", view.Skipped)
	}
	if len(view.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(view.Rows))
	}
	if got := view.Columns[0]; got != vi.ColSymbol {
		t.Errorf("first column = %q, want %q", got, vi.ColSymbol)
	}

	first := view.Rows[0].Cells
	if first[0].Text != "AAPL" || first[0].Class != "symbol-cell" {
		t.Errorf("symbol cell = %+v", first[0])
	}
	if first[1].Text != "US$ 189.50" || first[1].Class != "price-cell" {
		t.Errorf("price cell = %+v", first[1])
	}
	if first[2].Text != "+1.25%" || first[2].Class != ClassUp {
		t.Errorf("change cell = %+v", first[2])
	}

	second := view.Rows[1].Cells
	if second[1].Text != "N/A" {
		t.Errorf("price = %q, want N/A", second[1].Text)
	}
	if second[2].Class != ClassDown {
		t.Errorf("class = %q, want %q", second[2].Class, ClassDown)
	}
}

func TestRenderTableETF(t *testing.T) {
	records := []domain.Quote{
		{Symbol: "SPY", Name: "SPDR S&P 500", Price: domain.NumberValue(500), Change: domain.NumberValue(0)},
		{Symbol: "QQQ"},
	}
	view := RenderTable(records, KindETF, vi)

	if got := view.Columns[0]; got != vi.ColName {
		t.Errorf("first column = %q, want %q", got, vi.ColName)
	}
	name := view.Rows[0].Cells[0]
	if name.Text != "SPDR S&P 500" || name.Sub != "SPY" {
		t.Errorf("name cell = %+v", name)
	}
	if got := view.Rows[0].Cells[2].Class; got != ClassNeutral {
		t.Errorf("class = %q, want %q", got, ClassNeutral)
	}
	if got := view.Rows[1].Cells[0].Text; got != "N/A" {
		t.Errorf("missing name = %q, want N/A", got)
	}
}

func TestCardsApply(t *testing.T) {
	cards := NewCards([]string{"SPY", "DIA", "SPY"})

	missing := cards.Apply([]domain.Quote{
		{Symbol: "SPY", Price: domain.NumberValue(1234.5), Change: domain.NumberValue(0.456)},
		{Symbol: "DIA", Price: domain.StringValue("N/A"), Change: domain.NumberValue(-1)},
		{Symbol: "IWM", Price: domain.NumberValue(200)},
	})

	if len(missing) != 1 || missing[0] != "IWM" {
		t.Errorf("missing = %v, want [IWM]", missing)
	}

	list := cards.List()
	if len(list) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(list))
	}
	spy, dia := list[0], list[1]
	if spy.Value != "1,234.50" || spy.Change != "↗ +0.46%" || spy.Class != CardPositive {
		t.Errorf("SPY card = %+v", spy)
	}
	if dia.Value != "--" {
		t.Errorf("DIA value = %q, want unchanged placeholder", dia.Value)
	}
	if dia.Change != "↘ -1.00%" || dia.Class != CardNegative {
		t.Errorf("DIA card = %+v", dia)
	}

	// A later non-numeric change keeps the previous text.
	cards.Apply([]domain.Quote{{Symbol: "SPY", Price: domain.NumberValue(1), Change: domain.StringValue("x")}})
	spy = cards.List()[0]
	if spy.Value != "1.00" || spy.Change != "↗ +0.46%" {
		t.Errorf("SPY card after update = %+v", spy)
	}
}

func TestCardsZeroChange(t *testing.T) {
	cards := NewCards([]string{"QQQ"})
	cards.Apply([]domain.Quote{{Symbol: "QQQ", Change: domain.NumberValue(0)}})
	c := cards.List()[0]
	if c.Change != "↗ +0.00%" || c.Class != CardNeutral {
		t.Errorf("QQQ card = %+v", c)
	}
}

func TestUpdatedStatus(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)
	s := UpdatedStatus(vi, at)
	if s.Text != "Cập nhật lúc: 14:05:09" {
		t.Errorf("Text = %q", s.Text)
	}
	if s.Class != StatusConnected {
		t.Errorf("Class = %q, want %q", s.Class, StatusConnected)
	}
	if got := DisconnectedStatus(vi).Text; got != "Mất kết nối - Đang thử kết nối lại..." {
		t.Errorf("DisconnectedStatus = %q", got)
	}
}

func TestRenderNews(t *testing.T) {
	articles := []domain.NewsArticle{
		{
			Symbol:      "AAPL",
			Title:       "Apple <b>beats</b>",
			Description: "<p>Record   quarter</p>",
			URL:         "https://example.com/a",
			PublishedAt: "2024-01-01T10:00:00Z",
			Source:      "Wire",
		},
		{Symbol: "MSFT", Title: "Plain", URL: "javascript:alert(1)", PublishedAt: "soon"},
	}
	grid := RenderNews(articles, time.UTC, vi)

	if grid.Empty != "" || len(grid.Items) != 2 {
		t.Fatalf("grid = %+v", grid)
	}
	a := grid.Items[0]
	if a.Title != "Apple beats" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Description != "Record quarter" {
		t.Errorf("Description = %q", a.Description)
	}
	if a.Date != "Jan 1, 2024, 10:00 AM" {
		t.Errorf("Date = %q", a.Date)
	}
	if a.URL != "https://example.com/a" {
		t.Errorf("URL = %q", a.URL)
	}

	b := grid.Items[1]
	if b.URL != "#" {
		t.Errorf("URL = %q, want #", b.URL)
	}
	if b.Description != "No description available" {
		t.Errorf("Description = %q", b.Description)
	}
	if b.Date != "Invalid Date" {
		t.Errorf("Date = %q", b.Date)
	}
}

func TestRenderNewsEmpty(t *testing.T) {
	grid := RenderNews(nil, nil, vi)
	if grid.Empty != "No news found" || len(grid.Items) != 0 {
		t.Errorf("grid = %+v", grid)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain  text", "plain text"},
		{"AT&amp;T <i>rallies</i>", "AT&T rallies"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMessagesFor(t *testing.T) {
	if got := MessagesFor("en").NoData; got != "No data" {
		t.Errorf("en NoData = %q", got)
	}
	if got := MessagesFor("fr").NoData; got != "Không có dữ liệu" {
		t.Errorf("fallback NoData = %q", got)
	}
}

func TestRenderPayloadNonArray(t *testing.T) {
	for _, raw := range []string{`{"symbol":"AAPL"}`, `null`, `"oops"`, `[]`} {
		view := RenderPayload([]byte(raw), KindStock, vi)
		if len(view.Rows) != 1 || !view.Rows[0].Placeholder || view.Rows[0].Cells[0].Span != 3 {
			t.Errorf("RenderPayload(%s) rows = %+v, want one placeholder", raw, view.Rows)
		}
	}
}
