package dashboard

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"marketboard/internal/domain"
)

// NewsDateLayout is the display layout for article timestamps.
const NewsDateLayout = "Jan 2, 2006, 03:04 PM"

// NewsItem is one rendered article.
type NewsItem struct {
	Symbol      string
	Title       string
	URL         string
	Description string
	Date        string
	Source      string
}

// NewsGrid is the rendered news panel. Empty holds the placeholder text when
// there are no items.
type NewsGrid struct {
	Items []NewsItem
	Empty string
}

// RenderNews rebuilds the news grid from the filtered article list. Dates
// are shown in loc; a nil loc means time.Local.
func RenderNews(articles []domain.NewsArticle, loc *time.Location, msgs Messages) NewsGrid {
	if len(articles) == 0 {
		return NewsGrid{Empty: msgs.NewsEmpty}
	}
	if loc == nil {
		loc = time.Local
	}

	items := make([]NewsItem, 0, len(articles))
	for _, a := range articles {
		desc := StripHTML(a.Description)
		if desc == "" {
			desc = msgs.NewsNoDescription
		}
		date := msgs.NewsInvalidDate
		if t, ok := a.PublishedTime(); ok {
			date = t.In(loc).Format(NewsDateLayout)
		}
		items = append(items, NewsItem{
			Symbol:      a.Symbol,
			Title:       StripHTML(a.Title),
			URL:         SafeURL(a.URL),
			Description: desc,
			Date:        date,
			Source:      a.Source,
		})
	}
	return NewsGrid{Items: items}
}

// StripHTML reduces an HTML fragment to its text content with runs of
// whitespace collapsed. Plain text passes through unchanged apart from the
// whitespace.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// SafeURL returns raw when it is an absolute http(s) URL and "#" otherwise.
func SafeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "#"
	}
	switch u.Scheme {
	case "http", "https":
		return u.String()
	}
	return "#"
}
