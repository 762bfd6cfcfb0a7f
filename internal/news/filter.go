package news

import (
	"sort"
	"strings"

	"marketboard/internal/domain"
	"marketboard/pkg/marketboard"
)

// Category is a keyword filter over article titles and descriptions.
type Category string

const (
	CategoryAll     Category = "all"
	CategoryMarket  Category = "market"
	CategoryCompany Category = "company"
	CategoryEconomy Category = "economy"
)

// Categories lists the selectable categories in display order.
var Categories = []Category{CategoryAll, CategoryMarket, CategoryCompany, CategoryEconomy}

// ParseCategory maps a name to a Category. Unknown names mean all.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryAll
}

// Next cycles to the following category.
func (c Category) Next() Category {
	for i, known := range Categories {
		if known == c {
			return Categories[(i+1)%len(Categories)]
		}
	}
	return CategoryAll
}

// Flatten joins the groups into one sequence in server order. Articles
// already carry their group's symbol.
func Flatten(groups []marketboard.NewsGroup) []domain.NewsArticle {
	n := 0
	for _, g := range groups {
		n += len(g.Articles)
	}
	out := make([]domain.NewsArticle, 0, n)
	for _, g := range groups {
		for _, a := range g.Articles {
			if a.Symbol == "" {
				a.Symbol = g.Symbol
			}
			out = append(out, a)
		}
	}
	return out
}

// SortByPublished orders articles newest first, in place. The sort is
// stable, and an article whose date does not parse compares equal to
// every other article.
func SortByPublished(articles []domain.NewsArticle) {
	type keyed struct {
		article domain.NewsArticle
		at      int64
		ok      bool
	}
	ks := make([]keyed, len(articles))
	for i, a := range articles {
		ks[i].article = a
		if t, ok := a.PublishedTime(); ok {
			ks[i].at, ks[i].ok = t.UnixNano(), true
		}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].ok && ks[j].ok && ks[i].at > ks[j].at
	})
	for i := range ks {
		articles[i] = ks[i].article
	}
}

// Filter returns the articles matching the search query and category. The
// query is matched case-insensitively against title, description and
// symbol; the category keyword against title and description.
func Filter(articles []domain.NewsArticle, query string, category Category) []domain.NewsArticle {
	q := strings.ToLower(query)
	out := make([]domain.NewsArticle, 0, len(articles))
	for _, a := range articles {
		title := strings.ToLower(a.Title)
		desc := strings.ToLower(a.Description)
		if q != "" && !strings.Contains(title, q) && !strings.Contains(desc, q) &&
			!strings.Contains(strings.ToLower(a.Symbol), q) {
			continue
		}
		if category != CategoryAll && category != "" {
			kw := string(category)
			if !strings.Contains(title, kw) && !strings.Contains(desc, kw) {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}
