package dashboard

import (
	"marketboard/internal/domain"
)

// Card classes for the home-section index cards.
const (
	CardPositive = "positive"
	CardNegative = "negative"
	CardNeutral  = "neutral"
)

const cardPlaceholder = "--"

// Card is one index card on the home section.
type Card struct {
	Symbol string
	Name   string
	Value  string
	Change string
	Class  string
}

// Cards holds the configured index cards in display order. Only symbols
// passed to NewCards have a card; updates for other symbols are ignored.
type Cards struct {
	order []string
	cards map[string]*Card
}

// NewCards creates one placeholder card per symbol.
func NewCards(symbols []string) *Cards {
	c := &Cards{cards: make(map[string]*Card, len(symbols))}
	for _, s := range symbols {
		if _, dup := c.cards[s]; dup || s == "" {
			continue
		}
		c.order = append(c.order, s)
		c.cards[s] = &Card{Symbol: s, Value: cardPlaceholder, Change: cardPlaceholder, Class: CardNeutral}
	}
	return c
}

// Apply updates the cards from an ETF data set. A numeric price sets the
// value and a numeric change sets the change text and class; non-numeric
// fields leave the previous text in place. It returns the symbols that had
// no card.
func (c *Cards) Apply(quotes []domain.Quote) (missing []string) {
	for _, q := range quotes {
		if q.Invalid {
			continue
		}
		card, ok := c.cards[q.Symbol]
		if !ok {
			missing = append(missing, q.Symbol)
			continue
		}
		if q.Name != "" {
			card.Name = q.Name
		}
		if f, ok := q.Price.Float(); ok {
			card.Value = FormatAmount(f)
		}
		if f, ok := q.Change.Float(); ok {
			arrow := "↘ "
			if f >= 0 {
				arrow = "↗ +"
			}
			card.Change = arrow + FormatFixed2(f) + "%"
			switch {
			case f > 0:
				card.Class = CardPositive
			case f < 0:
				card.Class = CardNegative
			default:
				card.Class = CardNeutral
			}
		}
	}
	return missing
}

// List returns copies of the cards in configuration order.
func (c *Cards) List() []Card {
	out := make([]Card, 0, len(c.order))
	for _, s := range c.order {
		out = append(out, *c.cards[s])
	}
	return out
}
