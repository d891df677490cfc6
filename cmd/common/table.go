package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/cardfeed/internal/classify"
	"github.com/jonesrussell/cardfeed/internal/domain"
)

const maxTitleWidth = 60

// RenderCards writes cards as a table.
func RenderCards(w io.Writer, cards []domain.Card) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Type", "Title", "Area", "Updated", "Sources"})

	for _, c := range cards {
		area := ""
		if c.Geo != nil {
			area = c.Geo.Area
		}
		t.AppendRow(table.Row{c.ID, c.Type, truncate(c.Title, maxTitleWidth), area, c.LastUpdatedKST, len(c.Sources)})
	}

	t.AppendFooter(table.Row{"", "", "Total", len(cards)})
	t.Render()
}

// RenderExplained writes each card beside the type its text classifies as
// now and the rule that decided it. Rule "-" means no rule matched and the
// stored type was kept.
func RenderExplained(w io.Writer, cards []domain.Card, c *classify.Classifier) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Stored", "Classified", "Rule", "Title"})

	for _, card := range cards {
		got, rule := c.Explain(card.Title+" "+card.Summary, card.Type)
		if rule == "" {
			rule = "-"
		}
		t.AppendRow(table.Row{card.ID, card.Type, got, rule, truncate(card.Title, maxTitleWidth)})
	}

	t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// FilterType keeps cards of the named type. An empty name keeps all.
func FilterType(cards []domain.Card, name string) ([]domain.Card, error) {
	if name == "" {
		return cards, nil
	}
	t, ok := domain.ParseCardType(name)
	if !ok {
		return nil, fmt.Errorf("unknown card type %q", name)
	}
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out, nil
}
