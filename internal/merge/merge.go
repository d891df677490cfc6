// Package merge combines card batches into deduplicated collections.
package merge

import (
	"maps"
	"sort"
	"time"

	"github.com/jonesrussell/cardfeed/internal/domain"
)

// Order decides which side of a merge precedes the other. Because the first
// occurrence of a key is kept, the leading side wins duplicates.
type Order int

const (
	// IncomingFirst lets fresh cards replace stored duplicates.
	IncomingFirst Order = iota
	// ExistingFirst keeps stored cards and drops fresh duplicates.
	ExistingFirst
)

// String returns the config spelling of the order.
func (o Order) String() string {
	switch o {
	case IncomingFirst:
		return "incoming_first"
	case ExistingFirst:
		return "existing_first"
	default:
		return "unknown"
	}
}

// ParseOrder parses "incoming_first" or "existing_first".
func ParseOrder(s string) (Order, bool) {
	switch s {
	case "incoming_first", "incoming":
		return IncomingFirst, true
	case "existing_first", "existing":
		return ExistingFirst, true
	default:
		return IncomingFirst, false
	}
}

// Result is the outcome of a merge.
type Result struct {
	Cards []domain.Card
	// Added counts incoming cards whose key was not already stored.
	Added int
	// Dropped counts cards discarded as duplicates.
	Dropped int
}

// Key is the dedup key of a card: its type and stored title, compared exactly.
func Key(c domain.Card) string {
	return string(c.Type) + ":" + c.Title
}

// Dedup keeps the first card per key, preserving order.
func Dedup(cards []domain.Card) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	seen := make(map[string]struct{}, len(cards))

	for i := range cards {
		k := Key(cards[i])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, cards[i])
	}

	return out
}

// Merge concatenates incoming and existing in the given order and dedupes
// the result. Neither input is modified.
//
// With IncomingFirst a refreshed card replaces the stored one under the
// stored card's ID, and inherits its i18n and geo when it has none.
func Merge(order Order, incoming, existing []domain.Card) Result {
	first, second := incoming, existing
	if order == ExistingFirst {
		first, second = existing, incoming
	}

	stored := make(map[string]int, len(existing))
	for i := range existing {
		if _, ok := stored[Key(existing[i])]; !ok {
			stored[Key(existing[i])] = i
		}
	}

	total := len(first) + len(second)
	out := make([]domain.Card, 0, total)
	seen := make(map[string]struct{}, total)
	added := 0

	keep := func(cards []domain.Card, fromIncoming bool) {
		for i := range cards {
			c := cards[i]
			k := Key(c)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if fromIncoming {
				if j, ok := stored[k]; ok {
					c = carryForward(c, existing[j])
				} else {
					added++
				}
			}
			out = append(out, c)
		}
	}

	keep(first, order == IncomingFirst)
	keep(second, order == ExistingFirst)

	return Result{Cards: out, Added: added, Dropped: total - len(out)}
}

// IsNew returns a predicate that reports whether a card's key is absent
// from existing.
func IsNew(existing []domain.Card) func(domain.Card) bool {
	stored := make(map[string]struct{}, len(existing))
	for i := range existing {
		stored[Key(existing[i])] = struct{}{}
	}
	return func(c domain.Card) bool {
		_, ok := stored[Key(c)]
		return !ok
	}
}

func carryForward(c, prev domain.Card) domain.Card {
	c.ID = prev.ID
	if len(c.I18n) == 0 && len(prev.I18n) > 0 {
		c.I18n = maps.Clone(prev.I18n)
	}
	if c.Geo == nil && prev.Geo != nil {
		g := *prev.Geo
		c.Geo = &g
	}
	return c
}

// SortByUpdated orders cards by lastUpdatedKST, newest first. Unparseable
// timestamps sort last. The sort is stable.
func SortByUpdated(cards []domain.Card) {
	stamps := make(map[string]time.Time, len(cards))
	stampOf := func(c domain.Card) time.Time {
		if t, ok := stamps[c.LastUpdatedKST]; ok {
			return t
		}
		t, err := time.Parse(time.RFC3339, c.LastUpdatedKST)
		if err != nil {
			t = time.Time{}
		}
		stamps[c.LastUpdatedKST] = t
		return t
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return stampOf(cards[i]).After(stampOf(cards[j]))
	})
}

// SortByScore orders cards by score, highest first. The sort is stable.
func SortByScore(cards []domain.Card, score func(domain.Card) float64) {
	scores := make([]float64, len(cards))
	idx := make([]int, len(cards))
	for i := range cards {
		scores[i] = score(cards[i])
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	sorted := make([]domain.Card, len(cards))
	for to, from := range idx {
		sorted[to] = cards[from]
	}
	copy(cards, sorted)
}

// Enrich fills geo on cards that have none. fn returns nil to leave a card
// untouched. It returns the number of cards changed.
func Enrich(cards []domain.Card, fn func(domain.Card) *domain.Geo) int {
	changed := 0
	for i := range cards {
		if cards[i].Geo != nil {
			continue
		}
		if g := fn(cards[i]); g != nil {
			cards[i].Geo = g
			changed++
		}
	}
	return changed
}

// Trim keeps at most limit cards. A limit of zero or less keeps everything.
func Trim(cards []domain.Card, limit int) []domain.Card {
	if limit <= 0 || len(cards) <= limit {
		return cards
	}
	return cards[:limit]
}
