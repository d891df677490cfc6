package merge_test

import (
	"testing"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(t domain.CardType, title, summary string) domain.Card {
	return domain.Card{
		ID:      string(t) + "-" + title,
		Type:    t,
		Title:   title,
		Summary: summary,
		Sources: []domain.Source{{Title: title, URL: "https://ex.com/" + title}},
	}
}

func assertUniqueKeys(t *testing.T, cards []domain.Card) {
	t.Helper()
	seen := map[string]bool{}
	for _, c := range cards {
		k := merge.Key(c)
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "popup:Seongsu Pop-up", merge.Key(card(domain.TypePopup, "Seongsu Pop-up", "")))
}

func TestKey_IsCaseSensitive(t *testing.T) {
	cards := merge.Dedup([]domain.Card{
		card(domain.TypeIssue, "Title", ""),
		card(domain.TypeIssue, "title", ""),
		card(domain.TypePopup, "Title", ""),
	})
	assert.Len(t, cards, 3)
}

func TestDedup_FirstWins(t *testing.T) {
	a := card(domain.TypePopup, "Same", "A")
	b := card(domain.TypePopup, "Same", "B")

	got := merge.Dedup([]domain.Card{a, b})

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Summary)
}

func TestMerge_Idempotent(t *testing.T) {
	set := []domain.Card{
		card(domain.TypeIssue, "one", ""),
		card(domain.TypeTip, "two", ""),
		card(domain.TypeWeather, "three", ""),
	}

	for _, order := range []merge.Order{merge.IncomingFirst, merge.ExistingFirst} {
		res := merge.Merge(order, set, set)
		assert.Len(t, res.Cards, len(set), order.String())
		assert.Equal(t, len(set), res.Dropped)
		assertUniqueKeys(t, res.Cards)
	}
}

func TestMerge_Order(t *testing.T) {
	existing := []domain.Card{card(domain.TypeIssue, "shared", "old"), card(domain.TypeIssue, "kept", "")}
	incoming := []domain.Card{card(domain.TypeIssue, "shared", "new"), card(domain.TypeIssue, "fresh", "")}

	res := merge.Merge(merge.IncomingFirst, incoming, existing)
	require.Len(t, res.Cards, 3)
	assert.Equal(t, "new", res.Cards[0].Summary)
	assert.Equal(t, []string{"shared", "fresh", "kept"}, titles(res.Cards))
	assert.Equal(t, 1, res.Added, "a refreshed stored card is not added")
	assert.Equal(t, 1, res.Dropped)

	res = merge.Merge(merge.ExistingFirst, incoming, existing)
	require.Len(t, res.Cards, 3)
	assert.Equal(t, "old", res.Cards[0].Summary)
	assert.Equal(t, []string{"shared", "kept", "fresh"}, titles(res.Cards))
	assert.Equal(t, 1, res.Added)
}

func TestMerge_IncomingFirstKeepsStoredIdentity(t *testing.T) {
	lat, lng := 37.5446, 127.0559
	stored := domain.Card{
		ID:      "issue-1-aaaaaa",
		Type:    domain.TypeIssue,
		Title:   "Hangang fireworks",
		Summary: "old",
		Geo:     &domain.Geo{Area: "Yeouido", Lat: &lat, Lng: &lng},
		I18n:    map[string]domain.Localized{"fr": {Title: "Feux d'artifice"}},
	}
	refreshed := domain.Card{ID: "issue-2-bbbbbb", Type: domain.TypeIssue, Title: "Hangang fireworks", Summary: "new"}

	res := merge.Merge(merge.IncomingFirst, []domain.Card{refreshed}, []domain.Card{stored})

	require.Len(t, res.Cards, 1)
	got := res.Cards[0]
	assert.Equal(t, "issue-1-aaaaaa", got.ID)
	assert.Equal(t, "new", got.Summary)
	assert.Equal(t, "Feux d'artifice", got.I18n["fr"].Title)
	require.NotNil(t, got.Geo)
	assert.Equal(t, "Yeouido", got.Geo.Area)
	assert.Zero(t, res.Added)
	assert.Equal(t, 1, res.Dropped)
	assert.Empty(t, refreshed.I18n, "inputs are not modified")
}

func TestMerge_IncomingGeoAndI18nWin(t *testing.T) {
	stored := domain.Card{ID: "s", Type: domain.TypeIssue, Title: "t", Geo: &domain.Geo{Area: "Old"},
		I18n: map[string]domain.Localized{"fr": {Title: "ancien"}}}
	incoming := domain.Card{ID: "n", Type: domain.TypeIssue, Title: "t", Geo: &domain.Geo{Area: "New"},
		I18n: map[string]domain.Localized{"fr": {Title: "nouveau"}}}

	res := merge.Merge(merge.IncomingFirst, []domain.Card{incoming}, []domain.Card{stored})

	require.Len(t, res.Cards, 1)
	assert.Equal(t, "s", res.Cards[0].ID)
	assert.Equal(t, "New", res.Cards[0].Geo.Area)
	assert.Equal(t, "nouveau", res.Cards[0].I18n["fr"].Title)
}

func TestIsNew(t *testing.T) {
	isNew := merge.IsNew([]domain.Card{card(domain.TypeIssue, "stored", "")})

	assert.False(t, isNew(card(domain.TypeIssue, "stored", "x")))
	assert.True(t, isNew(card(domain.TypeTip, "stored", "")))
}

func TestMerge_EmptyIncomingIsNoOp(t *testing.T) {
	existing := []domain.Card{card(domain.TypeIssue, "b", ""), card(domain.TypeIssue, "a", "")}

	res := merge.Merge(merge.IncomingFirst, nil, existing)

	assert.Equal(t, existing, res.Cards)
	assert.Zero(t, res.Added)
	assert.Zero(t, res.Dropped)
}

func TestMerge_DedupesWithinIncoming(t *testing.T) {
	incoming := []domain.Card{card(domain.TypePopup, "x", "first"), card(domain.TypePopup, "x", "second")}

	res := merge.Merge(merge.IncomingFirst, incoming, nil)

	require.Len(t, res.Cards, 1)
	assert.Equal(t, "first", res.Cards[0].Summary)
	assert.Equal(t, 1, res.Added)
}

func TestSortByUpdated(t *testing.T) {
	cards := []domain.Card{
		{Title: "old", LastUpdatedKST: "2026-10-01T09:00:00+09:00"},
		{Title: "bad", LastUpdatedKST: "yesterday"},
		{Title: "new", LastUpdatedKST: "2026-10-14T09:00:00+09:00"},
		// Same instant as "new" expressed in UTC.
		{Title: "new-utc", LastUpdatedKST: "2026-10-14T00:00:00Z"},
	}

	merge.SortByUpdated(cards)

	assert.Equal(t, []string{"new", "new-utc", "old", "bad"}, titles(cards))
}

func TestSortByScore_Stable(t *testing.T) {
	cards := []domain.Card{
		{Title: "a", Summary: "1"},
		{Title: "b", Summary: "3"},
		{Title: "c", Summary: "1"},
		{Title: "d", Summary: "2"},
	}
	score := func(c domain.Card) float64 { return float64(c.Summary[0] - '0') }

	merge.SortByScore(cards, score)

	assert.Equal(t, []string{"b", "d", "a", "c"}, titles(cards))
}

func TestEnrich_OnlyFillsMissingGeo(t *testing.T) {
	cards := []domain.Card{
		{Title: "has", Geo: &domain.Geo{Area: "Itaewon"}},
		{Title: "missing"},
		{Title: "unknown"},
	}

	changed := merge.Enrich(cards, func(c domain.Card) *domain.Geo {
		if c.Title == "unknown" {
			return nil
		}
		return &domain.Geo{Area: "Hongdae"}
	})

	assert.Equal(t, 1, changed)
	assert.Equal(t, "Itaewon", cards[0].Geo.Area)
	assert.Equal(t, "Hongdae", cards[1].Geo.Area)
	assert.Nil(t, cards[2].Geo)
}

func TestTrim(t *testing.T) {
	cards := []domain.Card{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	assert.Len(t, merge.Trim(cards, 0), 3)
	assert.Len(t, merge.Trim(cards, 5), 3)
	assert.Equal(t, []string{"a", "b"}, titles(merge.Trim(cards, 2)))
}

func TestParseOrder(t *testing.T) {
	o, ok := merge.ParseOrder("existing_first")
	assert.True(t, ok)
	assert.Equal(t, merge.ExistingFirst, o)

	_, ok = merge.ParseOrder("sideways")
	assert.False(t, ok)
}

func titles(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}
