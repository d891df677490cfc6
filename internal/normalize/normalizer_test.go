package normalize_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/jonesrussell/cardfeed/internal/classify"
	"github.com/jonesrussell/cardfeed/internal/clock"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/geo"
	"github.com/jonesrussell/cardfeed/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 14, 1, 2, 3, 0, time.UTC)

func newNormalizer() *normalize.Normalizer {
	return normalize.New(
		geo.NewResolver(geo.DefaultDictionary()),
		classify.New(),
		normalize.WithClock(clock.Fixed(fixedNow)),
		normalize.WithIDs(&normalize.SequenceIDs{}),
	)
}

func TestNormalize_BuildsCanonicalCard(t *testing.T) {
	n := newNormalizer()

	card, err := n.Normalize(domain.RawItem{
		Title:     "  Seongsu   Pop-up\nOpens ",
		Summary:   "A new pop-up\tin Seongsu",
		Link:      "https://ex.com/1",
		Publisher: "Ex",
		Tags:      []string{"Fashion", "fashion", " "},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TypePopup, card.Type)
	assert.Equal(t, "Seongsu Pop-up Opens", card.Title)
	assert.Equal(t, "A new pop-up in Seongsu", card.Summary)
	assert.Equal(t, []string{"popup", "fashion"}, card.Tags)
	assert.Equal(t, "popup-1791939723000-000001", card.ID)
	assert.Equal(t, "2026-10-14T10:02:03+09:00", card.LastUpdatedKST)
	require.NotNil(t, card.Geo)
	assert.Equal(t, "Seongsu-dong", card.Geo.Area)
	assert.Equal(t, []domain.Source{{Title: "Seongsu Pop-up Opens", URL: "https://ex.com/1", Publisher: "Ex"}}, card.Sources)
	assert.Nil(t, card.Period)
	require.NoError(t, card.Validate())
}

func TestNormalize_IDFormat(t *testing.T) {
	n := normalize.New(nil, nil)

	card, err := n.Normalize(domain.RawItem{Title: "x", Link: "https://ex.com"})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^issue-\d{13}-[0-9a-f]{6}$`), card.ID)
	assert.Nil(t, card.Geo, "no resolver means no geo")
}

func TestNormalize_RejectsInvalidRecords(t *testing.T) {
	n := newNormalizer()

	_, err := n.Normalize(domain.RawItem{Title: "   ", Link: "https://ex.com"})
	require.ErrorIs(t, err, normalize.ErrMissingTitle)

	_, err = n.Normalize(domain.RawItem{Title: "No provenance"})
	require.ErrorIs(t, err, normalize.ErrMissingSources)

	_, err = n.Normalize(domain.RawItem{Title: "Blank sources", Sources: []domain.Source{{Title: "t"}}})
	var invalid *normalize.InvalidRecordError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Blank sources", invalid.Fragment)
}

func TestNormalizeAll_ValidityGate(t *testing.T) {
	n := newNormalizer()

	cards, dropped := n.NormalizeAll([]domain.RawItem{
		{Title: "Kept", Link: "https://ex.com/kept"},
		{Title: "Empty sources", Sources: []domain.Source{}},
		{Title: "", Link: "https://ex.com/untitled"},
	})

	assert.Equal(t, 2, dropped)
	require.Len(t, cards, 1)
	assert.Equal(t, "Kept", cards[0].Title)
	for _, c := range cards {
		assert.NotEmpty(t, c.Sources)
	}
}

func TestNormalize_GeoFromAdapterArea(t *testing.T) {
	n := newNormalizer()

	card, err := n.Normalize(domain.RawItem{Title: "Brand pop-up", Area: "성수동", Link: "https://ex.com"})
	require.NoError(t, err)
	require.NotNil(t, card.Geo)
	assert.Equal(t, "Seongsu-dong", card.Geo.Area)
	assert.True(t, card.Geo.HasCoordinates())
}

func TestNormalize_KeepsUnknownArea(t *testing.T) {
	n := newNormalizer()

	card, err := n.Normalize(domain.RawItem{Title: "Brand pop-up", Area: "Unknown Mall", Link: "https://ex.com"})
	require.NoError(t, err)
	require.NotNil(t, card.Geo)
	assert.Equal(t, "Unknown Mall", card.Geo.Area)
	assert.False(t, card.Geo.HasCoordinates())
}

func TestNormalize_NeverFabricatesGeoOrPeriod(t *testing.T) {
	n := newNormalizer()

	card, err := n.Normalize(domain.RawItem{
		Title:  "Parliament passes budget",
		Link:   "https://ex.com",
		Period: &domain.Period{},
	})
	require.NoError(t, err)

	assert.Nil(t, card.Geo)
	assert.Nil(t, card.Period)
}

func TestNormalize_TypeHintFallback(t *testing.T) {
	n := newNormalizer()

	card, err := n.Normalize(domain.RawItem{Title: "Parliament passes budget", Link: "https://ex.com", TypeHint: domain.TypeTip})
	require.NoError(t, err)

	assert.Equal(t, domain.TypeTip, card.Type)
}

func TestCleanText_NFC(t *testing.T) {
	decomposed := "Cafe\u0301"

	assert.Equal(t, "Caf\u00e9", normalize.CleanText(decomposed))
}
