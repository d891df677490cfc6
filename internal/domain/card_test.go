package domain_test

import (
	"math"
	"testing"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() domain.Card {
	return domain.Card{
		ID:      "issue-1-abcdef",
		Type:    domain.TypeIssue,
		Title:   "Title",
		Sources: []domain.Source{{Title: "t", URL: "https://ex.com", Publisher: "Ex"}},
	}
}

func TestCard_Validate(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name    string
		mutate  func(c *domain.Card)
		wantErr error
	}{
		{"valid", func(*domain.Card) {}, nil},
		{"blank title", func(c *domain.Card) { c.Title = "  " }, domain.ErrMissingTitle},
		{"no sources", func(c *domain.Card) { c.Sources = nil }, domain.ErrMissingSources},
		{"unknown type", func(c *domain.Card) { c.Type = "news" }, domain.ErrUnknownType},
		{"nan latitude", func(c *domain.Card) { c.Geo = &domain.Geo{Lat: &nan} }, domain.ErrBadCoordinates},
		{"area only", func(c *domain.Card) { c.Geo = &domain.Geo{Area: "Hongdae"} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCard()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseCardType(t *testing.T) {
	got, ok := domain.ParseCardType(" Popup ")
	assert.True(t, ok)
	assert.Equal(t, domain.TypePopup, got)

	_, ok = domain.ParseCardType("news")
	assert.False(t, ok)
}

func TestCollectionFile(t *testing.T) {
	assert.Equal(t, domain.CollectionInbox, domain.CollectionFile("inbox"))
	assert.Equal(t, domain.CollectionPublished, domain.CollectionFile("published"))
	assert.Equal(t, "custom.json", domain.CollectionFile("custom.json"))
}
