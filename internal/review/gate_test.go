package review_test

import (
	"testing"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/review"
	"github.com/jonesrussell/cardfeed/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id, title, summary string) domain.Card {
	return domain.Card{
		ID:      id,
		Type:    domain.TypeIssue,
		Title:   title,
		Summary: summary,
		Sources: []domain.Source{{Title: title, URL: "https://ex.com/" + id}},
	}
}

func setup(t *testing.T, inbox, published []domain.Card) (*review.Gate, *store.FileStore) {
	t.Helper()
	s := store.NewFileStore(t.TempDir(), nil)
	require.NoError(t, s.Save(domain.CollectionInbox, inbox))
	require.NoError(t, s.Save(domain.CollectionPublished, published))
	return review.NewGate(s, nil), s
}

func ids(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestGate_Approve(t *testing.T) {
	gate, s := setup(t,
		[]domain.Card{card("a", "A", ""), card("b", "B", ""), card("c", "C", "")},
		[]domain.Card{card("p", "P", "")},
	)

	out, err := gate.Approve("c", "a", "zzz")
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a"}, out.Matched)
	assert.Equal(t, []string{"zzz"}, out.Missing)
	assert.Zero(t, out.Duplicates)
	assert.Equal(t, []string{"b"}, ids(s.Load(domain.CollectionInbox)))
	assert.Equal(t, []string{"p", "a", "c"}, ids(s.Load(domain.CollectionPublished)))
}

func TestGate_ApprovePublishedDuplicateWins(t *testing.T) {
	gate, s := setup(t,
		[]domain.Card{card("new", "Same", "from inbox")},
		[]domain.Card{card("old", "Same", "already published")},
	)

	out, err := gate.Approve("new")
	require.NoError(t, err)

	assert.Equal(t, 1, out.Duplicates)
	published := s.Load(domain.CollectionPublished)
	require.Len(t, published, 1)
	assert.Equal(t, "already published", published[0].Summary)
	assert.Empty(t, s.Load(domain.CollectionInbox))
}

func TestGate_Reject(t *testing.T) {
	gate, s := setup(t, []domain.Card{card("a", "A", ""), card("b", "B", "")}, nil)

	out, err := gate.Reject("a")
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, out.Matched)
	assert.Equal(t, []string{"b"}, ids(s.Load(domain.CollectionInbox)))
	assert.Empty(t, s.Load(domain.CollectionPublished))
}

func TestGate_RemoveFromPublished(t *testing.T) {
	gate, s := setup(t, nil, []domain.Card{card("p", "P", ""), card("q", "Q", "")})

	out, err := gate.Remove(domain.CollectionPublished, "q")
	require.NoError(t, err)

	assert.Equal(t, []string{"q"}, out.Matched)
	assert.Equal(t, []string{"p"}, ids(gate.List("published")))
	assert.Equal(t, []string{"p"}, ids(s.Load(domain.CollectionPublished)))
}

func TestGate_NoIDs(t *testing.T) {
	gate, _ := setup(t, nil, nil)

	_, err := gate.Approve()
	require.ErrorIs(t, err, review.ErrNoIDs)

	_, err = gate.Remove("inbox")
	require.ErrorIs(t, err, review.ErrNoIDs)
}

func TestGate_UnknownIDsLeaveFilesUntouched(t *testing.T) {
	gate, s := setup(t, []domain.Card{card("a", "A", "")}, nil)

	out, err := gate.Reject("nope")
	require.NoError(t, err)

	assert.Empty(t, out.Matched)
	assert.Equal(t, []string{"nope"}, out.Missing)
	assert.Equal(t, []string{"a"}, ids(s.Load(domain.CollectionInbox)))
}
