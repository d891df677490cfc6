// Package review moves cards between the inbox and the published collection.
// Nothing is promoted automatically; every transition is an explicit call.
package review

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/merge"
	"github.com/jonesrussell/cardfeed/internal/store"
)

// ErrNoIDs is returned when a transition is requested with no card IDs.
var ErrNoIDs = errors.New("no card ids given")

// Outcome reports what a transition did.
type Outcome struct {
	// Matched lists the IDs found in the source collection.
	Matched []string
	// Missing lists requested IDs that were not found.
	Missing []string
	// Duplicates counts approved cards dropped because published already
	// held a card with the same key.
	Duplicates int
}

// Gate applies review decisions to a store.
type Gate struct {
	store store.Store
	log   logger.Logger
}

// NewGate creates a review gate.
func NewGate(s store.Store, log logger.Logger) *Gate {
	if log == nil {
		log = logger.NewNop()
	}
	return &Gate{store: s, log: log}
}

// List returns the cards of a collection.
func (g *Gate) List(collection string) []domain.Card {
	return g.store.Load(collection)
}

// Approve moves the given cards from the inbox into published. A published
// card with the same key wins over the approved one.
func (g *Gate) Approve(ids ...string) (Outcome, error) {
	if len(ids) == 0 {
		return Outcome{}, ErrNoIDs
	}

	inbox := g.store.Load(domain.CollectionInbox)
	picked, rest, out := split(inbox, ids)
	if len(picked) == 0 {
		return out, nil
	}

	published := g.store.Load(domain.CollectionPublished)
	res := merge.Merge(merge.ExistingFirst, picked, published)
	out.Duplicates = len(picked) - res.Added

	// Published first: a failure after this leaves the card in both files,
	// which the next approve resolves through dedup.
	if err := g.store.Save(domain.CollectionPublished, res.Cards); err != nil {
		return out, fmt.Errorf("save published: %w", err)
	}
	if err := g.store.Save(domain.CollectionInbox, rest); err != nil {
		return out, fmt.Errorf("save inbox: %w", err)
	}

	g.log.Info("Cards approved",
		logger.Int("approved", res.Added),
		logger.Int("duplicates", out.Duplicates),
		logger.Int("missing", len(out.Missing)),
	)

	return out, nil
}

// Reject removes the given cards from the inbox.
func (g *Gate) Reject(ids ...string) (Outcome, error) {
	out, err := g.Remove(domain.CollectionInbox, ids...)
	if err != nil {
		return out, err
	}
	g.log.Info("Cards rejected", logger.Int("rejected", len(out.Matched)))
	return out, nil
}

// Remove deletes the given cards from any collection.
func (g *Gate) Remove(collection string, ids ...string) (Outcome, error) {
	if len(ids) == 0 {
		return Outcome{}, ErrNoIDs
	}

	cards := g.store.Load(collection)
	_, rest, out := split(cards, ids)
	if len(out.Matched) == 0 {
		return out, nil
	}

	if err := g.store.Save(collection, rest); err != nil {
		return out, fmt.Errorf("save %s: %w", collection, err)
	}

	return out, nil
}

// split partitions cards into those whose ID is in ids and the rest, both in
// original order.
func split(cards []domain.Card, ids []string) ([]domain.Card, []domain.Card, Outcome) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = false
	}

	var picked []domain.Card
	rest := make([]domain.Card, 0, len(cards))
	for i := range cards {
		if _, ok := wanted[cards[i].ID]; ok {
			wanted[cards[i].ID] = true
			picked = append(picked, cards[i])
			continue
		}
		rest = append(rest, cards[i])
	}

	var out Outcome
	for _, id := range ids {
		if wanted[id] {
			if !contains(out.Matched, id) {
				out.Matched = append(out.Matched, id)
			}
			continue
		}
		if !contains(out.Missing, id) {
			out.Missing = append(out.Missing, id)
		}
	}

	return picked, rest, out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
