// Package source fetches raw candidate records from feeds, search feeds and
// scraped list pages. A failing feed or page never fails the batch: adapters
// return whatever succeeded together with the joined per-source errors.
package source

import (
	"context"
	"errors"

	"github.com/jonesrussell/cardfeed/internal/domain"
)

// Adapter yields raw records from one kind of source. The error, when
// non-nil, describes sources that contributed nothing; items are valid
// either way.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.RawItem, error)
}

// Errors flattens an error returned by Adapter.Fetch into its per-source
// parts.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
