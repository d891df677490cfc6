// Package normalize turns raw adapter records into canonical cards.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/cardfeed/internal/clock"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/geo"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Validity errors.
var (
	ErrMissingTitle   = errors.New("record has no title")
	ErrMissingSources = errors.New("record has no sources")
)

// fragmentLength bounds the title fragment carried by InvalidRecordError.
const fragmentLength = 40

// InvalidRecordError identifies a dropped record.
type InvalidRecordError struct {
	Fragment string
	Err      error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record %q: %v", e.Fragment, e.Err)
}

func (e *InvalidRecordError) Unwrap() error { return e.Err }

// GeoResolver is the subset of geo.Resolver the normalizer uses.
type GeoResolver interface {
	Resolve(text string) geo.Result
	Locate(area string) (geo.Result, bool)
}

// TypeClassifier is the subset of classify.Classifier the normalizer uses.
type TypeClassifier interface {
	Classify(text string, suggested domain.CardType) domain.CardType
}

// Normalizer builds cards from raw records.
type Normalizer struct {
	clock      clock.Clock
	ids        IDGenerator
	geo        GeoResolver
	classifier TypeClassifier
	log        logger.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(n *Normalizer) { n.clock = c }
}

// WithIDs overrides the ID suffix generator.
func WithIDs(g IDGenerator) Option {
	return func(n *Normalizer) { n.ids = g }
}

// WithLogger sets the logger used by NormalizeAll.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) { n.log = l }
}

// New creates a Normalizer. A nil resolver disables geo resolution.
func New(resolver GeoResolver, classifier TypeClassifier, opts ...Option) *Normalizer {
	n := &Normalizer{
		clock:      clock.System{},
		ids:        RandomIDs{},
		geo:        resolver,
		classifier: classifier,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts one raw record into a card. Records with no title or
// no sources are rejected with an *InvalidRecordError.
func (n *Normalizer) Normalize(raw domain.RawItem) (domain.Card, error) {
	title := CleanText(raw.Title)
	if title == "" {
		return domain.Card{}, &InvalidRecordError{Fragment: fragment(raw.Link), Err: ErrMissingTitle}
	}

	sources := sourcesFor(raw, title)
	if len(sources) == 0 {
		return domain.Card{}, &InvalidRecordError{Fragment: fragment(title), Err: ErrMissingSources}
	}

	summary := CleanText(raw.Summary)
	cardType := n.classify(title+" "+summary, raw.TypeHint)
	now := n.clock.Now()

	card := domain.Card{
		ID:             fmt.Sprintf("%s-%d-%s", cardType, now.UnixMilli(), n.ids.Suffix()),
		Type:           cardType,
		Title:          title,
		Summary:        summary,
		Tags:           Tags(cardType, raw.Tags),
		Geo:            n.resolveGeo(raw.Area, title+" "+summary),
		Period:         cleanPeriod(raw.Period),
		Sources:        sources,
		LastUpdatedKST: clock.FormatKST(now),
	}

	return card, nil
}

// NormalizeAll normalizes a batch, dropping invalid records with a warning.
// It returns the valid cards and the number of dropped records.
func (n *Normalizer) NormalizeAll(raws []domain.RawItem) ([]domain.Card, int) {
	cards := make([]domain.Card, 0, len(raws))
	dropped := 0

	for i := range raws {
		card, err := n.Normalize(raws[i])
		if err != nil {
			dropped++
			n.log.Warn("Dropping invalid record", logger.Error(err))
			continue
		}
		cards = append(cards, card)
	}

	return cards, dropped
}

func (n *Normalizer) classify(text string, hint domain.CardType) domain.CardType {
	if n.classifier == nil {
		if hint.Valid() {
			return hint
		}
		return domain.TypeIssue
	}
	return n.classifier.Classify(text, hint)
}

// resolveGeo tries the adapter-supplied area first, then the card text.
func (n *Normalizer) resolveGeo(area, text string) *domain.Geo {
	if n.geo == nil {
		return nil
	}

	area = CleanText(area)
	if area != "" {
		if res, ok := n.geo.Locate(area); ok {
			return res.Geo()
		}
		if res := n.geo.Resolve(area); res.Found() {
			return res.Geo()
		}
	}

	if res := n.geo.Resolve(text); res.Found() {
		return res.Geo()
	}

	if area != "" {
		// Keep the freeform name for later resolution.
		return &domain.Geo{Area: area}
	}
	return nil
}

// CleanText collapses whitespace in s and NFC-normalizes it.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// Tags lowercases and dedupes tags, placing the card type first.
func Tags(cardType domain.CardType, tags []string) []string {
	lower := cases.Lower(language.Und)
	out := []string{string(cardType)}
	seen := map[string]bool{string(cardType): true}

	for _, t := range tags {
		t = lower.String(CleanText(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	return out
}

func sourcesFor(raw domain.RawItem, title string) []domain.Source {
	if len(raw.Sources) > 0 {
		out := make([]domain.Source, 0, len(raw.Sources))
		for _, s := range raw.Sources {
			if strings.TrimSpace(s.URL) == "" {
				continue
			}
			out = append(out, domain.Source{
				Title:     CleanText(s.Title),
				URL:       strings.TrimSpace(s.URL),
				Publisher: CleanText(s.Publisher),
			})
		}
		return out
	}

	link := strings.TrimSpace(raw.Link)
	if link == "" {
		return nil
	}

	srcTitle := CleanText(raw.SourceTitle)
	if srcTitle == "" {
		srcTitle = title
	}

	return []domain.Source{{Title: srcTitle, URL: link, Publisher: CleanText(raw.Publisher)}}
}

func cleanPeriod(p *domain.Period) *domain.Period {
	if p == nil {
		return nil
	}
	start, end := strings.TrimSpace(p.Start), strings.TrimSpace(p.End)
	if start == "" && end == "" {
		return nil
	}
	return &domain.Period{Start: start, End: end}
}

func fragment(s string) string {
	s = CleanText(s)
	if utf8.RuneCountInString(s) <= fragmentLength {
		return s
	}
	return string([]rune(s)[:fragmentLength]) + "…"
}
