package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metrics"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// httpPrefix marks a GUID that can stand in for a missing link.
const httpPrefix = "http"

// DefaultFeedTimeout bounds a single feed fetch.
const DefaultFeedTimeout = 15 * time.Second

// FeedAdapter fetches RSS/Atom feeds one at a time, in configured order.
type FeedAdapter struct {
	name           string
	feeds          []domain.FeedSpec
	fetcher        Fetcher
	limiter        *rate.Limiter
	timeout        time.Duration
	splitPublisher bool
	log            logger.Logger
	metrics        *metrics.Metrics
}

// FeedOption configures a FeedAdapter.
type FeedOption func(*FeedAdapter)

// WithLimiter spaces out feed requests.
func WithLimiter(l *rate.Limiter) FeedOption {
	return func(a *FeedAdapter) { a.limiter = l }
}

// WithFeedTimeout overrides the per-feed timeout.
func WithFeedTimeout(d time.Duration) FeedOption {
	return func(a *FeedAdapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithFeedLogger sets the logger.
func WithFeedLogger(l logger.Logger) FeedOption {
	return func(a *FeedAdapter) { a.log = l }
}

// WithFeedMetrics records fetch outcomes.
func WithFeedMetrics(m *metrics.Metrics) FeedOption {
	return func(a *FeedAdapter) { a.metrics = m }
}

// WithPublisherSuffix recovers publishers from titles ending in
// " - Publisher", as aggregator feeds write them.
func WithPublisherSuffix() FeedOption {
	return func(a *FeedAdapter) { a.splitPublisher = true }
}

// NewFeedAdapter creates a feed adapter.
func NewFeedAdapter(name string, feeds []domain.FeedSpec, fetcher Fetcher, opts ...FeedOption) *FeedAdapter {
	a := &FeedAdapter{
		name:    name,
		feeds:   feeds,
		fetcher: fetcher,
		timeout: DefaultFeedTimeout,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the adapter name.
func (a *FeedAdapter) Name() string { return a.name }

// Feeds returns the configured feeds.
func (a *FeedAdapter) Feeds() []domain.FeedSpec { return a.feeds }

// Fetch retrieves every feed in order. Failed feeds are skipped.
func (a *FeedAdapter) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	var (
		out  []domain.RawItem
		errs []error
	)

	for i, spec := range a.feeds {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				errs = append(errs, skipped(a.feeds[i:], err)...)
				break
			}
		}

		items, err := a.fetchFeed(ctx, spec)
		a.metrics.ObserveFetch(a.name, err, len(items))
		if err != nil {
			logFetchError(a.log, "Feed failed, skipping", err,
				logger.String("adapter", a.name),
				logger.String("url", spec.URL),
			)
			errs = append(errs, err)
			continue
		}

		a.log.Debug("Feed fetched",
			logger.String("adapter", a.name),
			logger.String("url", spec.URL),
			logger.Int("items", len(items)),
		)
		out = append(out, items...)
	}

	return out, errors.Join(errs...)
}

func (a *FeedAdapter) fetchFeed(ctx context.Context, spec domain.FeedSpec) ([]domain.RawItem, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	body, err := a.fetcher.Fetch(ctx, spec.URL)
	if err != nil {
		return nil, err
	}

	items, err := ParseFeed(body, spec, a.splitPublisher)
	if err != nil {
		return nil, ClassifyParseError(err, spec.URL)
	}
	return items, nil
}

// ParseFeed converts an RSS or Atom body into raw items. Items with no
// title or usable link are skipped.
func ParseFeed(body []byte, spec domain.FeedSpec, splitPublisher bool) ([]domain.RawItem, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]domain.RawItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		link := extractLink(entry)
		title := strings.TrimSpace(entry.Title)
		if link == "" || title == "" {
			continue
		}

		publisher := spec.Publisher
		if publisher == "" {
			publisher = strings.TrimSpace(parsed.Title)
		}
		if splitPublisher {
			if t, p := SplitPublisher(title); p != "" {
				title, publisher = t, p
			}
		}

		items = append(items, domain.RawItem{
			Title:       title,
			Link:        link,
			Summary:     StripHTML(entry.Description),
			PublishedAt: publishedAt(entry),
			Publisher:   publisher,
			TypeHint:    spec.Type,
			Tags:        entry.Categories,
		})
	}

	return items, nil
}

// extractLink prefers the item link and falls back to an http GUID.
func extractLink(entry *gofeed.Item) string {
	if link := strings.TrimSpace(entry.Link); link != "" {
		return link
	}
	if guid := strings.TrimSpace(entry.GUID); strings.HasPrefix(guid, httpPrefix) {
		return guid
	}
	return ""
}

func publishedAt(entry *gofeed.Item) string {
	switch {
	case entry.PublishedParsed != nil:
		return entry.PublishedParsed.Format(time.RFC3339)
	case entry.UpdatedParsed != nil:
		return entry.UpdatedParsed.Format(time.RFC3339)
	default:
		return ""
	}
}

// StripHTML returns the text content of an HTML fragment.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func skipped(feeds []domain.FeedSpec, cause error) []error {
	errs := make([]error, 0, len(feeds))
	for _, spec := range feeds {
		errs = append(errs, ClassifyNetworkError(cause, spec.URL))
	}
	return errs
}
