package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/httpclient"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metrics"
)

// scrapeSelector is deliberately broad: list-page markup is not ours, so
// every element that commonly holds one event line is tried.
const scrapeSelector = "li, p, div, span, a, h2, h3, h4, td, dd"

// maxCandidateLength skips container elements whose text spans many events.
const maxCandidateLength = 200

var (
	datePart   = `(\d{4})[./-](\d{1,2})[./-](\d{1,2})\b\.?\s*(?:\([^)]{1,6}\))?`
	rangePart  = datePart + `\s*[~～–-]\s*` + datePart
	rangeRegex = regexp.MustCompile(rangePart)
	eventRegex = regexp.MustCompile(`^(.+?)\s*[\[(]?\s*` + rangePart + `\s*[\])]?\s*(.+)$`)
)

const (
	titleTrim = " \t|/·:-[]()"
	areaTrim  = " \t|/·:,@-[]()"
)

// ScrapeTarget is one list page to scrape.
type ScrapeTarget struct {
	URL       string          `yaml:"url"`
	Publisher string          `yaml:"publisher"`
	Type      domain.CardType `yaml:"type"`
}

// Event is one title, date range and area recovered from page text.
type Event struct {
	Title  string
	Period domain.Period
	Area   string
}

// Key identifies an event for dedup.
func (e Event) Key() string {
	return e.Title + "|" + e.Period.Start + "|" + e.Period.End + "|" + e.Area
}

// MatchEvent tries to read an event line such as
// "Brand Pop-up 2026.10.01 (Thu) ~ 2026.10.14 Seongsu". Text holding more
// than one date range is rejected. The match is heuristic.
func MatchEvent(text string) (Event, bool) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || utf8.RuneCountInString(text) > maxCandidateLength {
		return Event{}, false
	}
	if len(rangeRegex.FindAllStringIndex(text, -1)) != 1 {
		return Event{}, false
	}

	m := eventRegex.FindStringSubmatch(text)
	if m == nil {
		return Event{}, false
	}

	start, ok := isoDate(m[2], m[3], m[4])
	if !ok {
		return Event{}, false
	}
	end, ok := isoDate(m[5], m[6], m[7])
	if !ok || end < start {
		return Event{}, false
	}

	title := strings.Trim(m[1], titleTrim)
	area := strings.Trim(m[8], areaTrim)
	if title == "" || !hasLetter(area) {
		return Event{}, false
	}

	return Event{Title: title, Period: domain.Period{Start: start, End: end}, Area: area}, true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isoDate(y, mo, d string) (string, bool) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(mo)
	day, _ := strconv.Atoi(d)
	s := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", false
	}
	return s, true
}

// ScrapeAdapter scrapes event list pages with colly. Results are best
// effort; unknown markup yields an empty list.
type ScrapeAdapter struct {
	name      string
	targets   []ScrapeTarget
	transport http.RoundTripper
	timeout   time.Duration
	userAgent string
	log       logger.Logger
	metrics   *metrics.Metrics
}

// ScrapeOption configures a ScrapeAdapter.
type ScrapeOption func(*ScrapeAdapter)

// WithTransport sets the HTTP transport used by the collector.
func WithTransport(t http.RoundTripper) ScrapeOption {
	return func(a *ScrapeAdapter) { a.transport = t }
}

// WithScrapeTimeout overrides the per-page timeout.
func WithScrapeTimeout(d time.Duration) ScrapeOption {
	return func(a *ScrapeAdapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithUserAgent overrides the collector User-Agent.
func WithUserAgent(ua string) ScrapeOption {
	return func(a *ScrapeAdapter) {
		if ua != "" {
			a.userAgent = ua
		}
	}
}

// WithScrapeLogger sets the logger.
func WithScrapeLogger(l logger.Logger) ScrapeOption {
	return func(a *ScrapeAdapter) { a.log = l }
}

// WithScrapeMetrics records page outcomes.
func WithScrapeMetrics(m *metrics.Metrics) ScrapeOption {
	return func(a *ScrapeAdapter) { a.metrics = m }
}

// NewScrapeAdapter creates a scrape adapter.
func NewScrapeAdapter(name string, targets []ScrapeTarget, opts ...ScrapeOption) *ScrapeAdapter {
	a := &ScrapeAdapter{
		name:      name,
		targets:   targets,
		timeout:   DefaultFeedTimeout,
		userAgent: httpclient.DefaultUserAgent,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the adapter name.
func (a *ScrapeAdapter) Name() string { return a.name }

// Fetch scrapes every target in order and dedupes events across them.
func (a *ScrapeAdapter) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	var (
		out  []domain.RawItem
		errs []error
	)
	seen := make(map[string]struct{})

	for _, target := range a.targets {
		if ctx.Err() != nil {
			errs = append(errs, ClassifyNetworkError(ctx.Err(), target.URL))
			continue
		}

		items, err := a.scrapePage(ctx, target, seen)
		a.metrics.ObserveFetch(a.name, err, len(items))
		if err != nil {
			logFetchError(a.log, "Scrape failed, skipping", err,
				logger.String("adapter", a.name),
				logger.String("url", target.URL),
			)
			errs = append(errs, err)
			continue
		}

		a.log.Debug("Page scraped",
			logger.String("adapter", a.name),
			logger.String("url", target.URL),
			logger.Int("events", len(items)),
		)
		out = append(out, items...)
	}

	return out, errors.Join(errs...)
}

func (a *ScrapeAdapter) scrapePage(ctx context.Context, target ScrapeTarget, seen map[string]struct{}) ([]domain.RawItem, error) {
	c := colly.NewCollector(
		colly.UserAgent(a.userAgent),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(a.timeout)
	if a.transport != nil {
		c.WithTransport(a.transport)
	}

	cardType := target.Type
	if !cardType.Valid() {
		cardType = domain.TypePopup
	}

	var (
		items      []domain.RawItem
		statusCode int
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	c.OnHTML(scrapeSelector, func(e *colly.HTMLElement) {
		ev, ok := MatchEvent(e.Text)
		if !ok {
			return
		}
		if _, dup := seen[ev.Key()]; dup {
			return
		}
		seen[ev.Key()] = struct{}{}

		period := ev.Period
		items = append(items, domain.RawItem{
			Title:       ev.Title,
			Link:        eventLink(e),
			Publisher:   target.Publisher,
			SourceTitle: ev.Title,
			TypeHint:    cardType,
			Area:        ev.Area,
			Period:      &period,
		})
	})

	if err := c.Visit(target.URL); err != nil {
		if statusCode > 0 {
			return nil, ClassifyHTTPStatus(statusCode, target.URL)
		}
		return nil, ClassifyNetworkError(err, target.URL)
	}
	if ctx.Err() != nil {
		return nil, ClassifyNetworkError(ctx.Err(), target.URL)
	}

	return items, nil
}

// eventLink returns the element's own link, the first link inside it, or
// the page URL.
func eventLink(e *colly.HTMLElement) string {
	href := e.Attr("href")
	if href == "" {
		href = e.ChildAttr("a[href]", "href")
	}
	if href != "" {
		if abs := e.Request.AbsoluteURL(href); abs != "" {
			return abs
		}
	}
	return e.Request.URL.String()
}
