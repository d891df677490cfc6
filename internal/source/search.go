package source

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/cardfeed/internal/domain"
)

// GoogleNewsTemplate is the default search feed URL; %s receives the
// escaped query.
const GoogleNewsTemplate = "https://news.google.com/rss/search?q=%s&hl=en-CA&gl=CA&ceid=CA:en"

// searchPublisher labels search feed sources whose titles carry no suffix.
const searchPublisher = "Google News"

const maxPublisherLength = 60

// SearchQuery is one keyword query expanded into a feed.
type SearchQuery struct {
	Query string          `yaml:"query"`
	Type  domain.CardType `yaml:"type"`
}

// SearchFeedURL URL-encodes query into template.
func SearchFeedURL(template, query string) string {
	if template == "" {
		template = GoogleNewsTemplate
	}
	return fmt.Sprintf(template, url.QueryEscape(strings.TrimSpace(query)))
}

// SearchFeeds expands queries into feed specs, skipping blank queries.
func SearchFeeds(template string, queries []SearchQuery) []domain.FeedSpec {
	specs := make([]domain.FeedSpec, 0, len(queries))
	for _, q := range queries {
		if strings.TrimSpace(q.Query) == "" {
			continue
		}
		specs = append(specs, domain.FeedSpec{
			URL:       SearchFeedURL(template, q.Query),
			Publisher: searchPublisher,
			Type:      q.Type,
		})
	}
	return specs
}

// NewSearchAdapter builds a feed adapter over search queries.
func NewSearchAdapter(name, template string, queries []SearchQuery, fetcher Fetcher, opts ...FeedOption) *FeedAdapter {
	opts = append(opts, WithPublisherSuffix())
	return NewFeedAdapter(name, SearchFeeds(template, queries), fetcher, opts...)
}

// SplitPublisher separates a trailing " - Publisher" from a title. It
// returns the title unchanged and an empty publisher when there is none.
func SplitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	head := strings.TrimSpace(title[:idx])
	publisher := strings.TrimSpace(title[idx+len(" - "):])
	if head == "" || publisher == "" || utf8.RuneCountInString(publisher) > maxPublisherLength {
		return title, ""
	}
	return head, publisher
}
