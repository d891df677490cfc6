// Package metadata reads Open Graph and meta tags from HTML pages.
package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/jonesrussell/cardfeed/internal/logger"
)

// DefaultBodyLimit caps BodyText in characters.
const DefaultBodyLimit = 20000

// Meta is what a page says about itself.
type Meta struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	// Locality collects place hints such as og:locality and geo.placename.
	Locality string `json:"locality,omitempty"`
	// BodyText is the visible page text, capped. It is not serialized.
	BodyText string `json:"-"`
}

// TagText joins every metadata field that may name a place.
func (m *Meta) TagText() string {
	parts := []string{m.Title, m.Description, m.Keywords, m.Locality, m.SiteName}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Fetcher retrieves a page body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Source is implemented by Extractor and CachedExtractor.
type Source interface {
	Extract(ctx context.Context, pageURL string) (*Meta, error)
}

// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("invalid URL")

// Extractor fetches pages and parses their metadata.
type Extractor struct {
	fetcher   Fetcher
	bodyLimit int
	log       logger.Logger
}

// NewExtractor creates an extractor. bodyLimit <= 0 uses DefaultBodyLimit.
func NewExtractor(fetcher Fetcher, bodyLimit int, log logger.Logger) *Extractor {
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{fetcher: fetcher, bodyLimit: bodyLimit, log: log}
}

// Extract fetches pageURL and returns its metadata.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Meta, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}

	body, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	meta, err := Parse(body, e.bodyLimit)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	meta.URL = pageURL

	if meta.Title == "" || meta.BodyText == "" {
		applyReadability(meta, body, parsed, e.bodyLimit)
	}

	e.log.Debug("Metadata extracted",
		logger.String("url", pageURL),
		logger.String("title", meta.Title),
	)

	return meta, nil
}

// Parse reads metadata from an HTML document.
func Parse(body []byte, bodyLimit int) (*Meta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	meta := &Meta{
		Title:       first(property(doc, "og:title"), name(doc, "twitter:title"), strings.TrimSpace(doc.Find("title").First().Text())),
		Description: first(property(doc, "og:description"), name(doc, "description"), name(doc, "twitter:description")),
		Image:       first(property(doc, "og:image"), name(doc, "twitter:image")),
		SiteName:    property(doc, "og:site_name"),
		Keywords:    name(doc, "keywords"),
		Locality: joinNonEmpty(
			property(doc, "og:locality"),
			property(doc, "og:region"),
			property(doc, "place:location:locality"),
			name(doc, "geo.placename"),
			name(doc, "geo.region"),
		),
	}

	doc.Find("script, style, noscript, template").Remove()
	meta.BodyText = Truncate(strings.Join(strings.Fields(doc.Find("body").Text()), " "), bodyLimit)

	return meta, nil
}

// applyReadability fills an empty title or body from the main article
// content. Readability failures leave meta unchanged.
func applyReadability(meta *Meta, body []byte, pageURL *url.URL, bodyLimit int) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(article.Title)
	}
	if meta.BodyText == "" {
		meta.BodyText = Truncate(strings.Join(strings.Fields(article.TextContent), " "), bodyLimit)
	}
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func property(doc *goquery.Document, prop string) string {
	v, _ := doc.Find(fmt.Sprintf("meta[property=%q]", prop)).First().Attr("content")
	return strings.TrimSpace(v)
}

func name(doc *goquery.Document, n string) string {
	v, _ := doc.Find(fmt.Sprintf("meta[name=%q]", n)).First().Attr("content")
	return strings.TrimSpace(v)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, " ")
}
