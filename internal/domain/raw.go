package domain

// RawItem is the minimal record every source adapter yields.
type RawItem struct {
	Title       string
	Link        string
	Summary     string
	PublishedAt string
	Publisher   string
	// SourceTitle is the provenance title; the item title is used when empty.
	SourceTitle string
	// TypeHint is the adapter's suggested type, used when no rule matches.
	TypeHint CardType
	// Area is a place name the adapter extracted directly, if any.
	Area   string
	Period *Period
	Tags   []string
	// Sources overrides the provenance derived from Link/Publisher.
	Sources []Source
}

// FeedSpec configures one feed URL for the feed adapter.
type FeedSpec struct {
	URL       string   `yaml:"url"`
	Publisher string   `yaml:"publisher"`
	Type      CardType `yaml:"type"`
}
