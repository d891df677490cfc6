package config

import (
	"time"

	"github.com/jonesrussell/cardfeed/internal/cache"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/merge"
	"github.com/jonesrussell/cardfeed/internal/source"
)

// DefaultPath is the config file used when CONFIG_PATH is unset.
const DefaultPath = "config.yml"

// Config is the root cardfeed configuration.
type Config struct {
	Logging     logger.Config   `yaml:"logging"`
	Storage     StorageConfig   `yaml:"storage"`
	Sources     SourcesConfig   `yaml:"sources"`
	Collector   CollectorConfig `yaml:"collector"`
	Cache       CacheConfig     `yaml:"cache"`
	Server      ServerConfig    `yaml:"server"`
	Translate   TranslateConfig `yaml:"translate"`
	Schedule    ScheduleConfig  `yaml:"schedule"`
	Geo         GeoConfig       `yaml:"geo"`
	Collections []Collection    `yaml:"collections"`
}

// StorageConfig locates the collection files.
type StorageConfig struct {
	Dir string `env:"CARDFEED_DATA_DIR" yaml:"dir"`
	// MaxPublished trims the published collection to its newest N cards.
	// Zero keeps everything.
	MaxPublished int `env:"CARDFEED_MAX_PUBLISHED" yaml:"max_published"`
}

// SourcesConfig controls outbound fetching.
type SourcesConfig struct {
	RequestTimeout    time.Duration `env:"CARDFEED_REQUEST_TIMEOUT" yaml:"request_timeout"`
	UserAgent         string        `env:"CARDFEED_USER_AGENT"      yaml:"user_agent"`
	RatePerSecond     float64       `env:"CARDFEED_FEED_RATE"       yaml:"rate_per_second"`
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`
	SearchTemplate    string        `yaml:"search_template"`
	BodyLimit         int           `yaml:"body_limit"`
}

// CollectorConfig bounds a collection run.
type CollectorConfig struct {
	RunBudget time.Duration `env:"CARDFEED_RUN_BUDGET" yaml:"run_budget"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheConfig selects the API response cache.
type CacheConfig struct {
	Backend    string            `env:"CARDFEED_CACHE_BACKEND" yaml:"backend"`
	MaxEntries int               `yaml:"max_entries"`
	TTL        time.Duration     `yaml:"ttl"`
	Redis      cache.RedisConfig `yaml:"redis"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr            string        `env:"CARDFEED_ADDR" yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Translation engine names.
const (
	EngineLibreTranslate = "libretranslate"
	EngineOllama         = "ollama"
)

// TranslateConfig configures the translation engines, tried in Engines order.
type TranslateConfig struct {
	SourceLang     string        `yaml:"source_lang"`
	Locales        []string      `env:"CARDFEED_LOCALES" yaml:"locales"`
	Engines        []string      `yaml:"engines"`
	Timeout        time.Duration `yaml:"timeout"`
	LibreTranslate LibreConfig   `yaml:"libretranslate"`
	Ollama         OllamaConfig  `yaml:"ollama"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

// LibreConfig locates a LibreTranslate server.
type LibreConfig struct {
	URL    string `env:"LIBRETRANSLATE_URL"     yaml:"url"`
	APIKey string `env:"LIBRETRANSLATE_API_KEY" yaml:"api_key"`
}

// OllamaConfig locates an Ollama server.
type OllamaConfig struct {
	URL   string `env:"OLLAMA_URL"   yaml:"url"`
	Model string `env:"OLLAMA_MODEL" yaml:"model"`
}

// BreakerConfig tunes the per-engine circuit breaker.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	Timeout          time.Duration `yaml:"timeout"`
}

// ScheduleConfig drives `cardfeed schedule`.
type ScheduleConfig struct {
	Spec       string `env:"CARDFEED_SCHEDULE" yaml:"spec"`
	RunOnStart bool   `yaml:"run_on_start"`
}

// GeoConfig points at an alternative area dictionary.
type GeoConfig struct {
	DictionaryPath string `env:"CARDFEED_GEO_DICTIONARY" yaml:"dictionary_path"`
}

// Collection targets.
const (
	TargetInbox     = "inbox"
	TargetPublished = "published"
)

// Collection is one named group of sources merged into a single target.
type Collection struct {
	Name     string                `yaml:"name"`
	Target   string                `yaml:"target"`
	Feeds    []domain.FeedSpec     `yaml:"feeds"`
	Searches []source.SearchQuery  `yaml:"searches"`
	Scrapes  []source.ScrapeTarget `yaml:"scrapes"`
	Enrich   bool                  `yaml:"enrich"`
	// Order is incoming_first or existing_first. Empty picks by target.
	Order    string   `yaml:"order"`
	Localize []string `yaml:"localize"`
}

// TargetFile returns the collection file name the collection writes to.
func (c Collection) TargetFile() string {
	return domain.CollectionFile(c.Target)
}

// MergeOrder returns the configured order. The inbox defaults to
// incoming-first and published to existing-first so reviewed cards win.
func (c Collection) MergeOrder() merge.Order {
	if o, ok := merge.ParseOrder(c.Order); ok {
		return o
	}
	if c.Target == TargetPublished {
		return merge.ExistingFirst
	}
	return merge.IncomingFirst
}

// Load reads the config at path, applies defaults and env overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Collection returns the named collection.
func (c *Config) Collection(name string) (Collection, bool) {
	for _, col := range c.Collections {
		if col.Name == name {
			return col, true
		}
	}
	return Collection{}, false
}

// CollectionNames lists collections in configured order.
func (c *Config) CollectionNames() []string {
	names := make([]string, len(c.Collections))
	for i, col := range c.Collections {
		names[i] = col.Name
	}
	return names
}
