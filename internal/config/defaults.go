package config

import (
	"time"

	"github.com/jonesrussell/cardfeed/internal/cache"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/httpclient"
	"github.com/jonesrussell/cardfeed/internal/metadata"
	"github.com/jonesrussell/cardfeed/internal/source"
)

// Default values.
const (
	DefaultDataDir           = "./data"
	DefaultRatePerSecond     = 1.0
	DefaultRetryAttempts     = 2
	DefaultRetryInitialDelay = 500 * time.Millisecond
	DefaultRunBudget         = 3 * time.Minute
	DefaultCacheTTL          = 6 * time.Hour
	DefaultServerAddr        = ":8080"
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultSourceLang        = "en"
	DefaultTranslateTimeout  = 20 * time.Second
	DefaultOllamaModel       = "llama3.1"
	DefaultBreakerFailures   = 3
	DefaultBreakerTimeout    = time.Minute
	DefaultScheduleSpec      = "0 */3 * * *"
)

func setDefaults(cfg *Config) {
	cfg.Logging.SetDefaults()
	cfg.Storage.SetDefaults()
	cfg.Sources.SetDefaults()
	cfg.Collector.SetDefaults()
	cfg.Cache.SetDefaults()
	cfg.Server.SetDefaults()
	cfg.Translate.SetDefaults()
	cfg.Schedule.SetDefaults()

	if len(cfg.Collections) == 0 {
		cfg.Collections = DefaultCollections()
	}
}

// SetDefaults applies default values for StorageConfig.
func (c *StorageConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = DefaultDataDir
	}
}

// SetDefaults applies default values for SourcesConfig.
func (c *SourcesConfig) SetDefaults() {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = httpclient.DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = httpclient.DefaultUserAgent
	}
	if c.RatePerSecond == 0 {
		c.RatePerSecond = DefaultRatePerSecond
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryInitialDelay == 0 {
		c.RetryInitialDelay = DefaultRetryInitialDelay
	}
	if c.SearchTemplate == "" {
		c.SearchTemplate = source.GoogleNewsTemplate
	}
	if c.BodyLimit == 0 {
		c.BodyLimit = metadata.DefaultBodyLimit
	}
}

// SetDefaults applies default values for CollectorConfig.
func (c *CollectorConfig) SetDefaults() {
	if c.RunBudget == 0 {
		c.RunBudget = DefaultRunBudget
	}
}

// SetDefaults applies default values for CacheConfig.
func (c *CacheConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = CacheMemory
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = cache.DefaultMaxEntries
	}
	if c.TTL == 0 {
		c.TTL = DefaultCacheTTL
	}
}

// SetDefaults applies default values for ServerConfig.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultServerAddr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// SetDefaults applies default values for TranslateConfig.
func (c *TranslateConfig) SetDefaults() {
	if c.SourceLang == "" {
		c.SourceLang = DefaultSourceLang
	}
	if len(c.Engines) == 0 {
		c.Engines = []string{EngineLibreTranslate, EngineOllama}
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTranslateTimeout
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = DefaultOllamaModel
	}
	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = DefaultBreakerFailures
	}
	if c.Breaker.Timeout == 0 {
		c.Breaker.Timeout = DefaultBreakerTimeout
	}
}

// SetDefaults applies default values for ScheduleConfig.
func (c *ScheduleConfig) SetDefaults() {
	if c.Spec == "" {
		c.Spec = DefaultScheduleSpec
	}
}

// DefaultCollections is the collection set used when none is configured.
func DefaultCollections() []Collection {
	return []Collection{
		{
			Name:   "news",
			Target: TargetInbox,
			Feeds: []domain.FeedSpec{
				{URL: "https://en.yna.co.kr/RSS/news.xml", Publisher: "Yonhap News Agency", Type: domain.TypeIssue},
				{URL: "https://www.koreaherald.com/rss/newsAll", Publisher: "The Korea Herald", Type: domain.TypeIssue},
				{URL: "https://www.koreatimes.co.kr/www/rss/nation.xml", Publisher: "The Korea Times", Type: domain.TypeIssue},
			},
			Localize: []string{"fr"},
		},
		{
			Name:   "popups",
			Target: TargetInbox,
			Scrapes: []source.ScrapeTarget{
				{URL: "https://www.popply.co.kr/popup", Publisher: "Popply", Type: domain.TypePopup},
			},
			Searches: []source.SearchQuery{
				{Query: "Seoul pop-up store", Type: domain.TypePopup},
			},
			Enrich: true,
		},
		{
			Name:   "traffic",
			Target: TargetPublished,
			Searches: []source.SearchQuery{
				{Query: "Seoul subway delay", Type: domain.TypeCongestion},
				{Query: "Seoul traffic congestion", Type: domain.TypeCongestion},
			},
		},
		{
			Name:   "weather",
			Target: TargetPublished,
			Searches: []source.SearchQuery{
				{Query: "Seoul weather advisory", Type: domain.TypeWeather},
				{Query: "Korea heat wave OR cold wave", Type: domain.TypeWeather},
			},
		},
	}
}
