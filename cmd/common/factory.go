package common

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jonesrussell/cardfeed/internal/cache"
	"github.com/jonesrussell/cardfeed/internal/circuitbreaker"
	"github.com/jonesrussell/cardfeed/internal/classify"
	"github.com/jonesrussell/cardfeed/internal/collector"
	"github.com/jonesrussell/cardfeed/internal/config"
	"github.com/jonesrussell/cardfeed/internal/geo"
	"github.com/jonesrussell/cardfeed/internal/httpclient"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metadata"
	"github.com/jonesrussell/cardfeed/internal/normalize"
	"github.com/jonesrussell/cardfeed/internal/retry"
	"github.com/jonesrussell/cardfeed/internal/source"
	"github.com/jonesrussell/cardfeed/internal/translate"
)

const retryMaxDelay = 5 * time.Second

// HTTPClient builds the outbound client for sources and page metadata.
func (d CommandDeps) HTTPClient() *http.Client {
	return httpclient.New(httpclient.Config{
		Timeout:   d.Config.Sources.RequestTimeout,
		UserAgent: d.Config.Sources.UserAgent,
	})
}

// Fetcher builds the retrying fetcher shared by adapters and the extractor.
func (d CommandDeps) Fetcher(client *http.Client) *source.HTTPFetcher {
	return source.NewHTTPFetcher(client, retry.Config{
		MaxAttempts:  d.Config.Sources.RetryAttempts,
		InitialDelay: d.Config.Sources.RetryInitialDelay,
		MaxDelay:     retryMaxDelay,
		Multiplier:   2,
	}, d.Logger)
}

// Resolver loads the configured geo dictionary, or the built-in one.
func (d CommandDeps) Resolver() (*geo.Resolver, error) {
	if d.Config.Geo.DictionaryPath == "" {
		return geo.NewResolver(geo.DefaultDictionary()), nil
	}
	entries, err := geo.LoadDictionary(d.Config.Geo.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("load geo dictionary: %w", err)
	}
	return geo.NewResolver(entries), nil
}

// Cache builds the configured response cache. The returned func releases
// backend connections.
func (d CommandDeps) Cache() (cache.Cache, func(), error) {
	if d.Config.Cache.Backend == config.CacheRedis {
		client, err := cache.NewRedisClient(d.Config.Cache.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		return cache.NewInstrumented(cache.NewRedis(client, d.Logger), d.Metrics), func() { _ = client.Close() }, nil
	}
	return cache.NewInstrumented(cache.NewMemory(d.Config.Cache.MaxEntries), d.Metrics), func() {}, nil
}

// Extractor builds a page metadata extractor, cached when c is non-nil.
func (d CommandDeps) Extractor(fetcher metadata.Fetcher, c cache.Cache) metadata.Source {
	ex := metadata.NewExtractor(fetcher, d.Config.Sources.BodyLimit, d.Logger)
	if c == nil {
		return ex
	}
	return metadata.NewCachedExtractor(ex, c, d.Config.Cache.TTL)
}

// Translator builds the engine chain from config. It returns nil when no
// engine has a URL configured.
func (d CommandDeps) Translator() *translate.Translator {
	tc := d.Config.Translate
	client := httpclient.New(httpclient.Config{Timeout: tc.Timeout, UserAgent: d.Config.Sources.UserAgent})

	var engines []translate.Engine
	for _, name := range tc.Engines {
		switch name {
		case config.EngineLibreTranslate:
			if tc.LibreTranslate.URL != "" {
				engines = append(engines, translate.NewLibreTranslate(tc.LibreTranslate.URL, tc.LibreTranslate.APIKey, client))
			}
		case config.EngineOllama:
			if tc.Ollama.URL != "" {
				engines = append(engines, translate.NewOllama(tc.Ollama.URL, tc.Ollama.Model, client))
			}
		}
	}
	if len(engines) == 0 {
		return nil
	}

	return translate.New(engines, circuitbreaker.Config{
		FailureThreshold: tc.Breaker.FailureThreshold,
		Timeout:          tc.Breaker.Timeout,
	}, translate.WithLogger(d.Logger), translate.WithMetrics(d.Metrics))
}

// Runner wires the full collection pipeline.
func (d CommandDeps) Runner(budget time.Duration) (*collector.Runner, error) {
	resolver, err := d.Resolver()
	if err != nil {
		return nil, err
	}

	client := d.HTTPClient()
	fetcher := d.Fetcher(client)

	jobs := collector.BuildJobs(d.Config, collector.Deps{
		Fetcher:   fetcher,
		Transport: client.Transport,
		Log:       d.Logger,
		Metrics:   d.Metrics,
	})

	normalizer := normalize.New(resolver, classify.New(), normalize.WithLogger(d.Logger))

	if budget <= 0 {
		budget = d.Config.Collector.RunBudget
	}
	opts := []collector.Option{
		collector.WithEnricher(source.NewEnricher(resolver, d.Extractor(fetcher, nil), d.Logger)),
		collector.WithBudget(budget),
		collector.WithMaxPublished(d.Config.Storage.MaxPublished),
		collector.WithLogger(d.Logger),
		collector.WithMetrics(d.Metrics),
	}
	if tr := d.Translator(); tr != nil {
		opts = append(opts, collector.WithLocalizer(tr, d.Config.Translate.SourceLang))
	} else {
		d.Logger.Debug("No translation engine configured, skipping localization")
	}

	return collector.NewRunner(jobs, d.Store, normalizer, opts...), nil
}

// LogConfig records the effective settings at startup.
func (d CommandDeps) LogConfig() {
	d.Logger.Debug("Configuration loaded",
		logger.String("data_dir", d.Config.Storage.Dir),
		logger.Strings("collections", d.Config.CollectionNames()),
		logger.Duration("run_budget", d.Config.Collector.RunBudget),
		logger.String("cache", d.Config.Cache.Backend),
	)
}
