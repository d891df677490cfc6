package collector

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/cardfeed/internal/config"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metrics"
	"github.com/jonesrussell/cardfeed/internal/source"
)

// Deps are the collaborators shared by every built adapter.
type Deps struct {
	Fetcher source.Fetcher
	// Transport is handed to scrape collectors. Nil uses colly's default.
	Transport http.RoundTripper
	Log       logger.Logger
	Metrics   *metrics.Metrics
}

// BuildJobs turns configured collections into jobs. Each collection gets
// its own feed limiter so collections do not slow each other down.
func BuildJobs(cfg *config.Config, deps Deps) []Job {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}

	jobs := make([]Job, 0, len(cfg.Collections))
	for _, col := range cfg.Collections {
		feedOpts := []source.FeedOption{
			source.WithFeedTimeout(cfg.Sources.RequestTimeout),
			source.WithFeedLogger(log),
			source.WithFeedMetrics(deps.Metrics),
		}
		if cfg.Sources.RatePerSecond > 0 {
			feedOpts = append(feedOpts, source.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Sources.RatePerSecond), 1)))
		}

		var adapters []source.Adapter
		if len(col.Feeds) > 0 {
			adapters = append(adapters, source.NewFeedAdapter(col.Name+"/feeds", col.Feeds, deps.Fetcher, feedOpts...))
		}
		if len(col.Searches) > 0 {
			adapters = append(adapters, source.NewSearchAdapter(
				col.Name+"/search", cfg.Sources.SearchTemplate, col.Searches, deps.Fetcher, feedOpts...,
			))
		}
		if len(col.Scrapes) > 0 {
			adapters = append(adapters, source.NewScrapeAdapter(col.Name+"/scrape", col.Scrapes,
				source.WithTransport(deps.Transport),
				source.WithScrapeTimeout(cfg.Sources.RequestTimeout),
				source.WithUserAgent(cfg.Sources.UserAgent),
				source.WithScrapeLogger(log),
				source.WithScrapeMetrics(deps.Metrics),
			))
		}

		jobs = append(jobs, Job{
			Name:     col.Name,
			Target:   col.TargetFile(),
			Order:    col.MergeOrder(),
			Adapters: adapters,
			Enrich:   col.Enrich,
			Localize: col.Localize,
		})
	}
	return jobs
}
