// Package collector runs collection jobs from fetch through save.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/merge"
	"github.com/jonesrussell/cardfeed/internal/metrics"
	"github.com/jonesrussell/cardfeed/internal/source"
	"github.com/jonesrussell/cardfeed/internal/store"
	"github.com/jonesrussell/cardfeed/internal/translate"
)

// DefaultRunBudget bounds a whole run.
const DefaultRunBudget = 3 * time.Minute

// ErrUnknownCollection is returned when a requested collection is not configured.
var ErrUnknownCollection = errors.New("unknown collection")

// Job is one collection: its adapters and where their cards land.
type Job struct {
	Name     string
	Target   string
	Order    merge.Order
	Adapters []source.Adapter
	Enrich   bool
	Localize []string
}

// Normalizer turns raw items into valid cards.
type Normalizer interface {
	NormalizeAll(raws []domain.RawItem) ([]domain.Card, int)
}

// Enricher fills missing areas on raw items.
type Enricher interface {
	EnrichAll(ctx context.Context, raws []domain.RawItem) int
}

// Runner executes jobs. Jobs run concurrently; adapters within a job run
// one after another.
type Runner struct {
	jobs         []Job
	store        store.Store
	normalizer   Normalizer
	enricher     Enricher
	localizer    translate.Localizer
	sourceLang   string
	budget       time.Duration
	maxPublished int
	log          logger.Logger
	metrics      *metrics.Metrics

	// one lock per target file; jobs sharing a target merge in turn
	locks map[string]*sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithEnricher enables enrichment for jobs that ask for it.
func WithEnricher(e Enricher) Option {
	return func(r *Runner) { r.enricher = e }
}

// WithLocalizer enables i18n for jobs with locales.
func WithLocalizer(l translate.Localizer, sourceLang string) Option {
	return func(r *Runner) {
		r.localizer = l
		r.sourceLang = sourceLang
	}
}

// WithBudget overrides the run budget.
func WithBudget(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.budget = d
		}
	}
}

// WithMaxPublished trims the published collection to its newest n cards.
func WithMaxPublished(n int) Option {
	return func(r *Runner) { r.maxPublished = n }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithMetrics records run outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a runner for jobs.
func NewRunner(jobs []Job, s store.Store, n Normalizer, opts ...Option) *Runner {
	r := &Runner{
		jobs:       jobs,
		store:      s,
		normalizer: n,
		budget:     DefaultRunBudget,
		log:        logger.NewNop(),
		locks:      make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, job := range jobs {
		if _, ok := r.locks[job.Target]; !ok {
			r.locks[job.Target] = &sync.Mutex{}
		}
	}
	return r
}

// Jobs returns the configured job names in order.
func (r *Runner) Jobs() []string {
	names := make([]string, len(r.jobs))
	for i, job := range r.jobs {
		names[i] = job.Name
	}
	return names
}

// Run executes the named jobs, or every job when names is empty. Fetch
// failures are reported in the summary; only save failures are returned.
func (r *Runner) Run(ctx context.Context, names ...string) (RunSummary, error) {
	jobs, err := r.selectJobs(names)
	if err != nil {
		return RunSummary{}, err
	}

	started := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, r.budget)
	defer cancel()

	summaries := make([]Summary, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		g.Go(func() error {
			summary, runErr := r.runJob(runCtx, job)
			summaries[i] = summary
			return runErr
		})
	}
	// every job runs to completion; Wait only reports the first save failure
	waitErr := g.Wait()

	var saveErrs []error
	for _, s := range summaries {
		if s.SaveErr != nil {
			saveErrs = append(saveErrs, s.SaveErr)
		}
	}
	if len(saveErrs) == 0 && waitErr != nil {
		saveErrs = append(saveErrs, waitErr)
	}

	run := RunSummary{Collections: summaries, Duration: time.Since(started)}
	r.log.Info("Collection run finished",
		logger.Int("collections", len(summaries)),
		logger.Int("added", run.Added()),
		logger.Int("errors", run.ErrorCount()),
		logger.Duration("duration", run.Duration),
	)
	return run, errors.Join(saveErrs...)
}

func (r *Runner) selectJobs(names []string) ([]Job, error) {
	if len(names) == 0 {
		return r.jobs, nil
	}

	byName := make(map[string]Job, len(r.jobs))
	for _, job := range r.jobs {
		byName[job.Name] = job
	}

	selected := make([]Job, 0, len(names))
	picked := make(map[string]bool, len(names))
	for _, name := range names {
		job, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
		}
		if picked[name] {
			continue
		}
		picked[name] = true
		selected = append(selected, job)
	}
	return selected, nil
}

func (r *Runner) runJob(ctx context.Context, job Job) (Summary, error) {
	started := time.Now()
	log := r.log.With(logger.String("collection", job.Name))
	summary := Summary{Collection: job.Name, Target: job.Target}

	var raws []domain.RawItem
	for _, adapter := range job.Adapters {
		items, err := adapter.Fetch(ctx)
		raws = append(raws, items...)
		for _, fetchErr := range source.Errors(err) {
			summary.Errors = append(summary.Errors, fetchErr.Error())
		}
	}
	summary.Fetched = len(raws)

	if job.Enrich && r.enricher != nil {
		summary.Enriched = r.enricher.EnrichAll(ctx, raws)
	}

	cards, invalid := r.normalizer.NormalizeAll(raws)
	summary.Invalid = invalid

	if err := r.mergeAndSave(ctx, job, cards, log, &summary); err != nil {
		summary.SaveErr = err
		summary.Duration = time.Since(started)
		log.Error("Collection not saved", logger.Error(err))
		return summary, err
	}

	summary.Duration = time.Since(started)
	r.metrics.ObserveRun(job.Name, summary.Duration)
	log.Info("Collection merged",
		logger.String("target", job.Target),
		logger.Int("fetched", summary.Fetched),
		logger.Int("added", summary.Added),
		logger.Int("dropped", summary.Dropped()),
		logger.Int("total", summary.Total),
		logger.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

// mergeAndSave holds the target lock from load until save. Only cards new
// to the target are localized. Saving ignores the run budget.
func (r *Runner) mergeAndSave(ctx context.Context, job Job, cards []domain.Card, log logger.Logger, summary *Summary) error {
	lock := r.locks[job.Target]
	lock.Lock()
	defer lock.Unlock()

	existing := r.store.Load(job.Target)
	summary.TotalExisting = len(existing)

	res := merge.Merge(job.Order, cards, existing)
	summary.Added = res.Added
	summary.Duplicates = len(cards) - res.Added

	out := res.Cards
	if r.localizer != nil && len(job.Localize) > 0 && res.Added > 0 {
		isNew := merge.IsNew(existing)
		for i := range out {
			if !isNew(out[i]) {
				continue
			}
			var n int
			out[i], n = translate.LocalizeCard(ctx, r.localizer, out[i], r.sourceLang, job.Localize, log)
			summary.Localized += n
		}
	}

	if job.Target == domain.CollectionPublished && r.maxPublished > 0 {
		merge.SortByUpdated(out)
		out = merge.Trim(out, r.maxPublished)
	}
	summary.Total = len(out)

	r.metrics.ObserveMerge(job.Name, summary.Added, summary.Invalid, summary.Duplicates)
	r.metrics.SetCollectionSize(job.Target, summary.Total)

	if err := r.store.Save(job.Target, out); err != nil {
		return fmt.Errorf("save %s for %s: %w", job.Target, job.Name, err)
	}
	return nil
}
