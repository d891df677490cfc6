// Package scheduler runs collection on a cron schedule, one run at a time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/cardfeed/internal/clock"
	"github.com/jonesrussell/cardfeed/internal/logger"
)

// ErrInvalidSpec is returned for cron expressions that do not parse.
var ErrInvalidSpec = errors.New("invalid schedule")

// RunFunc is one scheduled run.
type RunFunc func(ctx context.Context) error

// Scheduler triggers RunFunc on a cron spec. A run that is still going
// when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	cron     *cron.Cron
	job      cron.Job
	log      logger.Logger
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	stopped bool
	running sync.WaitGroup // manual runs; cron waits for its own
}

// Parser accepts standard 5-field expressions and descriptors such as
// "@hourly" or "@every 30m".
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// New creates a scheduler. The clock is KST so specs read in local time.
func New(spec string, run RunFunc, log logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.NewNop()
	}
	schedule, err := Parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSpec, spec, err)
	}

	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		spec:     spec,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(Parser), cron.WithLocation(clock.KST), cron.WithLogger(cl)),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}

	s.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
		if s.ctx.Err() != nil {
			return
		}

		started := time.Now()
		s.log.Info("Scheduled run starting", logger.String("spec", s.spec))
		if runErr := run(s.ctx); runErr != nil {
			s.log.Error("Scheduled run failed", logger.Error(runErr), logger.Duration("duration", time.Since(started)))
			return
		}
		s.log.Info("Scheduled run finished", logger.Duration("duration", time.Since(started)))
	}))
	s.cron.Schedule(schedule, s.job)

	return s, nil
}

// Next returns the next activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(clock.KST))
}

// RunNow triggers a run through the same skip and recover chain as
// scheduled ticks. It blocks until the run finishes or is skipped, and does
// nothing once the scheduler is stopped.
func (s *Scheduler) RunNow() {
	if !s.track() {
		return
	}
	defer s.running.Done()
	s.job.Run()
}

// track registers a manual run unless Stop has been called.
func (s *Scheduler) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.running.Add(1)
	return true
}

// Run starts the schedule and blocks until ctx is done. A run in progress
// is cancelled and awaited before Run returns.
func (s *Scheduler) Run(ctx context.Context, runOnStart bool) error {
	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.String("spec", s.spec),
		logger.String("next", s.Next(time.Now()).Format(time.RFC3339)),
	)

	if runOnStart && s.track() {
		go func() {
			defer s.running.Done()
			s.job.Run()
		}()
	}

	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop cancels any running job and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.running.Wait()
	s.log.Info("Scheduler stopped")
}

type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, fields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(fields(keysAndValues), logger.Error(err))...)
}

func fields(kv []any) []logger.Field {
	out := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out = append(out, logger.Any(key, kv[i+1]))
	}
	return out
}
