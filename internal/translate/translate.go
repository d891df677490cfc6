// Package translate localizes card text through an ordered list of
// engines. It is best effort and never part of dedup or merge.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonesrussell/cardfeed/internal/circuitbreaker"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metrics"
)

var (
	// ErrAllEnginesFailed wraps the last engine error when none succeeded.
	ErrAllEnginesFailed = errors.New("all translation engines failed")
	// ErrNoEngines is returned by a translator configured with no engines.
	ErrNoEngines = errors.New("no translation engines configured")
	// ErrEmptyTranslation is returned by engines that answer with no text.
	ErrEmptyTranslation = errors.New("engine returned empty translation")
)

// Engine translates text between two languages.
type Engine interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Result is a translation and the engine that produced it.
type Result struct {
	Text   string
	Engine string
}

type guardedEngine struct {
	engine  Engine
	breaker *circuitbreaker.Breaker
}

// Translator tries engines in order until one succeeds.
type Translator struct {
	engines []guardedEngine
	log     logger.Logger
	metrics *metrics.Metrics
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Translator) { t.log = l }
}

// WithMetrics records engine outcomes and breaker states.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Translator) { t.metrics = m }
}

// New creates a translator. Each engine gets its own breaker built from
// breakerCfg.
func New(engines []Engine, breakerCfg circuitbreaker.Config, opts ...Option) *Translator {
	t := &Translator{log: logger.NewNop()}
	for _, opt := range opts {
		opt(t)
	}

	userHook := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		t.metrics.SetBreakerState(name, int(to))
		t.log.Warn("Translation engine breaker changed state",
			logger.String("engine", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
		if userHook != nil {
			userHook(name, from, to)
		}
	}

	for _, e := range engines {
		t.engines = append(t.engines, guardedEngine{
			engine:  e,
			breaker: circuitbreaker.New(e.Name(), breakerCfg),
		})
	}
	return t
}

// Engines returns the engine names in try order.
func (t *Translator) Engines() []string {
	names := make([]string, len(t.engines))
	for i, g := range t.engines {
		names[i] = g.engine.Name()
	}
	return names
}

// Translate returns the first successful translation. Blank text and
// identical languages are returned unchanged with no engine.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (Result, error) {
	if strings.TrimSpace(text) == "" || strings.EqualFold(source, target) {
		return Result{Text: text}, nil
	}
	if len(t.engines) == 0 {
		return Result{}, ErrNoEngines
	}

	var lastErr error
	for _, g := range t.engines {
		var out string
		err := g.breaker.Execute(ctx, func(ctx context.Context) error {
			translated, trErr := g.engine.Translate(ctx, text, source, target)
			if trErr != nil {
				return trErr
			}
			if strings.TrimSpace(translated) == "" {
				return ErrEmptyTranslation
			}
			out = strings.TrimSpace(translated)
			return nil
		})
		if !errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			t.metrics.ObserveTranslation(g.engine.Name(), err)
		}
		if err == nil {
			return Result{Text: out, Engine: g.engine.Name()}, nil
		}

		lastErr = err
		t.log.Debug("Translation engine failed, trying next",
			logger.String("engine", g.engine.Name()),
			logger.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	return Result{}, fmt.Errorf("%w: %w", ErrAllEnginesFailed, lastErr)
}
