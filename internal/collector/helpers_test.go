package collector_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jonesrussell/cardfeed/internal/circuitbreaker"
	"github.com/jonesrussell/cardfeed/internal/metadata"
)

type prefixEngine struct{}

func (prefixEngine) Name() string { return "prefix" }

func (prefixEngine) Translate(_ context.Context, text, _, target string) (string, error) {
	return target + ": " + text, nil
}

// downEngine fails every call and counts them.
type downEngine struct {
	calls atomic.Int32
}

func (*downEngine) Name() string { return "down" }

func (e *downEngine) Translate(context.Context, string, string, string) (string, error) {
	e.calls.Add(1)
	return "", errors.New("connection refused")
}

// pageMeta serves canned page metadata by URL.
type pageMeta map[string]*metadata.Meta

func (p pageMeta) Extract(_ context.Context, url string) (*metadata.Meta, error) {
	if m, ok := p[url]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

func translateBreaker() circuitbreaker.Config {
	return circuitbreaker.Config{FailureThreshold: 3, Timeout: time.Minute}
}
