// Package httpclient builds the outbound HTTP clients used by adapters,
// the metadata extractor and translation engines.
package httpclient

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout             = 15 * time.Second
	DefaultMaxIdleConns        = 20
	DefaultMaxIdleConnsPerHost = 2
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultTLSHandshakeTimeout = 10 * time.Second
	DefaultUserAgent           = "cardfeed/1.0 (+https://github.com/jonesrussell/cardfeed)"
)

// Config configures a client. Zero fields take the defaults above.
type Config struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	UserAgent           string
	// Transport replaces the pooled transport, mainly for tests.
	Transport http.RoundTripper
}

// New creates a client that stamps every request with a User-Agent.
func New(cfg Config) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	base := cfg.Transport
	if base == nil {
		maxIdle := cfg.MaxIdleConns
		if maxIdle <= 0 {
			maxIdle = DefaultMaxIdleConns
		}
		perHost := cfg.MaxIdleConnsPerHost
		if perHost <= 0 {
			perHost = DefaultMaxIdleConnsPerHost
		}
		idle := cfg.IdleConnTimeout
		if idle <= 0 {
			idle = DefaultIdleConnTimeout
		}
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        maxIdle,
			MaxIdleConnsPerHost: perHost,
			IdleConnTimeout:     idle,
			TLSHandshakeTimeout: DefaultTLSHandshakeTimeout,
		}
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &userAgentTransport{base: base, userAgent: cfg.UserAgent},
	}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
