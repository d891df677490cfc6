package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/retry"
)

// DefaultMaxBodyBytes caps how much of a response is read.
const DefaultMaxBodyBytes = 5 << 20

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher performs GET requests and classifies failures as *FetchError.
// Transient failures are retried with backoff.
type HTTPFetcher struct {
	client   *http.Client
	retry    retry.Config
	maxBytes int64
	log      logger.Logger
}

// NewHTTPFetcher creates a fetcher. A zero retry config uses
// retry.DefaultConfig with the transient classification.
func NewHTTPFetcher(client *http.Client, retryCfg retry.Config, log logger.Logger) *HTTPFetcher {
	if retryCfg.MaxAttempts <= 0 {
		retryCfg = retry.DefaultConfig()
	}
	retryCfg.IsRetryable = IsTransient
	if log == nil {
		log = logger.NewNop()
	}
	retryCfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		log.Debug("Retrying fetch",
			logger.Int("attempt", attempt),
			logger.Duration("wait", wait),
			logger.Error(err),
		)
	}

	return &HTTPFetcher{
		client:   client,
		retry:    retryCfg,
		maxBytes: DefaultMaxBodyBytes,
		log:      log,
	}
}

// Fetch returns the body of url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.Do(ctx, f.retry, func(ctx context.Context) error {
		b, fetchErr := f.fetchOnce(ctx, url)
		if fetchErr != nil {
			return fetchErr
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &FetchError{Type: ErrTypeUnexpected, URL: url, Cause: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, text/html;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ClassifyNetworkError(err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBytes))
		return nil, ClassifyHTTPStatus(resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, ClassifyNetworkError(fmt.Errorf("read body: %w", err), url)
	}

	return body, nil
}
