package source_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/cardfeed/internal/httpclient"
	"github.com/jonesrussell/cardfeed/internal/retry"
	"github.com/jonesrussell/cardfeed/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) retry.Config {
	return retry.Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestHTTPFetcher_RetriesUpstreamFailure(t *testing.T) {
	var calls atomic.Int32
	srv := newRouteServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/flaky": func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		},
	})

	f := source.NewHTTPFetcher(httpclient.New(httpclient.Config{}), fastRetry(2), nil)
	got, err := f.Fetch(context.Background(), srv.URL+"/flaky")

	require.NoError(t, err)
	assert.Equal(t, "ok", string(got))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetcher_DoesNotRetryNotFound(t *testing.T) {
	srv := newRouteServer(t, nil)

	f := source.NewHTTPFetcher(httpclient.New(httpclient.Config{}), fastRetry(3), nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing")

	var fe *source.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, source.ErrTypeNotFound, fe.Type)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Len(t, srv.requested(), 1)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	srv := newRouteServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/slow": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		},
	})

	f := source.NewHTTPFetcher(httpclient.New(httpclient.Config{Timeout: 20 * time.Millisecond}), fastRetry(1), nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/slow")

	var fe *source.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, source.ErrTypeTimeout, fe.Type)
}
