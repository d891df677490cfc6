package httpclient_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/cardfeed/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.Config{UserAgent: "test-agent"})
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "test-agent", got)
	assert.Equal(t, httpclient.DefaultTimeout, client.Timeout)
}

func TestNew_KeepsExplicitUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "caller")

	resp, err := httpclient.New(httpclient.Config{}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "caller", got)
}
