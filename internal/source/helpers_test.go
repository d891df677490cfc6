package source_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// rssFeed renders a minimal RSS 2.0 document.
func rssFeed(title string, items ...string) string {
	body := ""
	for _, it := range items {
		body += it
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title><link>https://ex.com</link>%s</channel></rss>`, title, body)
}

func rssItem(title, link, guid, description string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><guid>%s</guid><description><![CDATA[%s]]></description><pubDate>Tue, 13 Oct 2026 09:00:00 +0900</pubDate></item>`,
		title, link, guid, description)
}

// routeServer serves fixed bodies per path and records request order.
type routeServer struct {
	*httptest.Server
	mu    sync.Mutex
	paths []string
}

func newRouteServer(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *routeServer {
	t.Helper()
	rs := &routeServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.paths = append(rs.paths, r.URL.Path)
		rs.mu.Unlock()
		if h, ok := routes[r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *routeServer) requested() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]string, len(rs.paths))
	copy(out, rs.paths)
	return out
}

func body(s string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s))
	}
}

func status(code int) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

func html(s string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(s))
	}
}
