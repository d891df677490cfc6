package source_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsPage = `<!doctype html><html><body>
<div class="list">
<ul>
<li><a href="/events/1">Gentle Monster Pop-up 2026.10.01 (Thu) ~ 2026.10.14 (Wed) Seongsu</a></li>
<li>Nike Store [2026-10-05 ~ 2026-10-20] Hongdae</li>
<li>Not an event line</li>
<li>Backwards 2026.10.20 ~ 2026.10.01 Itaewon</li>
<li>Bad date 2026.13.01 ~ 2026.13.05 Itaewon</li>
</ul>
</div>
</body></html>`

const secondPage = `<!doctype html><html><body>
<table><tr><td>Nike Store [2026-10-05 ~ 2026-10-20] Hongdae</td></tr>
<tr><td>Cafe Week 2026/11/01 - 2026/11/03 / Yeonnam</td></tr></table>
</body></html>`

func TestMatchEvent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want source.Event
		ok   bool
	}{
		{
			name: "dots with weekdays",
			text: "Brand Pop-up 2026.10.01 (Thu) ~ 2026.10.14 (Wed) Seongsu",
			want: source.Event{Title: "Brand Pop-up", Period: domain.Period{Start: "2026-10-01", End: "2026-10-14"}, Area: "Seongsu"},
			ok:   true,
		},
		{
			name: "dashes in brackets",
			text: "Nike Store [2026-10-05 ~ 2026-10-20] Hongdae",
			want: source.Event{Title: "Nike Store", Period: domain.Period{Start: "2026-10-05", End: "2026-10-20"}, Area: "Hongdae"},
			ok:   true,
		},
		{
			name: "slashes and single digits",
			text: "  Cafe   Week 2026/1/2 - 2026/1/3 / Yeonnam ",
			want: source.Event{Title: "Cafe Week", Period: domain.Period{Start: "2026-01-02", End: "2026-01-03"}, Area: "Yeonnam"},
			ok:   true,
		},
		{name: "no range", text: "Opening on 2026.10.01 in Seongsu"},
		{name: "two ranges", text: "A 2026.10.01 ~ 2026.10.02 X B 2026.10.03 ~ 2026.10.04 Y"},
		{name: "no area", text: "Brand Pop-up 2026.10.01 ~ 2026.10.14"},
		{name: "invalid date", text: "Brand 2026.02.30 ~ 2026.03.01 Seongsu"},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := source.MatchEvent(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestScrapeAdapter_ExtractsAndDedupes(t *testing.T) {
	srv := newRouteServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/events": html(eventsPage),
		"/more":   html(secondPage),
	})

	adapter := source.NewScrapeAdapter("popups", []source.ScrapeTarget{
		{URL: srv.URL + "/events", Publisher: "Popply"},
		{URL: srv.URL + "/gone", Publisher: "Gone"},
		{URL: srv.URL + "/more", Publisher: "Other"},
	})

	items, err := adapter.Fetch(context.Background())

	require.Len(t, items, 3)
	assert.Equal(t, "Gentle Monster Pop-up", items[0].Title)
	assert.Equal(t, srv.URL+"/events/1", items[0].Link)
	assert.Equal(t, "Seongsu", items[0].Area)
	assert.Equal(t, &domain.Period{Start: "2026-10-01", End: "2026-10-14"}, items[0].Period)
	assert.Equal(t, domain.TypePopup, items[0].TypeHint)
	assert.Equal(t, "Popply", items[0].Publisher)

	assert.Equal(t, "Nike Store", items[1].Title)
	assert.Equal(t, srv.URL+"/events", items[1].Link, "page URL when the line has no link")

	assert.Equal(t, "Cafe Week", items[2].Title)
	assert.Equal(t, "Other", items[2].Publisher)

	errs := source.Errors(err)
	require.Len(t, errs, 1)
	var fe *source.FetchError
	require.ErrorAs(t, errs[0], &fe)
	assert.Equal(t, source.ErrTypeNotFound, fe.Type)
}

func TestScrapeAdapter_UnknownMarkupIsEmpty(t *testing.T) {
	srv := newRouteServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/": html("<html><body><p>Nothing to see</p></body></html>"),
	})

	items, err := source.NewScrapeAdapter("popups", []source.ScrapeTarget{{URL: srv.URL + "/"}}).Fetch(context.Background())

	require.NoError(t, err)
	assert.Empty(t, items)
}
