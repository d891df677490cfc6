// Package geo resolves free text to a named area and optional coordinate
// using an ordered alias dictionary.
package geo

import (
	"math"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/rules"
)

// Entry is one dictionary location. Names are aliases in any script.
type Entry struct {
	Names []string `json:"names" yaml:"names"`
	Area  string   `json:"area"  yaml:"area"`
	Lat   *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty" yaml:"lng,omitempty"`
}

// HasCoordinates reports whether the entry carries both coordinates.
func (e Entry) HasCoordinates() bool {
	return e.Lat != nil && e.Lng != nil
}

// Result is the outcome of a resolution. The zero value means no match.
type Result struct {
	Area string
	Lat  *float64
	Lng  *float64
}

// Found reports whether the result names an area.
func (r Result) Found() bool {
	return r.Area != ""
}

// Geo converts the result to the card geo shape, or nil on a miss.
func (r Result) Geo() *domain.Geo {
	if !r.Found() {
		return nil
	}
	return &domain.Geo{Area: r.Area, Lat: r.Lat, Lng: r.Lng}
}

// Resolver matches text against the dictionary in list order: the first
// entry with any alias contained in the lowercased input wins. Narrow
// neighbourhoods must therefore precede the cities containing them.
type Resolver struct {
	entries []Entry
	ordered *rules.List[int]

	mu         sync.Mutex
	matcher    *ahocorasick.Matcher
	aliases    []string
	aliasEntry []int // alias index -> lowest entry index carrying it
}

// NewResolver builds a resolver over entries in priority order.
func NewResolver(entries []Entry) *Resolver {
	r := &Resolver{entries: make([]Entry, len(entries))}
	copy(r.entries, entries)

	seen := make(map[string]int)
	ruleList := make([]rules.Rule[int], 0, len(entries))

	for idx, e := range r.entries {
		names := make([]string, 0, len(e.Names))
		for _, name := range e.Names {
			alias := strings.ToLower(strings.TrimSpace(name))
			if alias == "" {
				continue
			}
			names = append(names, alias)
			if _, dup := seen[alias]; dup {
				continue
			}
			seen[alias] = idx
			r.aliases = append(r.aliases, alias)
			r.aliasEntry = append(r.aliasEntry, idx)
		}
		ruleList = append(ruleList, rules.Rule[int]{
			Name:   e.Area,
			Match:  rules.Contains(names...),
			Result: idx,
		})
	}

	r.ordered = rules.New(ruleList...)
	if len(r.aliases) > 0 {
		r.matcher = ahocorasick.NewStringMatcher(r.aliases)
	}

	return r
}

// Entries returns a copy of the dictionary in priority order.
func (r *Resolver) Entries() []Entry {
	cp := make([]Entry, len(r.entries))
	copy(cp, r.entries)
	return cp
}

// Rules exposes the dictionary as an ordered rule list whose results are
// entry indexes. Resolve and Rules().First always agree.
func (r *Resolver) Rules() *rules.List[int] {
	return r.ordered
}

// Resolve returns the most specific area named in text, or an empty Result.
func (r *Resolver) Resolve(text string) Result {
	if r.matcher == nil || text == "" {
		return Result{}
	}

	lowered := []byte(strings.ToLower(text))

	r.mu.Lock()
	hits := r.matcher.Match(lowered)
	r.mu.Unlock()

	best := -1
	for _, hit := range hits {
		if hit < 0 || hit >= len(r.aliasEntry) {
			continue
		}
		if idx := r.aliasEntry[hit]; best == -1 || idx < best {
			best = idx
		}
	}
	if best == -1 {
		return Result{}
	}

	return resultFor(r.entries[best])
}

// Locate is the reverse lookup from a stored area name to its coordinates.
// It matches canonical area names first, then exact aliases.
func (r *Resolver) Locate(area string) (Result, bool) {
	needle := strings.ToLower(strings.TrimSpace(area))
	if needle == "" {
		return Result{}, false
	}

	for _, e := range r.entries {
		if strings.ToLower(e.Area) == needle {
			return resultFor(e), true
		}
	}
	for _, e := range r.entries {
		for _, name := range e.Names {
			if strings.ToLower(strings.TrimSpace(name)) == needle {
				return resultFor(e), true
			}
		}
	}

	return Result{}, false
}

// Nearest returns the coordinate-bearing entry closest to (lat, lng) by
// Euclidean distance in degrees. Entries farther than maxDistance are
// ignored; nil is returned when none qualifies.
func (r *Resolver) Nearest(lat, lng, maxDistance float64) *Entry {
	var best *Entry
	bestDist := math.Inf(1)

	for i := range r.entries {
		e := r.entries[i]
		if !e.HasCoordinates() {
			continue
		}
		d := math.Hypot(*e.Lat-lat, *e.Lng-lng)
		if d <= maxDistance && d < bestDist {
			bestDist = d
			best = &e
		}
	}

	return best
}

// EnrichGeo fills coordinates for a geo that carries only an area name.
// It returns g unchanged when it already has coordinates or the area is
// unknown.
func (r *Resolver) EnrichGeo(g *domain.Geo) *domain.Geo {
	if g == nil || g.HasCoordinates() || g.Area == "" {
		return g
	}
	res, ok := r.Locate(g.Area)
	if !ok || res.Lat == nil || res.Lng == nil {
		return g
	}
	return &domain.Geo{Area: g.Area, Lat: res.Lat, Lng: res.Lng}
}

func resultFor(e Entry) Result {
	return Result{Area: e.Area, Lat: e.Lat, Lng: e.Lng}
}
