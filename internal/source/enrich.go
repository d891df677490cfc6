package source

import (
	"context"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/geo"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metadata"
)

// Tier names the stage at which enrichment resolved a location.
type Tier string

const (
	TierNone Tier = ""
	TierText Tier = "text"
	TierMeta Tier = "meta"
	TierBody Tier = "body"
)

// GeoResolver resolves free text to an area.
type GeoResolver interface {
	Resolve(text string) geo.Result
}

// Enricher looks for a location in an item's own text, then its linked
// page's metadata tags, then the linked page's capped body text.
type Enricher struct {
	geo       GeoResolver
	meta      metadata.Source
	bodyLimit int
	log       logger.Logger
}

// NewEnricher creates an enricher. A nil meta source limits it to the
// text tier.
func NewEnricher(resolver GeoResolver, meta metadata.Source, log logger.Logger) *Enricher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Enricher{geo: resolver, meta: meta, bodyLimit: metadata.DefaultBodyLimit, log: log}
}

// Enrich returns the first location found and the tier that found it.
// Fetch or parse failures are a miss.
func (e *Enricher) Enrich(ctx context.Context, raw domain.RawItem) (geo.Result, Tier) {
	if res := e.geo.Resolve(raw.Title + " " + raw.Summary); res.Found() {
		return res, TierText
	}
	if e.meta == nil || raw.Link == "" {
		return geo.Result{}, TierNone
	}

	meta, err := e.meta.Extract(ctx, raw.Link)
	if err != nil {
		e.log.Debug("Enrichment fetch failed",
			logger.String("url", raw.Link),
			logger.Error(err),
		)
		return geo.Result{}, TierNone
	}

	if res := e.geo.Resolve(meta.TagText()); res.Found() {
		return res, TierMeta
	}
	if res := e.geo.Resolve(metadata.Truncate(meta.BodyText, e.bodyLimit)); res.Found() {
		return res, TierBody
	}

	return geo.Result{}, TierNone
}

// EnrichAll sets Area on items whose own area is missing or unknown to the
// dictionary. An unknown area that no tier can replace is left as it is.
// Items are processed sequentially. It returns the number of items enriched.
func (e *Enricher) EnrichAll(ctx context.Context, raws []domain.RawItem) int {
	enriched := 0
	for i := range raws {
		if raws[i].Area != "" && e.geo.Resolve(raws[i].Area).Found() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		res, tier := e.Enrich(ctx, raws[i])
		if tier == TierNone {
			continue
		}
		raws[i].Area = res.Area
		enriched++
		e.log.Debug("Item enriched",
			logger.String("title", raws[i].Title),
			logger.String("area", res.Area),
			logger.String("tier", string(tier)),
		)
	}
	return enriched
}
