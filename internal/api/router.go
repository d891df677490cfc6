// Package api serves collections and page metadata over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/metadata"
	"github.com/jonesrussell/cardfeed/internal/store"
)

// GeoEnricher fills coordinates for stored area names.
type GeoEnricher interface {
	EnrichGeo(g *domain.Geo) *domain.Geo
}

// Deps are the router's collaborators. Geo, Meta and Gatherer are optional.
type Deps struct {
	Store    store.Store
	Geo      GeoEnricher
	Meta     metadata.Source
	Gatherer prometheus.Gatherer
	Log      logger.Logger
	Version  string
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	h := &handler{store: d.Store, geo: d.Geo, meta: d.Meta, version: d.Version}

	router := gin.New()
	router.Use(RecoveryMiddleware(d.Log))
	router.Use(RequestIDLoggerMiddleware(d.Log))
	router.Use(LoggerMiddleware())

	router.GET("/health", h.health)
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v := router.Group("/api")
	v.GET("/cards", h.listCards(domain.CollectionPublished))
	v.GET("/cards/:id", h.getCard)
	v.GET("/inbox", h.listCards(domain.CollectionInbox))
	v.GET("/og", h.openGraph)

	return router
}
