package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
	"github.com/jonesrussell/cardfeed/internal/merge"
	"github.com/jonesrussell/cardfeed/internal/metadata"
	"github.com/jonesrussell/cardfeed/internal/store"
)

// Sort orders accepted by the list endpoints.
const (
	SortStored  = ""
	SortUpdated = "updated"
	SortScore   = "score"
)

type handler struct {
	store   store.Store
	geo     GeoEnricher
	meta    metadata.Source
	version string
}

type cardsResponse struct {
	Cards []domain.Card `json:"cards"`
	Total int           `json:"total"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"collections": gin.H{
			"inbox":     len(h.store.Load(domain.CollectionInbox)),
			"published": len(h.store.Load(domain.CollectionPublished)),
		},
	})
}

func (h *handler) listCards(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cards := h.store.Load(collection)

		if raw := c.Query("type"); raw != "" {
			t, ok := domain.ParseCardType(raw)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown card type"})
				return
			}
			cards = filterType(cards, t)
		}

		switch c.Query("sort") {
		case SortStored:
		case SortUpdated:
			merge.SortByUpdated(cards)
		case SortScore:
			merge.SortByScore(cards, Score)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be updated or score"})
			return
		}

		total := len(cards)
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
				return
			}
			cards = merge.Trim(cards, limit)
		}

		locale := c.Query("locale")
		for i := range cards {
			cards[i] = h.present(cards[i], locale)
		}

		c.JSON(http.StatusOK, cardsResponse{Cards: cards, Total: total})
	}
}

func (h *handler) getCard(c *gin.Context) {
	id := c.Param("id")
	for _, name := range []string{domain.CollectionPublished, domain.CollectionInbox} {
		for _, card := range h.store.Load(name) {
			if card.ID == id {
				c.JSON(http.StatusOK, h.present(card, c.Query("locale")))
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
}

func (h *handler) openGraph(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	if h.meta == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metadata lookup disabled"})
		return
	}

	meta, err := h.meta.Extract(c.Request.Context(), pageURL)
	if err != nil {
		if errors.Is(err, metadata.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http(s) URL"})
			return
		}
		logger.FromContext(c.Request.Context()).Warn("Metadata lookup failed",
			logger.String("url", pageURL),
			logger.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not fetch page metadata"})
		return
	}

	c.JSON(http.StatusOK, meta)
}

// present fills display-time geo and applies a locale override.
func (h *handler) present(card domain.Card, locale string) domain.Card {
	if h.geo != nil {
		card.Geo = h.geo.EnrichGeo(card.Geo)
	}
	if loc, ok := card.I18n[locale]; ok && locale != "" {
		if loc.Title != "" {
			card.Title = loc.Title
		}
		if loc.Summary != "" {
			card.Summary = loc.Summary
		}
		if len(loc.Tags) > 0 {
			card.Tags = loc.Tags
		}
	}
	return card
}

func filterType(cards []domain.Card, t domain.CardType) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if card.Type == t {
			out = append(out, card)
		}
	}
	return out
}

// Score ranks a card by its source count, with small bonuses for
// coordinates and a period.
func Score(card domain.Card) float64 {
	score := float64(len(card.Sources))
	if card.Geo.HasCoordinates() {
		score += 0.5
	}
	if card.Period != nil {
		score += 0.25
	}
	return score
}
