// Package domain holds the card model shared by every stage of the pipeline.
package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// CardType is the closed set of card categories.
type CardType string

// Card types.
const (
	TypeIssue      CardType = "issue"
	TypePopup      CardType = "popup"
	TypeCongestion CardType = "congestion"
	TypeTip        CardType = "tip"
	TypeWeather    CardType = "weather"
	TypeHotspot    CardType = "hotspot"
	TypePopulation CardType = "population"
)

// AllTypes lists every card type in declaration order.
var AllTypes = []CardType{
	TypeIssue, TypePopup, TypeCongestion, TypeTip, TypeWeather, TypeHotspot, TypePopulation,
}

// Valid reports whether t is one of the known card types.
func (t CardType) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseCardType converts s to a CardType, case-insensitively.
func ParseCardType(s string) (CardType, bool) {
	t := CardType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Geo is an optional location. Lat/Lng are looked up from the dictionary
// and are not authoritative.
type Geo struct {
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
	Area string   `json:"area,omitempty"`
}

// HasCoordinates reports whether both coordinates are set.
func (g *Geo) HasCoordinates() bool {
	return g != nil && g.Lat != nil && g.Lng != nil
}

// Period bounds a time-limited event such as a pop-up store.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Source records where a card came from.
type Source struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Publisher string `json:"publisher"`
}

// Localized overrides card text for one locale.
type Localized struct {
	Title   string   `json:"title,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Card is the canonical unit of content.
type Card struct {
	ID             string               `json:"id"`
	Type           CardType             `json:"type"`
	Title          string               `json:"title"`
	Summary        string               `json:"summary"`
	Tags           []string             `json:"tags"`
	Geo            *Geo                 `json:"geo,omitempty"`
	Period         *Period              `json:"period,omitempty"`
	Sources        []Source             `json:"sources"`
	LastUpdatedKST string               `json:"lastUpdatedKST"`
	I18n           map[string]Localized `json:"i18n,omitempty"`
}

// Validation errors.
var (
	ErrMissingTitle   = errors.New("card has no title")
	ErrMissingSources = errors.New("card has no sources")
	ErrUnknownType    = errors.New("card has unknown type")
	ErrBadCoordinates = errors.New("card geo coordinates are not finite")
)

// Validate checks the card invariants that hold for any persisted card.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrMissingTitle
	}
	if len(c.Sources) == 0 {
		return ErrMissingSources
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
	if c.Geo != nil {
		if c.Geo.Lat != nil && !isFinite(*c.Geo.Lat) {
			return ErrBadCoordinates
		}
		if c.Geo.Lng != nil && !isFinite(*c.Geo.Lng) {
			return ErrBadCoordinates
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
