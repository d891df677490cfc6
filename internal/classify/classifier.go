// Package classify assigns a card type to free text using ordered keyword rules.
package classify

import (
	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/rules"
)

// Rule names, in evaluation order.
const (
	RulePopup      = "popup"
	RuleCongestion = "congestion"
	RuleWeather    = "weather"
	RulePopulation = "population"
	RuleTip        = "tip"
	RuleHotspot    = "hotspot"
)

// Keyword patterns. All are matched case-insensitively.
const (
	popupPattern      = `pop-?ups?\b|팝업|\blimited[- ]edition store\b|\bflagship opening\b`
	congestionPattern = `\b(traffic|congest(ed|ion)|gridlock|delays?|delayed|accidents?|road closures?|detours?|rush hour|subway|metro line|line \d+|strikes?)\b`
	weatherPattern    = `\b(weather|forecasts?|rain(fall|y)?|snow(fall)?|typhoons?|heat ?waves?|cold waves?|monsoon|fine dust|yellow dust|air quality|temperatures?|storms?)\b`
	populationPattern = `\b(population|census|birth ?rates?|fertility|demographics?|residents|tourist arrivals)\b`
	tipPattern        = `\b(tips?|guides?|how[- ]to|etiquette|checklist|things to know|visa|k-eta|t-?money)\b`
	hotspotPattern    = `\b(hot ?spots?|must[- ]visit|trending|popular|restaurants?|caf(e|é)s?|food street|night market|festivals?)\b`
)

// Classifier maps text to one of the card types. The first matching rule
// wins; no scoring is performed.
type Classifier struct {
	rules *rules.List[domain.CardType]
}

// New returns a classifier with the standard rule order.
func New() *Classifier {
	return NewWithRules(DefaultRules()...)
}

// NewWithRules returns a classifier over a custom ordered rule set.
func NewWithRules(rs ...rules.Rule[domain.CardType]) *Classifier {
	return &Classifier{rules: rules.New(rs...)}
}

// DefaultRules returns the standard rules in evaluation order.
func DefaultRules() []rules.Rule[domain.CardType] {
	return []rules.Rule[domain.CardType]{
		{Name: RulePopup, Match: rules.Regexp(popupPattern), Result: domain.TypePopup},
		{Name: RuleCongestion, Match: rules.Regexp(congestionPattern), Result: domain.TypeCongestion},
		{Name: RuleWeather, Match: rules.Regexp(weatherPattern), Result: domain.TypeWeather},
		{Name: RulePopulation, Match: rules.Regexp(populationPattern), Result: domain.TypePopulation},
		{Name: RuleTip, Match: rules.Regexp(tipPattern), Result: domain.TypeTip},
		{Name: RuleHotspot, Match: rules.Regexp(hotspotPattern), Result: domain.TypeHotspot},
	}
}

// Classify returns the type for text. When no rule matches, the suggested
// type is used if valid, otherwise issue.
func (c *Classifier) Classify(text string, suggested domain.CardType) domain.CardType {
	if t, _, ok := c.rules.First(text); ok {
		return t
	}
	if suggested.Valid() {
		return suggested
	}
	return domain.TypeIssue
}

// Explain returns the type and the name of the rule that produced it.
// The rule name is empty when the fallback was used.
func (c *Classifier) Explain(text string, suggested domain.CardType) (domain.CardType, string) {
	if t, name, ok := c.rules.First(text); ok {
		return t, name
	}
	return c.Classify(text, suggested), ""
}
