package translate

import (
	"context"
	"strings"

	"github.com/jonesrussell/cardfeed/internal/domain"
	"github.com/jonesrussell/cardfeed/internal/logger"
)

// Localizer fills card i18n entries.
type Localizer interface {
	Translate(ctx context.Context, text, source, target string) (Result, error)
}

// LocalizeCard returns a copy of card with an i18n entry for every locale
// it could translate. Existing entries are kept. A locale whose title or
// summary fails is skipped. Tags are translated too, except the type tag;
// a tag that fails keeps its original text. The second result counts
// locales added.
func LocalizeCard(ctx context.Context, l Localizer, card domain.Card, source string, locales []string, log logger.Logger) (domain.Card, int) {
	if log == nil {
		log = logger.NewNop()
	}

	out := card
	out.I18n = make(map[string]domain.Localized, len(card.I18n)+len(locales))
	for k, v := range card.I18n {
		out.I18n[k] = v
	}

	added := 0
	for _, locale := range locales {
		if locale == "" || locale == source {
			continue
		}
		if _, exists := out.I18n[locale]; exists {
			continue
		}

		title, err := l.Translate(ctx, card.Title, source, locale)
		if err != nil {
			log.Debug("Card title not localized",
				logger.String("id", card.ID),
				logger.String("locale", locale),
				logger.Error(err),
			)
			continue
		}
		summary, err := l.Translate(ctx, card.Summary, source, locale)
		if err != nil {
			log.Debug("Card summary not localized",
				logger.String("id", card.ID),
				logger.String("locale", locale),
				logger.Error(err),
			)
			continue
		}

		out.I18n[locale] = domain.Localized{
			Title:   title.Text,
			Summary: summary.Text,
			Tags:    localizeTags(ctx, l, card, source, locale),
		}
		added++
	}

	if len(out.I18n) == 0 {
		out.I18n = nil
	}
	return out, added
}

func localizeTags(ctx context.Context, l Localizer, card domain.Card, source, locale string) []string {
	if len(card.Tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(card.Tags))
	for _, tag := range card.Tags {
		if tag == string(card.Type) {
			out = append(out, tag)
			continue
		}
		res, err := l.Translate(ctx, tag, source, locale)
		if err != nil || res.Text == "" {
			out = append(out, tag)
			continue
		}
		out = append(out, strings.ToLower(res.Text))
	}
	return out
}
