package config

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/cardfeed/internal/merge"
)

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := validateLogging(c); err != nil {
		return err
	}
	if c.Storage.MaxPublished < 0 {
		return &ValidationError{Field: "storage.max_published", Message: "must not be negative"}
	}
	if c.Sources.RatePerSecond < 0 {
		return &ValidationError{Field: "sources.rate_per_second", Message: "must not be negative"}
	}
	if c.Collector.RunBudget < 0 {
		return &ValidationError{Field: "collector.run_budget", Message: "must not be negative"}
	}
	if !strings.Contains(c.Sources.SearchTemplate, "%s") {
		return &ValidationError{Field: "sources.search_template", Message: "must contain %s"}
	}

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Address == "" {
			return &ValidationError{Field: "cache.redis.address", Message: "is required for the redis backend"}
		}
	default:
		return &ValidationError{Field: "cache.backend", Message: "must be one of: memory, redis"}
	}

	for i, name := range c.Translate.Engines {
		if name != EngineLibreTranslate && name != EngineOllama {
			return &ValidationError{
				Field:   fmt.Sprintf("translate.engines[%d]", i),
				Message: "must be one of: libretranslate, ollama",
			}
		}
	}

	return validateCollections(c.Collections)
}

func validateLogging(c *Config) error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return &ValidationError{Field: "logging.format", Message: "must be one of: json, console"}
	}
	return nil
}

func validateCollections(cols []Collection) error {
	seen := make(map[string]bool, len(cols))
	for i, col := range cols {
		field := fmt.Sprintf("collections[%d]", i)
		if col.Name == "" {
			return &ValidationError{Field: field + ".name", Message: "is required"}
		}
		if seen[col.Name] {
			return &ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate collection %q", col.Name)}
		}
		seen[col.Name] = true

		if col.Target != TargetInbox && col.Target != TargetPublished {
			return &ValidationError{Field: field + ".target", Message: "must be one of: inbox, published"}
		}
		if col.Order != "" {
			if _, ok := merge.ParseOrder(col.Order); !ok {
				return &ValidationError{Field: field + ".order", Message: "must be one of: incoming_first, existing_first"}
			}
		}
		if len(col.Feeds)+len(col.Searches)+len(col.Scrapes) == 0 {
			return &ValidationError{Field: field, Message: "has no feeds, searches or scrapes"}
		}
		for j, f := range col.Feeds {
			if f.URL == "" {
				return &ValidationError{Field: fmt.Sprintf("%s.feeds[%d].url", field, j), Message: "is required"}
			}
			if f.Type != "" && !f.Type.Valid() {
				return &ValidationError{Field: fmt.Sprintf("%s.feeds[%d].type", field, j), Message: "is not a card type"}
			}
		}
		for j, s := range col.Searches {
			if s.Query == "" {
				return &ValidationError{Field: fmt.Sprintf("%s.searches[%d].query", field, j), Message: "is required"}
			}
		}
		for j, s := range col.Scrapes {
			if s.URL == "" {
				return &ValidationError{Field: fmt.Sprintf("%s.scrapes[%d].url", field, j), Message: "is required"}
			}
		}
	}
	return nil
}
