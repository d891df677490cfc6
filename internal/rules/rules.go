// Package rules implements an ordered, first-match-wins rule list.
//
// Both the geo resolver and the type classifier encode specificity purely
// through ordering: the earliest rule whose predicate accepts the input
// decides the result.
package rules

import (
	"regexp"
	"strings"
)

// Predicate reports whether a rule accepts the given text.
type Predicate func(text string) bool

// Rule pairs a predicate with the result it yields.
type Rule[T any] struct {
	Name   string
	Match  Predicate
	Result T
}

// List is an ordered sequence of rules.
type List[T any] struct {
	rules []Rule[T]
}

// New creates a List from rules in evaluation order.
func New[T any](rules ...Rule[T]) *List[T] {
	cp := make([]Rule[T], len(rules))
	copy(cp, rules)
	return &List[T]{rules: cp}
}

// First returns the result and name of the first matching rule.
func (l *List[T]) First(text string) (result T, name string, ok bool) {
	for _, r := range l.rules {
		if r.Match != nil && r.Match(text) {
			return r.Result, r.Name, true
		}
	}
	return result, "", false
}

// FirstOr returns the first matching result, or fallback when nothing matches.
func (l *List[T]) FirstOr(text string, fallback T) T {
	if result, _, ok := l.First(text); ok {
		return result
	}
	return fallback
}

// Len returns the number of rules.
func (l *List[T]) Len() int {
	return len(l.rules)
}

// Rules returns a copy of the rules in evaluation order.
func (l *List[T]) Rules() []Rule[T] {
	cp := make([]Rule[T], len(l.rules))
	copy(cp, l.rules)
	return cp
}

// Contains builds a case-insensitive substring predicate that accepts text
// containing any of the given terms. Matching is plain containment, so a
// term found inside an unrelated word still counts.
func Contains(terms ...string) Predicate {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(t); t != "" {
			lowered = append(lowered, t)
		}
	}
	return func(text string) bool {
		text = strings.ToLower(text)
		for _, t := range lowered {
			if strings.Contains(text, t) {
				return true
			}
		}
		return false
	}
}

// Regexp builds a case-insensitive regular expression predicate.
// It panics if pattern does not compile, like regexp.MustCompile.
func Regexp(pattern string) Predicate {
	re := regexp.MustCompile("(?i)" + pattern)
	return re.MatchString
}
