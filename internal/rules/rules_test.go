package rules_test

import (
	"testing"

	"github.com/jonesrussell/cardfeed/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestList_FirstMatchWins(t *testing.T) {
	narrowFirst := rules.New(
		rules.Rule[string]{Name: "narrow", Match: rules.Contains("gangnam station"), Result: "Gangnam Station"},
		rules.Rule[string]{Name: "broad", Match: rules.Contains("gangnam"), Result: "Gangnam"},
	)
	broadFirst := rules.New(
		rules.Rule[string]{Name: "broad", Match: rules.Contains("gangnam"), Result: "Gangnam"},
		rules.Rule[string]{Name: "narrow", Match: rules.Contains("gangnam station"), Result: "Gangnam Station"},
	)

	text := "Crowds at Gangnam Station tonight"

	got, name, ok := narrowFirst.First(text)
	assert.True(t, ok)
	assert.Equal(t, "Gangnam Station", got)
	assert.Equal(t, "narrow", name)

	got, name, ok = broadFirst.First(text)
	assert.True(t, ok)
	assert.Equal(t, "Gangnam", got, "reordering the list changes the winner")
	assert.Equal(t, "broad", name)
}

func TestList_FirstOr(t *testing.T) {
	l := rules.New(rules.Rule[int]{Name: "one", Match: rules.Regexp(`\bone\b`), Result: 1})

	assert.Equal(t, 1, l.FirstOr("ONE more", 0))
	assert.Equal(t, 0, l.FirstOr("someone", 0))
	assert.Equal(t, 1, l.Len())
}

func TestList_NilPredicateNeverMatches(t *testing.T) {
	l := rules.New(rules.Rule[string]{Name: "empty", Result: "x"})

	_, _, ok := l.First("anything")
	assert.False(t, ok)
}

func TestContains_IgnoresEmptyTerms(t *testing.T) {
	p := rules.Contains("", "Myeong")

	assert.True(t, p("myeongdong"))
	assert.False(t, p("insadong"))
}

func TestRules_ReturnsCopy(t *testing.T) {
	l := rules.New(rules.Rule[string]{Name: "a", Match: rules.Contains("a"), Result: "A"})

	rs := l.Rules()
	rs[0].Result = "mutated"

	assert.Equal(t, "A", l.FirstOr("a", ""))
}
