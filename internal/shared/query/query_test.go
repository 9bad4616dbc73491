package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type animal struct {
	name    string
	kind    string
	status  string
	visible bool
	rank    int
}

func names(items []animal) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.name)
	}
	return out
}

func strPtr(s string) *string { return &s }

var zoo = []animal{
	{name: "Jaguar", kind: "mammal", status: "NT", visible: true, rank: 3},
	{name: "Giraffe", kind: "mammal", status: "VU", visible: true, rank: 1},
	{name: "Tiger", kind: "mammal", status: "EN", visible: true, rank: 2},
	{name: "Secret Frog", kind: "amphibian", status: "EN", visible: false, rank: 4},
	{name: "Sea Turtle", kind: "reptile", status: "EN", visible: true, rank: 5},
}

func visible(a animal) bool { return a.visible }

func TestApplyVisibilityComesFirst(t *testing.T) {
	result := Apply(zoo, Spec[animal]{
		Visible: visible,
		Filters: []Predicate[animal]{
			Equals(strPtr("amphibian"), func(a animal) string { return a.kind }),
		},
	})

	assert.Empty(t, result)
}

func TestApplyFiltersAreConjunctive(t *testing.T) {
	result := Apply(zoo, Spec[animal]{
		Visible: visible,
		Filters: []Predicate[animal]{
			Equals(strPtr("mammal"), func(a animal) string { return a.kind }),
			Equals(strPtr("EN"), func(a animal) string { return a.status }),
		},
	})

	assert.Equal(t, []string{"Tiger"}, names(result))
}

func TestApplyUnsuppliedFiltersAreIgnored(t *testing.T) {
	result := Apply(zoo, Spec[animal]{
		Visible: visible,
		Filters: []Predicate[animal]{
			Equals[animal, string](nil, func(a animal) string { return a.kind }),
			nil,
		},
	})

	assert.Equal(t, []string{"Jaguar", "Giraffe", "Tiger", "Sea Turtle"}, names(result))
}

func TestApplyTextIsCaseInsensitiveSubstring(t *testing.T) {
	result := Apply(zoo, Spec[animal]{
		Visible:    visible,
		Text:       "JAGU",
		TextFields: func(a animal) []string { return []string{a.name, a.kind} },
	})

	assert.Equal(t, []string{"Jaguar"}, names(result))
}

func TestApplyTextMatchesAnyField(t *testing.T) {
	result := Apply(zoo, Spec[animal]{
		Visible:    visible,
		Text:       "rept",
		TextFields: func(a animal) []string { return []string{a.name, a.kind} },
	})

	assert.Equal(t, []string{"Sea Turtle"}, names(result))
}

func TestApplyBlankTextDisablesTextStep(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		result := Apply(zoo, Spec[animal]{
			Visible:    visible,
			Text:       text,
			TextFields: func(a animal) []string { return []string{a.name} },
		})

		assert.Len(t, result, 4, "text %q", text)
	}
}

func TestApplyOrdering(t *testing.T) {
	result := Apply(zoo, Spec[animal]{
		Visible: visible,
		Less:    func(a, b animal) bool { return a.rank > b.rank },
	})

	assert.Equal(t, []string{"Sea Turtle", "Jaguar", "Tiger", "Giraffe"}, names(result))
}

func TestApplyIsDeterministic(t *testing.T) {
	spec := Spec[animal]{
		Visible:    visible,
		Text:       "a",
		TextFields: func(a animal) []string { return []string{a.name} },
	}

	first := Apply(zoo, spec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, names(first), names(Apply(zoo, spec)))
	}
}

func TestApplyDoesNotAliasInput(t *testing.T) {
	input := append([]animal(nil), zoo...)
	result := Apply(input, Spec[animal]{Less: func(a, b animal) bool { return a.rank < b.rank }})

	assert.Equal(t, "Jaguar", input[0].name)
	assert.Equal(t, "Giraffe", result[0].name)
}
