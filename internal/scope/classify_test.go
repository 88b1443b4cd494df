package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		matches  []*Match
		expected string
	}{
		{
			name: "city: one city in one country",
			matches: []*Match{
				{City: "Springfield", Country: "Freedonia", Continent: "Europe"},
			},
			expected: ScopeCity,
		},
		{
			name: "city: duplicate boundaries collapse to one city",
			matches: []*Match{
				{City: "Springfield", Country: "Freedonia", Continent: "Europe"},
				{City: "Springfield", Country: "Freedonia", Continent: "Europe"},
			},
			expected: ScopeCity,
		},
		{
			name: "city: rule one outranks continent duplication",
			matches: []*Match{
				{City: "Springfield", Country: "Freedonia", Continent: "Europe"},
				{City: "Springfield", Country: "Freedonia", Continent: "Atlantis"},
			},
			expected: ScopeCity,
		},
		{
			name: "continent: several countries on one continent",
			matches: []*Match{
				{City: "Hanoi", Country: "Vietnam", Continent: "Asia"},
				{City: "Bangkok", Country: "Thailand", Continent: "Asia"},
				{City: "Vientiane", Country: "Laos", Continent: "Asia"},
			},
			expected: ScopeContinent,
		},
		{
			name: "global: countries across continents",
			matches: []*Match{
				{Country: "Brazil", Continent: "South America"},
				{Country: "Nigeria", Continent: "Africa"},
			},
			expected: ScopeGlobal,
		},
		{
			name: "country: several cities in one country",
			matches: []*Match{
				{City: "Lyon", Country: "France", Continent: "Europe"},
				{City: "Marseille", Country: "France", Continent: "Europe"},
			},
			expected: ScopeCountry,
		},
		{
			name: "country: one country without city detail",
			matches: []*Match{
				{Country: "Iceland", Continent: "Europe"},
			},
			expected: ScopeCountry,
		},
		{
			name: "global: fallback with no usable names",
			matches: []*Match{
				{City: "", Country: "", Continent: ""},
			},
			expected: ScopeGlobal,
		},
		{
			name: "global: continent-only matches",
			matches: []*Match{
				{Continent: "Antarctica"},
			},
			expected: ScopeGlobal,
		},
		{
			name:     "unclassified: single null row",
			matches:  []*Match{nil},
			expected: ScopeUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.matches)
			assert.Equal(t, tt.expected, result.Scope)
		})
	}
}

func TestClassify_NullRowHasNoPlaceNames(t *testing.T) {
	result := Classify([]*Match{nil})
	assert.Equal(t, ScopeUnclassified, result.Scope)
	assert.Empty(t, result.PlaceNames())
}

func TestClassify_DistinctSetsKeepFirstSeenOrder(t *testing.T) {
	result := Classify([]*Match{
		{City: "Osaka", Country: "Japan", Continent: "Asia"},
		{City: "Kyoto", Country: "Japan", Continent: "Asia"},
		{City: "Osaka", Country: "Japan", Continent: "Asia"},
	})

	assert.Equal(t, []string{"Osaka", "Kyoto"}, result.Cities)
	assert.Equal(t, []string{"Japan"}, result.Countries)
	assert.Equal(t, []string{"Asia"}, result.Continents)
}

func TestClassify_EmptyNamesExcluded(t *testing.T) {
	result := Classify([]*Match{
		{City: "", Country: "Peru", Continent: "South America"},
		{City: "Cusco", Country: "Peru", Continent: ""},
	})

	assert.Equal(t, []string{"Cusco"}, result.Cities)
	assert.Equal(t, []string{"Peru"}, result.Countries)
	assert.Equal(t, []string{"South America"}, result.Continents)
}

func TestPlaceNames_ConcatenationOrder(t *testing.T) {
	result := Classify([]*Match{
		{City: "Hanoi", Country: "Vietnam", Continent: "Asia"},
		{City: "Bangkok", Country: "Thailand", Continent: "Asia"},
	})

	assert.Equal(t,
		[]string{"Hanoi", "Bangkok", "Vietnam", "Thailand", "Asia"},
		result.PlaceNames())
}

func TestPlaceNames_NameOnTwoLevelsListedTwice(t *testing.T) {
	// A city-state shows up as both city and country.
	result := Classify([]*Match{
		{City: "Singapore", Country: "Singapore", Continent: "Asia"},
	})

	assert.Equal(t, ScopeCity, result.Scope)
	assert.Equal(t, []string{"Singapore", "Singapore", "Asia"}, result.PlaceNames())
}
