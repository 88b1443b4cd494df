// Package scope classifies a record's geographic reach from the set of
// administrative boundaries its spatial extent intersects.
package scope

// Scope labels assigned to a record.
const (
	ScopeCity         = "city"
	ScopeCountry      = "country"
	ScopeContinent    = "continent"
	ScopeGlobal       = "global"
	ScopeUnclassified = "unclassified"
)

// Match carries the place names of one boundary a record intersects.
// A nil Match is the join's null row: the record was staged but
// intersected nothing.
type Match struct {
	City      string
	Country   string
	Continent string
}

// Result is the classification of one record. The name slices hold the
// distinct non-empty values per administrative level, ordered by first
// appearance across the record's matches.
type Result struct {
	Scope      string
	Cities     []string
	Countries  []string
	Continents []string
}

// PlaceNames returns cities, countries, and continents concatenated in
// that order. A name appearing at more than one level is listed once
// per level.
func (r Result) PlaceNames() []string {
	out := make([]string, 0, len(r.Cities)+len(r.Countries)+len(r.Continents))
	out = append(out, r.Cities...)
	out = append(out, r.Countries...)
	out = append(out, r.Continents...)
	return out
}

// Classify applies the scope rules to one record's matches, first rule
// wins:
//
//  1. exactly 1 city and exactly 1 country        -> city
//  2. more than 1 country and exactly 1 continent -> continent
//  3. more than 1 continent                       -> global
//  4. more than 1 city, or exactly 1 country      -> country
//  5. none of the above                           -> global
//
// A record whose only match is the null row intersected nothing and is
// forced to unclassified with no place names, regardless of the rules.
func Classify(matches []*Match) Result {
	if len(matches) == 1 && matches[0] == nil {
		return Result{Scope: ScopeUnclassified}
	}

	var res Result
	seenCity := make(map[string]bool)
	seenCountry := make(map[string]bool)
	seenContinent := make(map[string]bool)

	for _, m := range matches {
		if m == nil {
			continue
		}
		res.Cities = appendDistinct(seenCity, res.Cities, m.City)
		res.Countries = appendDistinct(seenCountry, res.Countries, m.Country)
		res.Continents = appendDistinct(seenContinent, res.Continents, m.Continent)
	}

	switch {
	case len(res.Cities) == 1 && len(res.Countries) == 1:
		res.Scope = ScopeCity
	case len(res.Countries) > 1 && len(res.Continents) == 1:
		res.Scope = ScopeContinent
	case len(res.Continents) > 1:
		res.Scope = ScopeGlobal
	case len(res.Cities) > 1 || len(res.Countries) == 1:
		res.Scope = ScopeCountry
	default:
		res.Scope = ScopeGlobal
	}
	return res
}

func appendDistinct(seen map[string]bool, list []string, name string) []string {
	if name == "" || seen[name] {
		return list
	}
	seen[name] = true
	return append(list, name)
}
