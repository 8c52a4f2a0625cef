// Package gazetteer holds the fixed place-name table used for text-based
// location inference. Aliases cover common abbreviations and vernacular
// script spellings for Indian coastal cities and states.
package gazetteer

import (
	"sort"
	"strings"
	"unicode"

	"coastwatch/types"
)

type Specificity int

const (
	RegionLevel Specificity = iota
	StateLevel
	CityLevel
)

// Confidence returns the location confidence assigned to a text match at
// this specificity. Text matches never reach the 1.0 reserved for geotags.
func (s Specificity) Confidence() float64 {
	switch s {
	case CityLevel:
		return 0.9
	case StateLevel:
		return 0.75
	default:
		return 0.6
	}
}

type Place struct {
	Name        string
	State       string
	Point       types.GeoPoint
	Specificity Specificity
}

// Match is one resolved place mention in a text.
type Match struct {
	Place      Place
	Alias      string
	Index      int
	Confidence float64
}

type entry struct {
	alias string
	place Place
}

type Gazetteer struct {
	entries []entry
}

// New builds the default India coastal gazetteer.
func New() *Gazetteer {
	g := &Gazetteer{}
	for _, c := range cities {
		g.add(c.aliases, Place{Name: c.name, State: c.state, Point: c.point, Specificity: CityLevel})
	}
	for _, s := range states {
		g.add(s.aliases, Place{Name: s.name, State: s.name, Point: s.point, Specificity: StateLevel})
	}
	// Longer aliases first so the scan prefers the longest span cheaply;
	// alias order breaks remaining ties deterministically.
	sort.Slice(g.entries, func(i, j int) bool {
		a, b := g.entries[i].alias, g.entries[j].alias
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return g
}

func (g *Gazetteer) add(aliases []string, p Place) {
	for _, a := range aliases {
		g.entries = append(g.entries, entry{alias: strings.ToLower(a), place: p})
	}
}

// Match scans the text for known place aliases and returns the best single
// match: highest specificity first, then longest alias span, then earliest
// position in the text. The second return is false when nothing matched.
func (g *Gazetteer) Match(text string) (Match, bool) {
	lower := strings.ToLower(text)

	var best Match
	found := false
	for _, e := range g.entries {
		idx := findWord(lower, e.alias)
		if idx < 0 {
			continue
		}
		m := Match{
			Place:      e.place,
			Alias:      e.alias,
			Index:      idx,
			Confidence: e.place.Specificity.Confidence(),
		}
		if !found || better(m, best) {
			best = m
			found = true
		}
	}
	return best, found
}

func better(a, b Match) bool {
	if a.Place.Specificity != b.Place.Specificity {
		return a.Place.Specificity > b.Place.Specificity
	}
	if len(a.Alias) != len(b.Alias) {
		return len(a.Alias) > len(b.Alias)
	}
	return a.Index < b.Index
}

// findWord locates alias in text requiring word boundaries for ASCII
// aliases, so "goa" does not match inside "goal". Indic-script aliases
// match as plain substrings.
func findWord(text, alias string) int {
	from := 0
	for {
		idx := strings.Index(text[from:], alias)
		if idx < 0 {
			return -1
		}
		idx += from
		if !asciiAlias(alias) || boundedAt(text, idx, len(alias)) {
			return idx
		}
		from = idx + 1
	}
}

func asciiAlias(alias string) bool {
	for _, r := range alias {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func boundedAt(text string, idx, length int) bool {
	before := []rune(text[:idx])
	after := []rune(text[idx+length:])
	if len(before) > 0 {
		r := before[len(before)-1]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if len(after) > 0 {
		r := after[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
