package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPrefersCityOverState(t *testing.T) {
	g := New()

	m, ok := g.Match("Severe flooding reported in Chennai, Tamil Nadu tonight")
	require.True(t, ok)
	assert.Equal(t, "Chennai", m.Place.Name)
	assert.Equal(t, CityLevel, m.Place.Specificity)
	assert.InDelta(t, 0.9, m.Confidence, 1e-9)
}

func TestMatchStateOnly(t *testing.T) {
	g := New()

	m, ok := g.Match("heavy rain continues across tamil nadu")
	require.True(t, ok)
	assert.Equal(t, "Tamil Nadu", m.Place.Name)
	assert.Equal(t, StateLevel, m.Place.Specificity)
	assert.InDelta(t, 0.75, m.Confidence, 1e-9)
}

func TestMatchAliasesAndScripts(t *testing.T) {
	g := New()

	cases := []struct {
		text string
		want string
	}{
		{"huge waves near vizag beach road", "Visakhapatnam"},
		{"water logging in bombay suburbs", "Mumbai"},
		{"சென்னை கடற்கரையில் பெரிய அலைகள்", "Chennai"},
		{"মুম্বই নয়, কলকাতা শহরে জল", "Kolkata"},
		{"मुंबई में समुद्र का पानी घुस गया", "Mumbai"},
	}
	for _, c := range cases {
		m, ok := g.Match(c.text)
		require.True(t, ok, "no match for %q", c.text)
		assert.Equal(t, c.want, m.Place.Name, "text: %q", c.text)
	}
}

func TestMatchWordBoundaries(t *testing.T) {
	g := New()

	// "goa" must not match inside an unrelated word.
	_, ok := g.Match("the team scored a goal in stoppage time")
	assert.False(t, ok)

	m, ok := g.Match("waves breaching the shore in goa today")
	require.True(t, ok)
	assert.Equal(t, "Goa", m.Place.Name)
}

func TestMatchEqualSpecificityPicksFirstInText(t *testing.T) {
	g := New()

	m, ok := g.Match("alerts issued for puri and digha beaches")
	require.True(t, ok)
	assert.Equal(t, "Digha", m.Place.Name, "longest alias span wins before text order")

	m, ok = g.Match("alerts issued for surat and digha beaches")
	require.True(t, ok)
	assert.Equal(t, "Surat", m.Place.Name, "equal-length aliases resolve to the first in text")
}

func TestMatchNothing(t *testing.T) {
	g := New()

	_, ok := g.Match("just a post about lunch")
	assert.False(t, ok)
}
