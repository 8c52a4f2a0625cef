package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coastwatch/gazetteer"
	"coastwatch/types"
)

func normalized(id, text string, geo *types.GeoPoint) types.NormalizedPost {
	return types.NormalizedPost{
		Post: types.Post{
			ID:        id,
			Text:      text,
			Language:  "en",
			CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
			Geo:       geo,
		},
	}
}

func newResolver() *Resolver {
	return New(gazetteer.New(), IndiaRegion)
}

func TestResolveGeotagWins(t *testing.T) {
	r := newResolver()

	// Text mentions Mumbai but the geotag is authoritative.
	p := normalized("p1", "flooding in mumbai right now", &types.GeoPoint{Lat: 13.05, Lon: 80.24})
	got := r.Resolve(p)

	require.NotNil(t, got.Location)
	assert.Equal(t, types.SourceGeotag, got.LocationSource)
	assert.InDelta(t, 1.0, got.LocationConfidence, 1e-9)
	assert.InDelta(t, 13.05, got.Location.Lat, 1e-9)
}

func TestResolveRejectsGeotagOutsideRegion(t *testing.T) {
	r := newResolver()

	p := normalized("p2", "flooding in mumbai right now", &types.GeoPoint{Lat: 40.7, Lon: -74.0})
	got := r.Resolve(p)

	require.NotNil(t, got.Location, "falls back to the text match")
	assert.Equal(t, types.SourceTextMatch, got.LocationSource)
	assert.Equal(t, "Mumbai", got.PlaceName)
	assert.InDelta(t, 0.9, got.LocationConfidence, 1e-9)
}

func TestResolveTextMatchConfidenceByLevel(t *testing.T) {
	r := newResolver()

	city := r.Resolve(normalized("p3", "sea water entering chennai streets", nil))
	assert.InDelta(t, 0.9, city.LocationConfidence, 1e-9)

	state := r.Resolve(normalized("p4", "cyclone alert for odisha coast", nil))
	assert.InDelta(t, 0.75, state.LocationConfidence, 1e-9)
}

func TestResolveNoneIsValid(t *testing.T) {
	r := newResolver()

	got := r.Resolve(normalized("p5", "what a strange afternoon", nil))
	assert.Nil(t, got.Location)
	assert.Zero(t, got.LocationConfidence)
	assert.Equal(t, types.SourceNone, got.LocationSource)
}

// LocationConfidence is 0 exactly when Location is nil.
func TestResolveConfidenceInvariant(t *testing.T) {
	r := newResolver()

	posts := []types.NormalizedPost{
		normalized("a", "flooding in kochi", nil),
		normalized("b", "nothing to see here", nil),
		normalized("c", "anything", &types.GeoPoint{Lat: 9.9, Lon: 76.3}),
	}
	for _, p := range posts {
		got := r.Resolve(p)
		if got.Location == nil {
			assert.Zero(t, got.LocationConfidence, "post %s", p.ID)
		} else {
			assert.Greater(t, got.LocationConfidence, 0.0, "post %s", p.ID)
		}
	}
}
