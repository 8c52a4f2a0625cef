// Package resolve infers a geographic point for a normalized post. Geotags
// inside the configured region win outright; otherwise the gazetteer scans
// the text. Resolution never fails: a post without a location is a valid
// outcome and still flows downstream.
package resolve

import (
	"coastwatch/gazetteer"
	"coastwatch/types"
)

// IndiaRegion bounds the geotags we trust. Anything outside is treated as
// noise (default apps tagging the wrong hemisphere, test posts).
var IndiaRegion = types.BoundingBox{MinLat: 6.0, MaxLat: 38.0, MinLon: 68.0, MaxLon: 98.0}

type Resolver struct {
	gz     *gazetteer.Gazetteer
	region types.BoundingBox
}

func New(gz *gazetteer.Gazetteer, region types.BoundingBox) *Resolver {
	return &Resolver{gz: gz, region: region}
}

// Resolve attaches a location to the post. Priority: valid geotag, then
// gazetteer text match, then none.
func (r *Resolver) Resolve(p types.NormalizedPost) types.LocatedPost {
	located := types.LocatedPost{
		NormalizedPost: p,
		LocationSource: types.SourceNone,
	}

	if p.Geo != nil && r.region.Contains(*p.Geo) {
		point := *p.Geo
		located.Location = &point
		located.LocationConfidence = 1.0
		located.LocationSource = types.SourceGeotag
		return located
	}

	if m, ok := r.gz.Match(p.Text); ok {
		point := m.Place.Point
		located.Location = &point
		located.LocationConfidence = m.Confidence
		located.LocationSource = types.SourceTextMatch
		located.PlaceName = m.Place.Name
	}

	return located
}
