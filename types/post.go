package types

import "time"

// HazardType is the fixed set of coastal hazard categories.
type HazardType string

const (
	Flood      HazardType = "Flood"
	Tsunami    HazardType = "Tsunami"
	HighWave   HazardType = "HighWave"
	StormSurge HazardType = "StormSurge"
	Cyclone    HazardType = "Cyclone"
	Other      HazardType = "Other"
	None       HazardType = "None"
)

type Urgency string

const (
	Low    Urgency = "Low"
	Medium Urgency = "Medium"
	High   Urgency = "High"
)

// LocationSource records how a post's location was inferred.
type LocationSource string

const (
	SourceGeotag    LocationSource = "geotag"
	SourceTextMatch LocationSource = "text-match"
	SourceNone      LocationSource = "none"
)

// ClassificationSource distinguishes model output from the keyword fallback.
type ClassificationSource string

const (
	ClassifiedByModel   ClassificationSource = "model"
	ClassifiedByKeyword ClassificationSource = "keyword"
)

// SupportedLanguages are the language tags the pipeline accepts.
var SupportedLanguages = []string{"en", "hi", "ta", "te", "bn", "ml"}

type GeoPoint struct {
	Lat float64 `firestore:"lat" json:"lat"`
	Lon float64 `firestore:"lon" json:"lon"`
}

type BoundingBox struct {
	MinLat float64 `firestore:"minLat" json:"minLat"`
	MaxLat float64 `firestore:"maxLat" json:"maxLat"`
	MinLon float64 `firestore:"minLon" json:"minLon"`
	MaxLon float64 `firestore:"maxLon" json:"maxLon"`
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Post is the raw unit of input. Immutable once ingested.
type Post struct {
	ID        string    `firestore:"id" json:"id"`
	Text      string    `firestore:"text" json:"text"`
	Language  string    `firestore:"language" json:"language"`
	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
	Geo       *GeoPoint `firestore:"geo,omitempty" json:"geo,omitempty"`
	AuthorID  string    `firestore:"authorId,omitempty" json:"author_id,omitempty"`
}

// NormalizedPost is a Post plus its dedup key. IsDuplicateOf holds the
// canonical post id when this post is a duplicate, empty otherwise.
type NormalizedPost struct {
	Post
	NormalizedText string `firestore:"normalizedText" json:"normalized_text"`
	DedupKey       string `firestore:"dedupKey" json:"dedup_key"`
	IsDuplicateOf  string `firestore:"isDuplicateOf,omitempty" json:"is_duplicate_of,omitempty"`
}

// LocatedPost carries the inferred location. Location is nil when nothing
// could be inferred; LocationConfidence is 0 exactly in that case.
type LocatedPost struct {
	NormalizedPost
	Location           *GeoPoint      `firestore:"location,omitempty" json:"location,omitempty"`
	LocationConfidence float64        `firestore:"locationConfidence" json:"location_confidence"`
	LocationSource     LocationSource `firestore:"locationSource" json:"location_source"`
	PlaceName          string         `firestore:"placeName,omitempty" json:"place_name,omitempty"`
}

// ClassifiedPost is the output of the classifier adapter.
// Relevance false implies HazardType None.
type ClassifiedPost struct {
	LocatedPost
	Relevance  bool                 `firestore:"relevance" json:"relevance"`
	HazardType HazardType           `firestore:"hazardType" json:"hazard_type"`
	Urgency    Urgency              `firestore:"urgency" json:"urgency"`
	Confidence float64              `firestore:"confidence" json:"confidence"`
	Source     ClassificationSource `firestore:"classificationSource" json:"classification_source"`
}
