package types

import "time"

type HotspotStatus string

const (
	Pending   HotspotStatus = "pending"
	Confirmed HotspotStatus = "confirmed"
	Rejected  HotspotStatus = "rejected"
	Expired   HotspotStatus = "expired"
)

// Terminal reports whether the status admits no further transitions.
func (s HotspotStatus) Terminal() bool {
	return s == Confirmed || s == Rejected || s == Expired
}

type UrgencyBreakdown struct {
	Low    int `firestore:"low" json:"low"`
	Medium int `firestore:"medium" json:"medium"`
	High   int `firestore:"high" json:"high"`
}

// HotspotCandidate is an aggregate over a set of classified post ids. It
// owns no posts, only references. Status transitions belong to the review
// workflow; membership and counts belong to the aggregator while Pending.
type HotspotCandidate struct {
	ID                  string           `firestore:"-" json:"id"`
	HazardType          HazardType       `firestore:"hazardType" json:"hazard_type"`
	Centroid            GeoPoint         `firestore:"centroid" json:"centroid"`
	RadiusKM            float64          `firestore:"radiusKm" json:"radius_km"`
	PostIDs             []string         `firestore:"postIds" json:"post_ids"`
	PostCount           int              `firestore:"postCount" json:"post_count"`
	HighConfidenceCount int              `firestore:"highConfidenceCount" json:"high_confidence_count"`
	DuplicateIDs        []string         `firestore:"duplicateIds,omitempty" json:"duplicate_ids,omitempty"`
	DuplicateCount      int              `firestore:"duplicateCount" json:"duplicate_count"`
	UrgencyCounts       UrgencyBreakdown `firestore:"urgencyCounts" json:"urgency_counts"`
	Urgency             Urgency          `firestore:"urgency" json:"urgency"`
	WindowStart         time.Time        `firestore:"windowStart" json:"window_start"`
	WindowEnd           time.Time        `firestore:"windowEnd" json:"window_end"`
	Status              HotspotStatus    `firestore:"status" json:"status"`
	Surfaced            bool             `firestore:"surfaced" json:"surfaced"`
	Dispatched          bool             `firestore:"dispatched" json:"dispatched"`
}

// HasPost reports whether the post id is already a member or a recorded
// duplicate reference.
func (h *HotspotCandidate) HasPost(id string) bool {
	for _, p := range h.PostIDs {
		if p == id {
			return true
		}
	}
	for _, d := range h.DuplicateIDs {
		if d == id {
			return true
		}
	}
	return false
}

// ReviewTicket is the unit exposed to the analyst dashboard. One ticket per
// candidate id; resubmission updates counts in place.
type ReviewTicket struct {
	ID                  string     `firestore:"-" json:"id"`
	CandidateID         string     `firestore:"candidateId" json:"candidate_id"`
	HazardType          HazardType `firestore:"hazardType" json:"hazard_type"`
	Urgency             Urgency    `firestore:"urgency" json:"urgency"`
	PostCount           int        `firestore:"postCount" json:"post_count"`
	HighConfidenceCount int        `firestore:"highConfidenceCount" json:"high_confidence_count"`
	Centroid            GeoPoint   `firestore:"centroid" json:"centroid"`
	SubmittedAt         time.Time  `firestore:"submittedAt" json:"submitted_at"`
	UpdatedAt           time.Time  `firestore:"updatedAt" json:"updated_at"`
}
