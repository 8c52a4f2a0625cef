package types

import "time"

type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchSucceeded BatchStatus = "succeeded"
	BatchFailed    BatchStatus = "failed"
	BatchPartial   BatchStatus = "partial"
)

// BatchError is one recoverable per-post failure recorded during a run.
type BatchError struct {
	PostID  string `firestore:"postId" json:"post_id"`
	Stage   string `firestore:"stage" json:"stage"`
	Message string `firestore:"message" json:"message"`
}

// BatchRun is one execution of the orchestrator. Append-only while the run
// is in flight, finalized exactly once at batch end.
type BatchRun struct {
	ID              string             `firestore:"-" json:"id"`
	StartedAt       time.Time          `firestore:"startedAt" json:"started_at"`
	EndedAt         time.Time          `firestore:"endedAt" json:"ended_at"`
	Status          BatchStatus        `firestore:"status" json:"status"`
	IngestedCount   int                `firestore:"ingestedCount" json:"ingested_count"`
	DuplicateCount  int                `firestore:"duplicateCount" json:"duplicate_count"`
	ClassifiedCount int                `firestore:"classifiedCount" json:"classified_count"`
	FallbackCount   int                `firestore:"fallbackCount" json:"fallback_count"`
	HotspotCount    int                `firestore:"hotspotCount" json:"hotspot_count"`
	HazardCounts    map[HazardType]int `firestore:"hazardCounts,omitempty" json:"hazard_counts,omitempty"`
	Errors          []BatchError       `firestore:"errors,omitempty" json:"errors,omitempty"`
}

// RecordError appends a recoverable failure to the run.
func (b *BatchRun) RecordError(postID, stage, message string) {
	b.Errors = append(b.Errors, BatchError{PostID: postID, Stage: stage, Message: message})
}
