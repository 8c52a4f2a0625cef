// Package store persists posts, hotspot candidates and batch runs. The
// Firestore implementation is the production backend; MemoryStore backs
// tests and local runs without credentials.
package store

import (
	"context"
	"errors"

	"coastwatch/types"
)

var ErrNotFound = errors.New("store: not found")

type Store interface {
	// SavePosts persists the batch's classified posts, duplicates included.
	SavePosts(ctx context.Context, posts []types.ClassifiedPost) error

	// LoadOpenCandidates returns every candidate still in Pending status.
	LoadOpenCandidates(ctx context.Context) ([]types.HotspotCandidate, error)

	GetCandidate(ctx context.Context, id string) (types.HotspotCandidate, error)
	SaveCandidate(ctx context.Context, c types.HotspotCandidate) error
	SaveCandidates(ctx context.Context, cs []types.HotspotCandidate) error

	SaveBatchRun(ctx context.Context, run types.BatchRun) error
	RecentBatchRuns(ctx context.Context, limit int) ([]types.BatchRun, error)
}
