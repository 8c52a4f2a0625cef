package cronjobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"coastwatch/alert"
	"coastwatch/batch"
	"coastwatch/detection"
	"coastwatch/gazetteer"
	"coastwatch/resolve"
	"coastwatch/review"
	"coastwatch/store"
	"coastwatch/types"
)

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, post types.LocatedPost) (types.ClassifiedPost, error) {
	return types.ClassifiedPost{LocatedPost: post}, nil
}

// failingStore breaks the pipeline's candidate load, making every run
// batch-fatal.
type failingStore struct {
	*store.MemoryStore
}

func (f *failingStore) LoadOpenCandidates(context.Context) ([]types.HotspotCandidate, error) {
	return nil, errors.New("backend unavailable")
}

func newOrchestrator(st store.Store) *batch.Orchestrator {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC))
	wf := review.New(st, alert.NewDispatcher(), clock)
	rs := resolve.New(gazetteer.New(), resolve.IndiaRegion)
	ag := detection.New(detection.DefaultConfig(), clock)
	return batch.NewOrchestrator(stubClassifier{}, rs, ag, wf, st, clock)
}

func bufferedPosts() []types.Post {
	return []types.Post{
		{ID: "p1", Text: "flood water rising", Language: "en", CreatedAt: time.Date(2026, 8, 20, 9, 55, 0, 0, time.UTC)},
		{ID: "p2", Text: "waves over the seawall", Language: "en", CreatedAt: time.Date(2026, 8, 20, 9, 56, 0, 0, time.UTC)},
	}
}

func TestBatchPassRequeuesOnFailure(t *testing.T) {
	st := &failingStore{MemoryStore: store.NewMemoryStore()}
	orch := newOrchestrator(st)

	queue := batch.NewQueue()
	queue.Add(bufferedPosts()...)

	runBatchPass(orch, queue)

	assert.Equal(t, 2, queue.Len(), "a failed batch loses no posts")
}

func TestBatchPassDrainsOnSuccess(t *testing.T) {
	st := store.NewMemoryStore()
	orch := newOrchestrator(st)

	queue := batch.NewQueue()
	queue.Add(bufferedPosts()...)

	runBatchPass(orch, queue)

	assert.Zero(t, queue.Len())
	assert.Equal(t, 2, st.PostCount(), "processed posts are persisted, not requeued")
}
