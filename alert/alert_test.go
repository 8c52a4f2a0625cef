package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coastwatch/types"
)

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []Payload
	err      error
}

func (r *recordingNotifier) Notify(_ context.Context, p Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
	return r.err
}

func sampleCandidate() types.HotspotCandidate {
	return types.HotspotCandidate{
		ID:                  "cand-1",
		HazardType:          types.Flood,
		Urgency:             types.High,
		Centroid:            types.GeoPoint{Lat: 13.0827, Lon: 80.2707},
		RadiusKM:            10,
		PostCount:           24,
		HighConfidenceCount: 9,
		DuplicateCount:      3,
		WindowStart:         time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		WindowEnd:           time.Date(2026, 8, 20, 10, 45, 0, 0, time.UTC),
		Status:              types.Confirmed,
	}
}

func TestFromCandidateCarriesEvidenceCounts(t *testing.T) {
	issued := time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC)
	p := FromCandidate(sampleCandidate(), issued)

	assert.Equal(t, "cand-1", p.CandidateID)
	assert.Equal(t, types.Flood, p.HazardType)
	assert.Equal(t, 24, p.PostCount)
	assert.Equal(t, 9, p.HighConfidenceCount)
	assert.Equal(t, 3, p.DuplicateCount)
	assert.Equal(t, issued, p.IssuedAt)
}

func TestDispatchFansOutToAllNotifiers(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}
	d := NewDispatcher(a, b)

	err := d.Dispatch(context.Background(), FromCandidate(sampleCandidate(), time.Now()))
	require.NoError(t, err)
	assert.Len(t, a.payloads, 1)
	assert.Len(t, b.payloads, 1)
}

func TestDispatchReportsFailureWithoutBlockingOthers(t *testing.T) {
	broken := &recordingNotifier{err: errors.New("webhook down")}
	healthy := &recordingNotifier{}
	d := NewDispatcher(broken, healthy)

	err := d.Dispatch(context.Background(), FromCandidate(sampleCandidate(), time.Now()))
	require.Error(t, err)
	assert.Len(t, healthy.payloads, 1, "healthy channel still delivered")
}

func TestNewDispatcherDefaultsToLogNotifier(t *testing.T) {
	d := NewDispatcher()
	err := d.Dispatch(context.Background(), FromCandidate(sampleCandidate(), time.Now()))
	assert.NoError(t, err)
}
