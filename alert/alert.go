// Package alert turns confirmed hotspots into notifications for downstream
// agencies. Dispatch is at-most-once per candidate: the review workflow
// flips the Dispatched flag before handing the candidate over here.
package alert

import (
	"context"
	"log"
	"sync"
	"time"

	"coastwatch/types"
)

// Payload is the wire shape delivered to every notifier.
type Payload struct {
	CandidateID         string           `json:"candidate_id"`
	HazardType          types.HazardType `json:"hazard_type"`
	Urgency             types.Urgency    `json:"urgency"`
	Centroid            types.GeoPoint   `json:"centroid"`
	RadiusKM            float64          `json:"radius_km"`
	PostCount           int              `json:"post_count"`
	HighConfidenceCount int              `json:"high_confidence_count"`
	DuplicateCount      int              `json:"duplicate_count"`
	WindowStart         time.Time        `json:"window_start"`
	WindowEnd           time.Time        `json:"window_end"`
	IssuedAt            time.Time        `json:"issued_at"`
}

// FromCandidate builds the alert payload for a confirmed candidate.
func FromCandidate(c types.HotspotCandidate, issuedAt time.Time) Payload {
	return Payload{
		CandidateID:         c.ID,
		HazardType:          c.HazardType,
		Urgency:             c.Urgency,
		Centroid:            c.Centroid,
		RadiusKM:            c.RadiusKM,
		PostCount:           c.PostCount,
		HighConfidenceCount: c.HighConfidenceCount,
		DuplicateCount:      c.DuplicateCount,
		WindowStart:         c.WindowStart,
		WindowEnd:           c.WindowEnd,
		IssuedAt:            issuedAt,
	}
}

// Notifier delivers one alert to one channel. Implementations must tolerate
// concurrent calls.
type Notifier interface {
	Notify(ctx context.Context, p Payload) error
}

// LogNotifier writes alerts to the process log. The default channel, and
// the only one in local runs.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, p Payload) error {
	log.Printf("ALERT [%s/%s] candidate %s: %d posts (%d high confidence, %d duplicates) near (%.4f, %.4f), window %s to %s",
		p.HazardType, p.Urgency, p.CandidateID,
		p.PostCount, p.HighConfidenceCount, p.DuplicateCount,
		p.Centroid.Lat, p.Centroid.Lon,
		p.WindowStart.Format(time.RFC3339), p.WindowEnd.Format(time.RFC3339))
	return nil
}

// Dispatcher fans one payload out to all registered notifiers.
type Dispatcher struct {
	notifiers []Notifier
}

func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	if len(notifiers) == 0 {
		notifiers = []Notifier{LogNotifier{}}
	}
	return &Dispatcher{notifiers: notifiers}
}

// Dispatch delivers the payload to every notifier concurrently and returns
// the first delivery error. A failed channel does not block the others.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(d.notifiers))

	for _, n := range d.notifiers {
		wg.Add(1)
		go func(n Notifier) {
			defer wg.Done()
			if err := n.Notify(ctx, p); err != nil {
				log.Printf("Alert delivery failed for candidate %s: %v", p.CandidateID, err)
				errCh <- err
			}
		}(n)
	}

	wg.Wait()
	close(errCh)
	return <-errCh
}
