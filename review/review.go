// Package review owns the hotspot validation state machine. Every status
// transition out of Pending happens here: analyst decisions confirm or
// reject, the batch orchestrator expires lapsed candidates through Expire.
package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"coastwatch/alert"
	"coastwatch/store"
	"coastwatch/types"
)

var (
	ErrUnknownTicket     = errors.New("review: unknown ticket")
	ErrInvalidTransition = errors.New("review: candidate is not pending")
	ErrInvalidOutcome    = errors.New("review: outcome must be confirmed or rejected")
)

// Workflow queues surfaced candidates for analyst review and applies the
// resulting decisions. Tickets live in memory; candidate state is the
// durable record, so a restart just means surfaced candidates get
// resubmitted on the next batch pass.
type Workflow struct {
	store      store.Store
	dispatcher *alert.Dispatcher
	clock      clockwork.Clock

	mu      sync.Mutex
	tickets map[string]types.ReviewTicket // ticket id -> ticket
	byCand  map[string]string             // candidate id -> ticket id

	// stateMu serializes every candidate status write: analyst decisions,
	// expiry, and the batch's end-of-run candidate save all hold it, so a
	// decision landing mid-batch can never be overwritten.
	stateMu sync.Mutex
}

func New(st store.Store, dispatcher *alert.Dispatcher, clock clockwork.Clock) *Workflow {
	return &Workflow{
		store:      st,
		dispatcher: dispatcher,
		clock:      clock,
		tickets:    make(map[string]types.ReviewTicket),
		byCand:     make(map[string]string),
	}
}

// SubmitForReview queues a surfaced candidate. One ticket per candidate id:
// resubmitting after the candidate grows updates the existing ticket's
// counts instead of duplicating it.
func (w *Workflow) SubmitForReview(c types.HotspotCandidate) types.ReviewTicket {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	if tid, ok := w.byCand[c.ID]; ok {
		t := w.tickets[tid]
		t.PostCount = c.PostCount
		t.HighConfidenceCount = c.HighConfidenceCount
		t.Urgency = c.Urgency
		t.Centroid = c.Centroid
		t.UpdatedAt = now
		w.tickets[tid] = t
		return t
	}

	t := types.ReviewTicket{
		ID:                  uuid.NewString(),
		CandidateID:         c.ID,
		HazardType:          c.HazardType,
		Urgency:             c.Urgency,
		PostCount:           c.PostCount,
		HighConfidenceCount: c.HighConfidenceCount,
		Centroid:            c.Centroid,
		SubmittedAt:         now,
		UpdatedAt:           now,
	}
	w.tickets[t.ID] = t
	w.byCand[c.ID] = t.ID
	log.Printf("Queued candidate %s for review (%s, %d posts)", c.ID, c.HazardType, c.PostCount)
	return t
}

// PendingTickets returns the current review queue.
func (w *Workflow) PendingTickets() []types.ReviewTicket {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]types.ReviewTicket, 0, len(w.tickets))
	for _, t := range w.tickets {
		out = append(out, t)
	}
	return out
}

// Decide applies an analyst outcome to the ticket's candidate. Confirming
// dispatches the alert at most once: the Dispatched flag is persisted with
// the status change before any notifier runs, so a crashed dispatch is
// never retried into a duplicate alert.
func (w *Workflow) Decide(ctx context.Context, ticketID string, outcome types.HotspotStatus) (types.HotspotCandidate, error) {
	if outcome != types.Confirmed && outcome != types.Rejected {
		return types.HotspotCandidate{}, ErrInvalidOutcome
	}

	w.mu.Lock()
	t, ok := w.tickets[ticketID]
	w.mu.Unlock()
	if !ok {
		return types.HotspotCandidate{}, ErrUnknownTicket
	}

	c, err := w.applyOutcome(ctx, t.CandidateID, outcome)
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			w.dropTicket(ticketID)
			return c, err
		}
		return types.HotspotCandidate{}, err
	}
	w.dropTicket(ticketID)

	if c.Status == types.Confirmed && c.Dispatched {
		payload := alert.FromCandidate(c, w.clock.Now())
		if err := w.dispatcher.Dispatch(ctx, payload); err != nil {
			// The decision is already durable; a delivery failure is
			// logged, not rolled back.
			log.Printf("Alert dispatch failed for candidate %s: %v", c.ID, err)
		}
	}

	log.Printf("Candidate %s resolved as %s", c.ID, c.Status)
	return c, nil
}

// applyOutcome performs the Pending -> outcome transition under the state
// lock, flipping the dispatch flag in the same durable write for confirmed
// candidates.
func (w *Workflow) applyOutcome(ctx context.Context, candidateID string, outcome types.HotspotStatus) (types.HotspotCandidate, error) {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	c, err := w.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return types.HotspotCandidate{}, fmt.Errorf("loading candidate %s: %w", candidateID, err)
	}
	if c.Status != types.Pending {
		return c, ErrInvalidTransition
	}

	c.Status = outcome
	if outcome == types.Confirmed && !c.Dispatched {
		c.Dispatched = true
	}
	if err := w.store.SaveCandidate(ctx, c); err != nil {
		return types.HotspotCandidate{}, fmt.Errorf("saving candidate %s: %w", c.ID, err)
	}
	return c, nil
}

// Expire moves a lapsed pending candidate to Expired and drops its ticket
// if one exists. The stored record wins over the batch's snapshot: a
// candidate decided mid-batch stays terminal and ErrInvalidTransition is
// returned.
func (w *Workflow) Expire(ctx context.Context, c types.HotspotCandidate) (types.HotspotCandidate, error) {
	w.stateMu.Lock()

	if stored, err := w.store.GetCandidate(ctx, c.ID); err == nil {
		c = stored
	} else if !errors.Is(err, store.ErrNotFound) {
		w.stateMu.Unlock()
		return types.HotspotCandidate{}, fmt.Errorf("loading candidate %s: %w", c.ID, err)
	}
	if c.Status != types.Pending {
		w.stateMu.Unlock()
		return c, ErrInvalidTransition
	}

	c.Status = types.Expired
	if err := w.store.SaveCandidate(ctx, c); err != nil {
		w.stateMu.Unlock()
		return types.HotspotCandidate{}, fmt.Errorf("saving candidate %s: %w", c.ID, err)
	}
	w.stateMu.Unlock()

	w.mu.Lock()
	if tid, ok := w.byCand[c.ID]; ok {
		delete(w.tickets, tid)
		delete(w.byCand, c.ID)
	}
	w.mu.Unlock()

	log.Printf("Candidate %s expired (window closed, %d posts)", c.ID, c.PostCount)
	return c, nil
}

// SaveOpen persists the batch's updated open candidate set. Any candidate
// whose stored status left Pending since the batch loaded it is skipped,
// so the save cannot revert an analyst decision. Returns the candidates
// actually written.
func (w *Workflow) SaveOpen(ctx context.Context, cs []types.HotspotCandidate) ([]types.HotspotCandidate, error) {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	kept := make([]types.HotspotCandidate, 0, len(cs))
	for _, c := range cs {
		stored, err := w.store.GetCandidate(ctx, c.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("loading candidate %s: %w", c.ID, err)
		}
		if err == nil && stored.Status != types.Pending {
			log.Printf("Candidate %s resolved as %s mid-batch, keeping the stored record", c.ID, stored.Status)
			continue
		}
		kept = append(kept, c)
	}

	if err := w.store.SaveCandidates(ctx, kept); err != nil {
		return nil, fmt.Errorf("saving candidates: %w", err)
	}
	return kept, nil
}

func (w *Workflow) dropTicket(ticketID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.tickets[ticketID]; ok {
		delete(w.byCand, t.CandidateID)
		delete(w.tickets, ticketID)
	}
}
