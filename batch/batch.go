// Package batch runs the pipeline end to end: dedup, location resolution,
// classification, hotspot aggregation, review submission, persistence. One
// run processes one batch of raw posts; runs never overlap.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"coastwatch/dedup"
	"coastwatch/detection"
	"coastwatch/resolve"
	"coastwatch/review"
	"coastwatch/store"
	"coastwatch/types"
)

// ErrBatchInFlight is returned when a run is requested while another is
// still executing.
var ErrBatchInFlight = errors.New("batch: a run is already in flight")

const defaultConcurrency = 8

// Classifier is the slice of the classification client the orchestrator
// needs. *classifier.Classifier satisfies it.
type Classifier interface {
	Classify(ctx context.Context, post types.LocatedPost) (types.ClassifiedPost, error)
}

type Orchestrator struct {
	classifier  Classifier
	resolver    *resolve.Resolver
	aggregator  *detection.Aggregator
	workflow    *review.Workflow
	store       store.Store
	clock       clockwork.Clock
	concurrency int

	running atomic.Bool
}

func NewOrchestrator(
	cl Classifier,
	rs *resolve.Resolver,
	ag *detection.Aggregator,
	wf *review.Workflow,
	st store.Store,
	clock clockwork.Clock,
) *Orchestrator {
	return &Orchestrator{
		classifier:  cl,
		resolver:    rs,
		aggregator:  ag,
		workflow:    wf,
		store:       st,
		clock:       clock,
		concurrency: defaultConcurrency,
	}
}

type classifyResult struct {
	post types.ClassifiedPost
	err  error
}

// RunBatch processes one batch of raw posts. Per-post failures are recorded
// on the run and the batch continues; persistence failures abort the run
// with a BatchFailed record. At most one run executes at a time.
func (o *Orchestrator) RunBatch(ctx context.Context, posts []types.Post) (types.BatchRun, error) {
	if !o.running.CompareAndSwap(false, true) {
		return types.BatchRun{}, ErrBatchInFlight
	}
	defer o.running.Store(false)

	run := types.BatchRun{
		ID:            uuid.NewString(),
		StartedAt:     o.clock.Now(),
		Status:        types.BatchRunning,
		IngestedCount: len(posts),
		HazardCounts:  make(map[types.HazardType]int),
	}
	log.Printf("Batch %s: ingesting %d posts", run.ID, len(posts))

	normalized, itemErrs := dedup.Run(posts)
	for _, e := range itemErrs {
		run.RecordError(e.PostID, "dedup", e.Reason)
	}

	var canonicals, duplicates []types.LocatedPost
	for _, n := range normalized {
		located := o.resolver.Resolve(n)
		if n.IsDuplicateOf != "" {
			run.DuplicateCount++
			duplicates = append(duplicates, located)
			continue
		}
		canonicals = append(canonicals, located)
	}

	classified, partial := o.classifyAll(ctx, canonicals, &run)

	// Duplicates inherit their canonical's classification so they persist
	// with consistent labels; the aggregator only ever counts them as
	// corroboration.
	byID := make(map[string]types.ClassifiedPost, len(classified))
	for _, c := range classified {
		byID[c.ID] = c
	}
	for _, located := range duplicates {
		dup := types.ClassifiedPost{LocatedPost: located, HazardType: types.None, Urgency: types.Low}
		if canonical, ok := byID[located.IsDuplicateOf]; ok {
			dup.Relevance = canonical.Relevance
			dup.HazardType = canonical.HazardType
			dup.Urgency = canonical.Urgency
			dup.Confidence = canonical.Confidence
			dup.Source = canonical.Source
		}
		classified = append(classified, dup)
	}

	for _, c := range classified {
		if c.IsDuplicateOf != "" {
			continue
		}
		if c.Source == types.ClassifiedByModel {
			run.ClassifiedCount++
		}
		if c.Source == types.ClassifiedByKeyword {
			run.FallbackCount++
		}
		if c.Relevance {
			run.HazardCounts[c.HazardType]++
		}
	}

	open, err := o.store.LoadOpenCandidates(ctx)
	if err != nil {
		return o.fail(ctx, run, fmt.Errorf("loading open candidates: %w", err))
	}

	result := o.aggregator.Aggregate(classified, open)

	for _, lapsed := range result.Lapsed {
		if _, err := o.workflow.Expire(ctx, lapsed); err != nil {
			// An analyst decided the candidate between the load and the
			// sweep; the stored terminal state wins.
			if errors.Is(err, review.ErrInvalidTransition) {
				continue
			}
			return o.fail(ctx, run, fmt.Errorf("expiring candidate %s: %w", lapsed.ID, err))
		}
	}

	if err := o.store.SavePosts(ctx, classified); err != nil {
		return o.fail(ctx, run, fmt.Errorf("saving posts: %w", err))
	}

	// The workflow owns the save so a decision landing mid-batch is never
	// reverted; only candidates still Pending come back.
	kept, err := o.workflow.SaveOpen(ctx, result.Open)
	if err != nil {
		return o.fail(ctx, run, fmt.Errorf("saving candidates: %w", err))
	}
	for _, c := range kept {
		if c.Surfaced {
			run.HotspotCount++
			o.workflow.SubmitForReview(c)
		}
	}

	run.EndedAt = o.clock.Now()
	run.Status = types.BatchSucceeded
	if partial || len(run.Errors) > 0 {
		run.Status = types.BatchPartial
	}
	if err := o.store.SaveBatchRun(ctx, run); err != nil {
		return run, fmt.Errorf("saving batch run: %w", err)
	}

	log.Printf("Batch %s: %s (%d ingested, %d duplicates, %d model, %d fallback, %d surfaced, %d errors)",
		run.ID, run.Status, run.IngestedCount, run.DuplicateCount,
		run.ClassifiedCount, run.FallbackCount, run.HotspotCount, len(run.Errors))
	return run, nil
}

// classifyAll fans canonical posts out to the classifier with bounded
// concurrency. Classification errors are recoverable: the fallback result
// still flows downstream and the error lands on the run. Every post gets a
// result even under a cancelled context (the classifier bails out fast and
// degrades to the keyword fallback), so a cut-short run still persists the
// whole batch and is safe to resume.
func (o *Orchestrator) classifyAll(ctx context.Context, posts []types.LocatedPost, run *types.BatchRun) ([]types.ClassifiedPost, bool) {
	resultsChan := make(chan classifyResult, len(posts))
	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup

	for _, p := range posts {
		wg.Add(1)
		post := p
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			classified, err := o.classifier.Classify(ctx, post)
			resultsChan <- classifyResult{post: classified, err: err}
		}()
	}

	wg.Wait()
	close(resultsChan)

	classified := make([]types.ClassifiedPost, 0, len(posts))
	for r := range resultsChan {
		if r.err != nil {
			run.RecordError(r.post.ID, "classify", r.err.Error())
		}
		classified = append(classified, r.post)
	}
	return classified, ctx.Err() != nil
}

// fail finalizes the run as BatchFailed and records it best-effort.
func (o *Orchestrator) fail(ctx context.Context, run types.BatchRun, err error) (types.BatchRun, error) {
	run.EndedAt = o.clock.Now()
	run.Status = types.BatchFailed
	run.RecordError("", "batch", err.Error())
	if saveErr := o.store.SaveBatchRun(ctx, run); saveErr != nil {
		log.Printf("Batch %s: failed to record failed run: %v", run.ID, saveErr)
	}
	log.Printf("Batch %s: failed: %v", run.ID, err)
	return run, err
}
