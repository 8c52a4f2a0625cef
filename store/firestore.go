package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"coastwatch/types"
)

const (
	postsCollection      = "posts"
	candidatesCollection = "candidates"
	batchesCollection    = "batches"
)

var (
	client     *firestore.Client
	clientOnce sync.Once
)

// InitFirestore initializes and returns the singleton Firestore client.
// Credentials come base64-encoded from FIREBASE_CREDENTIALS.
func InitFirestore() (*firestore.Client, error) {
	var initErr error

	clientOnce.Do(func() {
		encodedCreds := os.Getenv("FIREBASE_CREDENTIALS")
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			initErr = fmt.Errorf("failed to decode Firestore credentials: %w", err)
			return
		}

		opt := option.WithCredentialsJSON(creds)
		app, err := firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			initErr = fmt.Errorf("error initializing Firebase app: %w", err)
			return
		}

		client, err = app.Firestore(context.Background())
		if err != nil {
			initErr = fmt.Errorf("error getting Firestore client: %w", err)
			return
		}
	})

	return client, initErr
}

// CloseFirestore closes the singleton client.
func CloseFirestore() {
	if client != nil {
		client.Close()
	}
}

// FirestoreStore implements Store on top of Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// SavePosts writes the batch's posts with a BulkWriter. Non-transactional:
// post documents are keyed by post id, so re-writes are harmless.
func (s *FirestoreStore) SavePosts(ctx context.Context, posts []types.ClassifiedPost) error {
	if len(posts) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	collRef := s.client.Collection(postsCollection)

	enqueued := 0
	for i := range posts {
		p := posts[i]
		if p.ID == "" {
			log.Printf("Warning: skipping post with empty id")
			continue
		}
		if _, err := bw.Set(collRef.Doc(p.ID), p); err != nil {
			return fmt.Errorf("enqueueing post %s: %w", p.ID, err)
		}
		enqueued++
	}
	bw.Flush()

	log.Printf("Saved %d posts to collection '%s'", enqueued, postsCollection)
	return nil
}

func (s *FirestoreStore) LoadOpenCandidates(ctx context.Context) ([]types.HotspotCandidate, error) {
	var open []types.HotspotCandidate

	iter := s.client.Collection(candidatesCollection).
		Where("status", "==", string(types.Pending)).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating candidates collection: %w", err)
		}

		var c types.HotspotCandidate
		if err := doc.DataTo(&c); err != nil {
			log.Printf("Warning: error converting candidate %s: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		c.ID = doc.Ref.ID
		open = append(open, c)
	}
	return open, nil
}

func (s *FirestoreStore) GetCandidate(ctx context.Context, id string) (types.HotspotCandidate, error) {
	var c types.HotspotCandidate

	docSnap, err := s.client.Collection(candidatesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return c, ErrNotFound
		}
		return c, fmt.Errorf("error getting candidate %s: %w", id, err)
	}

	if err := docSnap.DataTo(&c); err != nil {
		return c, fmt.Errorf("error converting candidate %s: %w", id, err)
	}
	c.ID = docSnap.Ref.ID
	return c, nil
}

func (s *FirestoreStore) SaveCandidate(ctx context.Context, c types.HotspotCandidate) error {
	if c.ID == "" {
		return fmt.Errorf("cannot save candidate with empty id")
	}
	_, err := s.client.Collection(candidatesCollection).Doc(c.ID).Set(ctx, c)
	if err != nil {
		return fmt.Errorf("error saving candidate %s: %w", c.ID, err)
	}
	return nil
}

func (s *FirestoreStore) SaveCandidates(ctx context.Context, cs []types.HotspotCandidate) error {
	if len(cs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	collRef := s.client.Collection(candidatesCollection)

	for i := range cs {
		c := cs[i]
		if c.ID == "" {
			log.Printf("Warning: skipping candidate with empty id")
			continue
		}
		if _, err := bw.Set(collRef.Doc(c.ID), c); err != nil {
			return fmt.Errorf("enqueueing candidate %s: %w", c.ID, err)
		}
	}
	bw.Flush()
	return nil
}

func (s *FirestoreStore) SaveBatchRun(ctx context.Context, run types.BatchRun) error {
	if run.ID == "" {
		return fmt.Errorf("cannot save batch run with empty id")
	}
	_, err := s.client.Collection(batchesCollection).Doc(run.ID).Set(ctx, run)
	if err != nil {
		return fmt.Errorf("error saving batch run %s: %w", run.ID, err)
	}
	return nil
}

func (s *FirestoreStore) RecentBatchRuns(ctx context.Context, limit int) ([]types.BatchRun, error) {
	var runs []types.BatchRun

	iter := s.client.Collection(batchesCollection).
		OrderBy("startedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating batches collection: %w", err)
		}

		var run types.BatchRun
		if err := doc.DataTo(&run); err != nil {
			log.Printf("Warning: error converting batch run %s: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		run.ID = doc.Ref.ID
		runs = append(runs, run)
	}
	return runs, nil
}
