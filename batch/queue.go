package batch

import (
	"sync"

	"coastwatch/types"
)

// Queue buffers ingested posts between batch runs. Handlers append to it as
// posts arrive; the cron pass drains it into RunBatch. Duplicate ids within
// the buffer collapse to the first arrival.
type Queue struct {
	mu    sync.Mutex
	posts []types.Post
	seen  map[string]bool
}

func NewQueue() *Queue {
	return &Queue{seen: make(map[string]bool)}
}

// Add buffers posts and returns how many were accepted.
func (q *Queue) Add(posts ...types.Post) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	accepted := 0
	for _, p := range posts {
		if p.ID == "" || q.seen[p.ID] {
			continue
		}
		q.seen[p.ID] = true
		q.posts = append(q.posts, p)
		accepted++
	}
	return accepted
}

// Drain empties the buffer and returns its contents.
func (q *Queue) Drain() []types.Post {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.posts
	q.posts = nil
	q.seen = make(map[string]bool)
	return out
}

// Len reports the number of buffered posts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.posts)
}
