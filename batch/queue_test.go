package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coastwatch/types"
)

func TestQueueCollapsesRepeatIDs(t *testing.T) {
	q := NewQueue()

	accepted := q.Add(
		types.Post{ID: "a", Text: "one"},
		types.Post{ID: "b", Text: "two"},
		types.Post{ID: "a", Text: "one again"},
		types.Post{ID: "", Text: "no id"},
	)
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 2, q.Len())
}

func TestQueueDrainEmptiesBuffer(t *testing.T) {
	q := NewQueue()
	q.Add(types.Post{ID: "a", Text: "one"})

	drained := q.Drain()
	assert.Len(t, drained, 1)
	assert.Zero(t, q.Len())

	// Ids are free again after a drain; the pipeline's own dedup decides
	// what happens to re-submissions.
	assert.Equal(t, 1, q.Add(types.Post{ID: "a", Text: "one"}))
}
