package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coastwatch/types"
)

func post(id, text string, at time.Time) types.Post {
	return types.Post{ID: id, Text: text, Language: "en", CreatedAt: at}
}

func TestNormalizeStripsNoise(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Heavy flooding in Chennai!!!", "heavy flooding in chennai"},
		{"RT @ndma: Heavy flooding in Chennai", "heavy flooding in chennai"},
		{"Heavy   flooding\nin Chennai https://t.co/abc123", "heavy flooding in chennai"},
		{"@someone @other Heavy flooding, in Chennai...", "heavy flooding in chennai"},
		{"चेन्नई में बाढ़!", "चेन्नई में बाढ़"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input: %q", c.in)
	}
}

func TestRunFlagsDuplicatesAgainstEarliest(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	posts := []types.Post{
		post("b", "Waves hitting the Marina seawall, stay away", base.Add(2*time.Minute)),
		post("a", "Waves hitting the Marina seawall stay away!", base),
		post("c", "RT @a: Waves hitting the Marina seawall, stay away", base.Add(5*time.Minute)),
		post("d", "completely different text about the harbour", base),
	}

	normalized, errs := Run(posts)
	require.Empty(t, errs)
	require.Len(t, normalized, 4)

	byID := map[string]types.NormalizedPost{}
	for _, n := range normalized {
		byID[n.ID] = n
	}

	assert.Empty(t, byID["a"].IsDuplicateOf, "earliest post is canonical")
	assert.Equal(t, "a", byID["b"].IsDuplicateOf)
	assert.Equal(t, "a", byID["c"].IsDuplicateOf)
	assert.Empty(t, byID["d"].IsDuplicateOf)

	assert.Equal(t, byID["a"].DedupKey, byID["b"].DedupKey)
	assert.NotEqual(t, byID["a"].DedupKey, byID["d"].DedupKey)
}

func TestRunTieBreaksByID(t *testing.T) {
	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	posts := []types.Post{
		post("post-2", "storm surge warning for Paradip", at),
		post("post-1", "Storm surge warning for Paradip!", at),
	}

	normalized, errs := Run(posts)
	require.Empty(t, errs)

	byID := map[string]types.NormalizedPost{}
	for _, n := range normalized {
		byID[n.ID] = n
	}
	assert.Empty(t, byID["post-1"].IsDuplicateOf)
	assert.Equal(t, "post-1", byID["post-2"].IsDuplicateOf)
}

func TestRunReportsMalformedPerItem(t *testing.T) {
	at := time.Now().UTC()
	posts := []types.Post{
		post("", "no id here", at),
		post("ok", "water entering houses near the beach road", at),
		post("blank", "   ", at),
		post("noise", "@a @b https://x.test/y", at),
	}

	normalized, errs := Run(posts)
	require.Len(t, normalized, 1)
	assert.Equal(t, "ok", normalized[0].ID)

	require.Len(t, errs, 3)
	reasons := map[string]string{}
	for _, e := range errs {
		reasons[e.PostID] = e.Reason
	}
	assert.Equal(t, "missing id", reasons[""])
	assert.Equal(t, "missing text", reasons["blank"])
	assert.Equal(t, "empty after normalization", reasons["noise"])
}

func TestRunIsDeterministicAcrossInputOrder(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	a := post("a", "cyclone making landfall near Puri", base)
	b := post("b", "Cyclone making landfall near Puri.", base.Add(time.Minute))

	first, _ := Run([]types.Post{a, b})
	second, _ := Run([]types.Post{b, a})

	find := func(ps []types.NormalizedPost, id string) types.NormalizedPost {
		for _, p := range ps {
			if p.ID == id {
				return p
			}
		}
		t.Fatalf("post %s not found", id)
		return types.NormalizedPost{}
	}

	assert.Equal(t, find(first, "b").IsDuplicateOf, find(second, "b").IsDuplicateOf)
	assert.Empty(t, find(second, "a").IsDuplicateOf)
}
