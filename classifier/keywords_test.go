package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coastwatch/types"
)

func keywordPost(lang, text string) types.LocatedPost {
	return types.LocatedPost{
		NormalizedPost: types.NormalizedPost{
			Post: types.Post{ID: "k1", Language: lang, Text: text},
		},
	}
}

func TestFallbackClassifyEnglish(t *testing.T) {
	got := fallbackClassify(keywordPost("en", "Flood water rising fast, we are trapped, please help"))
	assert.True(t, got.Relevance)
	assert.Equal(t, types.Flood, got.HazardType)
	assert.Equal(t, types.High, got.Urgency, "urgent terms raise urgency")
	assert.Equal(t, types.ClassifiedByKeyword, got.Source)
	assert.LessOrEqual(t, got.Confidence, FallbackCeiling)
	assert.Greater(t, got.Confidence, 0.0)
}

func TestFallbackClassifyVernacular(t *testing.T) {
	cases := []struct {
		lang   string
		text   string
		hazard types.HazardType
	}{
		{"hi", "शहर में बाढ़ आ गई है", types.Flood},
		{"ta", "கடலில் சுனாமி எச்சரிக்கை", types.Tsunami},
		{"te", "తుఫాను గాలులు బలంగా ఉన్నాయి", types.Cyclone},
		{"bn", "উপকূলে জলোচ্ছ্বাস শুরু হয়েছে", types.StormSurge},
		{"ml", "കടൽക്ഷോഭം രൂക്ഷമാണ്", types.HighWave},
	}
	for _, c := range cases {
		got := fallbackClassify(keywordPost(c.lang, c.text))
		assert.True(t, got.Relevance, "text: %q", c.text)
		assert.Equal(t, c.hazard, got.HazardType, "text: %q", c.text)
	}
}

func TestFallbackClassifyCodeMixedFallsThroughToEnglish(t *testing.T) {
	got := fallbackClassify(keywordPost("hi", "cyclone alert issued for the coast"))
	assert.True(t, got.Relevance)
	assert.Equal(t, types.Cyclone, got.HazardType)
}

func TestFallbackClassifyNoMatch(t *testing.T) {
	got := fallbackClassify(keywordPost("en", "great chai at the beach stall today"))
	assert.False(t, got.Relevance)
	assert.Equal(t, types.None, got.HazardType)
	assert.Zero(t, got.Confidence)
}

func TestFallbackConfidenceNeverExceedsCeiling(t *testing.T) {
	// Stacks many keywords to push the raw score past the cap.
	got := fallbackClassify(keywordPost("en",
		"flood flooding flooded tsunami cyclone storm surge high waves waterlogging"))
	assert.Equal(t, FallbackCeiling, got.Confidence)
	assert.Equal(t, types.Medium, got.Urgency)
}
