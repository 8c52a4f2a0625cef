package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"coastwatch/types"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	rtPattern      = regexp.MustCompile(`^rt\s+`)
)

// ItemError reports a single malformed post. Malformed input is never
// batch-fatal; the caller records it and moves on.
type ItemError struct {
	PostID string
	Reason string
}

// HashString hashes a given string using SHA-256.
func HashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Normalize lowercases the text, strips URLs and mentions, drops
// punctuation and collapses whitespace so that retweets and copy-text
// reposts hash to the same key.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = urlPattern.ReplaceAllString(t, " ")
	t = mentionPattern.ReplaceAllString(t, " ")
	t = strings.Map(func(r rune) rune {
		// Marks are kept so Indic scripts survive normalization intact.
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, t)
	t = strings.Join(strings.Fields(t), " ")
	t = rtPattern.ReplaceAllString(t, "")
	return t
}

// Key returns the dedup key for a post text.
func Key(text string) string {
	return HashString(Normalize(text))
}

// Run collapses near-identical posts into canonical/duplicate pairs. All
// well-formed posts are returned in input order; duplicates are flagged via
// IsDuplicateOf, never discarded. The canonical post per key is the earliest
// by CreatedAt, ties broken by lexical id.
func Run(posts []types.Post) ([]types.NormalizedPost, []ItemError) {
	var errs []ItemError
	normalized := make([]types.NormalizedPost, 0, len(posts))

	for _, p := range posts {
		if p.ID == "" {
			errs = append(errs, ItemError{PostID: p.ID, Reason: "missing id"})
			continue
		}
		if strings.TrimSpace(p.Text) == "" {
			errs = append(errs, ItemError{PostID: p.ID, Reason: "missing text"})
			continue
		}
		text := Normalize(p.Text)
		if text == "" {
			errs = append(errs, ItemError{PostID: p.ID, Reason: "empty after normalization"})
			continue
		}
		normalized = append(normalized, types.NormalizedPost{
			Post:           p,
			NormalizedText: text,
			DedupKey:       HashString(text),
		})
	}

	// Elect one canonical post per dedup key, independent of input order.
	byKey := make(map[string][]int)
	for i := range normalized {
		byKey[normalized[i].DedupKey] = append(byKey[normalized[i].DedupKey], i)
	}
	for _, idxs := range byKey {
		if len(idxs) < 2 {
			continue
		}
		sort.Slice(idxs, func(a, b int) bool {
			pa, pb := normalized[idxs[a]], normalized[idxs[b]]
			if !pa.CreatedAt.Equal(pb.CreatedAt) {
				return pa.CreatedAt.Before(pb.CreatedAt)
			}
			return pa.ID < pb.ID
		})
		canonical := normalized[idxs[0]].ID
		for _, i := range idxs[1:] {
			normalized[i].IsDuplicateOf = canonical
		}
	}

	return normalized, errs
}
