// Package classifier wraps the external hazard-classification model and
// normalizes its output into the fixed ClassifiedPost schema. The external
// service being down for a whole batch is survivable: every post still gets
// a classification through the keyword fallback.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"coastwatch/types"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 3
	baseBackoff       = 200 * time.Millisecond
	maxBackoff        = 5 * time.Second
)

var errMalformed = errors.New("malformed model response")

const systemPrompt = `You are an expert disaster response analyst monitoring social media for coastal hazards in India. Classify the post and respond with ONLY a valid JSON object with these fields:
- "relevance": "hazard" or "non-hazard"
- "hazard_type": "Flood", "Tsunami", "High Wave", "Storm Surge", "Cyclone" or "Other" (only when relevance is "hazard")
- "urgency": "Low", "Medium" or "High"
- "confidence": a decimal between 0.0 and 1.0

"hazard" means the post describes an actual water-related emergency happening now. News recaps, forecasts, historical events and jokes are "non-hazard". Urgency "High" means immediate danger or calls for help.`

// ChatClient is the slice of the OpenAI-compatible client we use.
// *openai.Client satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Classifier struct {
	Client     ChatClient
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Limiter    *rate.Limiter
}

func New(client ChatClient) *Classifier {
	return &Classifier{
		Client:     client,
		Model:      openai.GPT4oMini,
		Timeout:    defaultTimeout,
		MaxRetries: defaultMaxRetries,
		// Paces requests against the provider's rate limits; the batch
		// worker pool bounds concurrency on top of this.
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Classify runs the model call with timeout, retry and backoff. On
// exhausted retries (or a non-retryable failure) it degrades to the keyword
// fallback and reports the model error alongside the still-usable result.
func (c *Classifier) Classify(ctx context.Context, post types.LocatedPost) (types.ClassifiedPost, error) {
	backoff := baseBackoff
	malformedBudget := 1
	var lastErr error

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if err := c.Limiter.Wait(ctx); err != nil {
			lastErr = err
			break
		}

		result, err := c.callModel(ctx, post)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(err, errMalformed) {
			// A bad shape gets exactly one more chance.
			if malformedBudget == 0 {
				break
			}
			malformedBudget--
		} else if !transient(err) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if attempt < c.MaxRetries {
			if !sleepWithContext(ctx, backoff) {
				break
			}
			backoff = nextBackoff(backoff)
		}
	}

	log.Printf("Model classification failed for post %s, using keyword fallback: %v", post.ID, lastErr)
	return fallbackClassify(post), fmt.Errorf("model classification for post %s: %w", post.ID, lastErr)
}

func (c *Classifier) callModel(ctx context.Context, post types.LocatedPost) (types.ClassifiedPost, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	resp, err := c.Client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(post)},
		},
		MaxTokens:   150,
		Temperature: 0.1,
	})
	if err != nil {
		return types.ClassifiedPost{}, err
	}
	if len(resp.Choices) == 0 {
		return types.ClassifiedPost{}, fmt.Errorf("%w: no choices", errMalformed)
	}

	raw, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return types.ClassifiedPost{}, err
	}
	return raw.toClassified(post), nil
}

func buildPrompt(post types.LocatedPost) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Post (language %s): %q", post.Language, post.Text)
	if post.PlaceName != "" {
		fmt.Fprintf(&b, "\nLocation context: %s, India", post.PlaceName)
	} else if post.Location != nil {
		fmt.Fprintf(&b, "\nLocation context: %.4f, %.4f", post.Location.Lat, post.Location.Lon)
	}
	return b.String()
}

// rawResult is the wire schema the model must produce. Anything that does
// not validate is treated as a transient failure, never silently coerced.
type rawResult struct {
	Relevance  string   `json:"relevance"`
	HazardType string   `json:"hazard_type"`
	Urgency    string   `json:"urgency"`
	Confidence *float64 `json:"confidence"`
}

var hazardNames = map[string]types.HazardType{
	"Flood":       types.Flood,
	"Tsunami":     types.Tsunami,
	"High Wave":   types.HighWave,
	"HighWave":    types.HighWave,
	"Storm Surge": types.StormSurge,
	"StormSurge":  types.StormSurge,
	"Cyclone":     types.Cyclone,
	"Other":       types.Other,
}

func parseResponse(content string) (rawResult, error) {
	var raw rawResult

	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return raw, fmt.Errorf("%w: %v", errMalformed, err)
	}

	if raw.Relevance != "hazard" && raw.Relevance != "non-hazard" {
		return raw, fmt.Errorf("%w: bad relevance %q", errMalformed, raw.Relevance)
	}
	if raw.Confidence == nil || *raw.Confidence < 0 || *raw.Confidence > 1 {
		return raw, fmt.Errorf("%w: confidence missing or out of range", errMalformed)
	}
	switch raw.Urgency {
	case "Low", "Medium", "High":
	default:
		return raw, fmt.Errorf("%w: bad urgency %q", errMalformed, raw.Urgency)
	}
	if raw.Relevance == "hazard" {
		if _, ok := hazardNames[raw.HazardType]; !ok {
			return raw, fmt.Errorf("%w: bad hazard_type %q", errMalformed, raw.HazardType)
		}
	}
	return raw, nil
}

func (r rawResult) toClassified(post types.LocatedPost) types.ClassifiedPost {
	out := types.ClassifiedPost{
		LocatedPost: post,
		Relevance:   r.Relevance == "hazard",
		HazardType:  types.None,
		Urgency:     types.Urgency(r.Urgency),
		Confidence:  *r.Confidence,
		Source:      types.ClassifiedByModel,
	}
	// Non-relevant posts always carry HazardType None, whatever the model
	// put in the field.
	if out.Relevance {
		out.HazardType = hazardNames[r.HazardType]
	}
	return out
}

func transient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500 {
			return true
		}
		// Auth/validation errors will not fix themselves this batch.
		return false
	}
	// Timeouts, connection resets and anything else network-shaped.
	return true
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
