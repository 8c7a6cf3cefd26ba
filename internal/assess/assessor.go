// Package assess implements the sentiment assessment of cleaned lyrics
// through an external generative-language service under a strict
// response contract with retry and fallback.
package assess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/model"
)

// rubricPrompt is the fixed moderation rubric sent as the system
// message. Target audience and criteria come from the station's
// moderation policy; profanity is disregarded here because it is
// filtered separately by the text analysis stage.
const rubricPrompt = `You evaluate song lyrics for a high school radio station (students aged 16-21).
Classify each song into exactly one category:
- "appropriate": can be played
- "caution": requires manual review
- "reject": automatically rejected

Criteria:
- Reject content that is explicitly offensive or promotes harmful behavior.
- Allow content that discusses personal struggles, emotions, or social issues in a non-harmful way.
- Be lenient towards mild stereotypes or generational comments if the overall message is positive.
- Reject content that mocks or demeans individuals based on appearance or other personal traits, even humorously.
- Reject songs typically intended for young children.
- Consider the overall tone and message of the song.
- Disregard profanity; it is filtered separately.

Respond with a single JSON object and nothing else:
{"category": string, "confidence": number between 0 and 1, "explanation": one concise sentence, "flags": array of short concern tags}`

// jsonBlobRe extracts the first JSON object from a response that wraps
// it in prose or code fences despite the contract.
var jsonBlobRe = regexp.MustCompile(`(?s)\{.*\}`)

// Assessor queries the generative-language service and enforces the
// response schema, retrying transient failures with exponential backoff
// and degrading to a conservative fallback when the service stays
// unusable. Safe for concurrent use across pipeline runs.
type Assessor struct {
	client          Client
	timeout         time.Duration
	maxRetries      uint64
	initialInterval time.Duration // shortened in tests
	logger          *zap.Logger
}

// NewAssessor creates an assessor around the given service client
func NewAssessor(client Client, cfg model.LLMConfig, logger *zap.Logger) *Assessor {
	return &Assessor{
		client:          client,
		timeout:         cfg.Timeout,
		maxRetries:      uint64(cfg.MaxRetries),
		initialInterval: 500 * time.Millisecond,
		logger:          logger,
	}
}

// Assess produces a sentiment assessment for the cleaned lyrics. It
// never returns an error for remote failures: when retries exhaust, the
// fixed fallback assessment is returned so moderation can proceed.
func (a *Assessor) Assess(ctx context.Context, cleanedLyrics string, song model.SongRequest) *model.SentimentAssessment {
	prompt := buildUserPrompt(cleanedLyrics, song)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, a.maxRetries), ctx)

	var assessment *model.SentimentAssessment
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++

		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		raw, err := a.client.Complete(callCtx, rubricPrompt, prompt)
		if err != nil {
			if errors.Is(err, ErrContentRejected) {
				return backoff.Permanent(err)
			}
			a.logger.Warn("assessment call failed",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		parsed, err := parseAssessment(raw)
		if err != nil {
			a.logger.Warn("assessment response rejected",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		assessment = parsed
		return nil
	}, policy)

	if err != nil {
		a.logger.Error("assessment unavailable, using fallback",
			zap.String("artist", song.Artist),
			zap.String("title", song.Title),
			zap.Error(err))
		return model.FallbackAssessment()
	}

	return assessment
}

func buildUserPrompt(lyrics string, song model.SongRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Song: %q by %q\n\nLyrics:\n%s\n", song.Title, song.Artist, lyrics)
	return b.String()
}

// assessmentPayload mirrors the contract the service must honor
type assessmentPayload struct {
	Category    string   `json:"category"`
	Confidence  *float64 `json:"confidence"`
	Explanation string   `json:"explanation"`
	Flags       []string `json:"flags"`
}

// parseAssessment validates the raw response against the schema.
// Violations are ErrSchema, which the caller retries.
func parseAssessment(raw string) (*model.SentimentAssessment, error) {
	blob := jsonBlobRe.FindString(stripFences(raw))
	if blob == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", model.ErrSchema)
	}

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSchema, err)
	}

	category := model.Category(strings.ToLower(strings.TrimSpace(payload.Category)))
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", model.ErrSchema, payload.Category)
	}
	if payload.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", model.ErrSchema)
	}
	if *payload.Confidence < 0 || *payload.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v out of range", model.ErrSchema, *payload.Confidence)
	}
	if strings.TrimSpace(payload.Explanation) == "" {
		return nil, fmt.Errorf("%w: missing explanation", model.ErrSchema)
	}

	return &model.SentimentAssessment{
		Category:    category,
		Confidence:  *payload.Confidence,
		Explanation: strings.TrimSpace(payload.Explanation),
		Flags:       payload.Flags,
	}, nil
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}
