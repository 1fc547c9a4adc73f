package matchmaking

import (
	"context"
	"strings"
	"unicode"

	"github.com/alaik/settlerr/internal/types"
)

// Defaults for prompt-based search. Looser threshold, wider net than the
// per-user recommendation path.
const (
	DefaultPromptMinScore = 50.0
	DefaultPromptTopN     = 10
)

var promptStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "are": true, "was": true, "any": true, "some": true,
	"events": true, "event": true, "looking": true, "want": true,
	"find": true, "near": true, "about": true,
}

// MatchPrompt ranks events against a free-text search prompt instead of a
// stored user profile. The prompt becomes an ad-hoc profile: its significant
// words double as interests so the deterministic fallback still produces a
// usable keyword set when the LLM is unavailable.
func (e *Engine) MatchPrompt(ctx context.Context, prompt string, events []types.Event, minScore float64, topN int) []types.ScoredEvent {
	if minScore <= 0 {
		minScore = DefaultPromptMinScore
	}
	if topN <= 0 {
		topN = DefaultPromptTopN
	}

	profile := &types.UserProfile{
		Bio:       prompt,
		Interests: promptKeywords(prompt),
	}
	return e.RecommendEvents(ctx, profile, events, minScore, topN)
}

// promptKeywords extracts the significant words from a free-text prompt:
// lowercase, letters and digits only, at least three characters, common
// filler words dropped, first-seen order preserved.
func promptKeywords(prompt string) []string {
	words := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if len(w) < 3 || promptStopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
