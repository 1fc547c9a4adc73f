// Package matchmaking matches newcomers with local events. It derives a
// tiered keyword profile from a user profile (LLM-assisted, with a
// deterministic fallback) and ranks candidate events by weighted
// keyword-overlap scoring.
package matchmaking

import (
	"time"

	"github.com/alaik/settlerr/internal/llm"
)

const (
	// DefaultMinScore is the minimum match score for recommendations.
	DefaultMinScore = 45.0
	// DefaultTopN is the maximum number of recommendations returned.
	DefaultTopN = 5

	// profileTimeout bounds the single external call per recommendation request.
	profileTimeout = 20 * time.Second

	// maxConcurrentScores bounds parallel event scoring within one request.
	maxConcurrentScores = 8
)

// Engine scores and ranks events for user profiles. Scoring is pure and
// stateless between calls; the only external dependency is the LLM client
// used once per recommendation request to build the keyword profile.
type Engine struct {
	client     llm.Client
	cooldown   *llm.Cooldown
	now        func() time.Time
	wholeWords bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for the recency bonus.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithCooldown supplies a caller-owned quota cooldown shared with other LLM
// consumers.
func WithCooldown(c *llm.Cooldown) Option {
	return func(e *Engine) {
		if c != nil {
			e.cooldown = c
		}
	}
}

// WithWholeWordMatching enables word-boundary keyword matching instead of the
// default substring containment. Changes scoring outcomes; off by default.
func WithWholeWordMatching() Option {
	return func(e *Engine) {
		e.wholeWords = true
	}
}

// NewEngine creates a matchmaking engine. A nil client is allowed; the engine
// then always uses the deterministic fallback profile.
func NewEngine(client llm.Client, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		cooldown: llm.NewCooldown(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
