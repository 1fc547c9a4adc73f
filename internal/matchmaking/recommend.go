package matchmaking

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/alaik/settlerr/internal/types"
)

// RecommendEvents returns the top-N events for a user, best match first.
// The keyword profile is built exactly once per call regardless of candidate
// count; that is the only operation that may touch the network. Non-positive
// minScore/topN fall back to the package defaults.
func (e *Engine) RecommendEvents(ctx context.Context, profile *types.UserProfile, events []types.Event, minScore float64, topN int) []types.ScoredEvent {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	if len(events) == 0 {
		return []types.ScoredEvent{}
	}

	kp := e.BuildUserKeywordProfile(ctx, profile)
	scored := e.scoreAll(kp, events)

	filtered := make([]types.ScoredEvent, 0, len(scored))
	for _, se := range scored {
		if se.MatchScore >= minScore {
			filtered = append(filtered, se)
		}
	}

	// Stable sort keeps the original relative order among equal scores.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].MatchScore > filtered[j].MatchScore
	})

	if len(filtered) > topN {
		filtered = filtered[:topN]
	}
	return filtered
}

// BatchScoreEvents scores every candidate without a minimum-score filter or
// truncation, sorted by score descending. Used for exhaustive inspection
// rather than user-facing recommendation.
func (e *Engine) BatchScoreEvents(ctx context.Context, profile *types.UserProfile, events []types.Event) []types.ScoredEvent {
	if len(events) == 0 {
		return []types.ScoredEvent{}
	}

	kp := e.BuildUserKeywordProfile(ctx, profile)
	scored := e.scoreAll(kp, events)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	return scored
}

// scoreAll scores each event independently. Scoring is pure, so events are
// processed concurrently; results land at their original index and sorting
// happens afterwards.
func (e *Engine) scoreAll(kp types.KeywordProfile, events []types.Event) []types.ScoredEvent {
	scored := make([]types.ScoredEvent, len(events))

	var g errgroup.Group
	g.SetLimit(maxConcurrentScores)
	for i, event := range events {
		g.Go(func() error {
			result := e.ScoreEvent(event, kp)
			scored[i] = types.ScoredEvent{
				Event:            event,
				MatchScore:       result.Score,
				MatchReasoning:   result.Reasoning,
				RelevanceFactors: result.RelevanceFactors,
				MatchNotes:       kp.Notes,
			}
			return nil
		})
	}
	// Scoring never fails; Wait is only a barrier.
	_ = g.Wait()

	return scored
}
