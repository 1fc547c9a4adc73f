package matchmaking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alaik/settlerr/internal/types"
)

// recommendEngine returns an engine whose LLM always fails, so every test
// runs on the deterministic fallback profile.
func recommendEngine(client *fakeLLM) *Engine {
	return NewEngine(client, WithClock(func() time.Time { return fixedNow }))
}

func candidateEvents() []types.Event {
	return []types.Event{
		{Name: "Calgary Tech Meetup", About: "networking for developers", Venue: "Calgary", Date: "2026-09-15T18:00:00Z"},
		{Name: "Live Music Night in Calgary", About: "local bands welcome", Venue: "Calgary", Date: "2026-10-01T20:00:00Z"},
		{Name: "Quilting Circle", About: "weekly quilting meetup", Venue: "Springbank", Date: "2026-09-20"},
		{Name: "Wine and Cheese Gala", About: "alcohol tasting evening", Venue: "Calgary", Date: "2026-11-05T19:00:00Z"},
	}
}

func TestRecommendEvents_ThresholdFilter(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)

	results := engine.RecommendEvents(context.Background(), studentProfile(), candidateEvents(), 45, 5)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.MatchScore, 45.0)
	}
}

func TestRecommendEvents_SortedDescending(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)

	results := engine.RecommendEvents(context.Background(), studentProfile(), candidateEvents(), 1, 10)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].MatchScore, results[i].MatchScore)
	}
}

func TestRecommendEvents_TopNTruncation(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)

	all := engine.RecommendEvents(context.Background(), studentProfile(), candidateEvents(), 1, 10)
	require.Greater(t, len(all), 1)

	one := engine.RecommendEvents(context.Background(), studentProfile(), candidateEvents(), 1, 1)
	require.Len(t, one, 1)
	assert.Equal(t, all[0].Name, one[0].Name)
}

func TestRecommendEvents_StableOrderAmongTies(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)

	// Two events with identical corpora score identically; the stable sort
	// must keep their original relative order.
	events := []types.Event{
		{Name: "tech talk A", Date: "2026-09-15T18:00:00Z"},
		{Name: "tech talk B", Date: "2026-09-15T18:00:00Z"},
	}
	results := engine.RecommendEvents(context.Background(), studentProfile(), events, 1, 10)

	require.Len(t, results, 2)
	assert.Equal(t, "tech talk A", results[0].Name)
	assert.Equal(t, "tech talk B", results[1].Name)
}

func TestRecommendEvents_ImpossibleThreshold(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)

	// Scores clamp at 100, so a threshold of 101 can never be met.
	results := engine.RecommendEvents(context.Background(), studentProfile(), candidateEvents(), 101, 5)
	assert.Empty(t, results)
}

func TestRecommendEvents_EmptyCandidates(t *testing.T) {
	client := &fakeLLM{}
	engine := recommendEngine(client)

	results := engine.RecommendEvents(context.Background(), studentProfile(), nil, 45, 5)
	assert.Empty(t, results)

	// No candidates means no profile build and no LLM traffic.
	assert.Equal(t, 0, client.calls)
}

func TestRecommendEvents_OneProfileBuildPerCall(t *testing.T) {
	client := &fakeLLM{response: `{"core_keywords": ["tech"]}`}
	engine := recommendEngine(client)

	engine.RecommendEvents(context.Background(), studentProfile(), candidateEvents(), 45, 5)
	assert.Equal(t, 1, client.calls)
}

func TestRecommendEvents_DefaultsApplied(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)

	results := engine.RecommendEvents(context.Background(), studentProfile(), candidateEvents(), 0, 0)
	assert.LessOrEqual(t, len(results), DefaultTopN)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.MatchScore, DefaultMinScore)
	}
}

func TestRecommendEvents_AnnotatesCopies(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)
	events := candidateEvents()

	results := engine.RecommendEvents(context.Background(), studentProfile(), events, 1, 10)

	require.NotEmpty(t, results)
	assert.Equal(t, fallbackNotes, results[0].MatchNotes)
	assert.NotEmpty(t, results[0].MatchReasoning)
	// Source events are untouched.
	for _, ev := range events {
		assert.NotEmpty(t, ev.Name)
	}
}

func TestBatchScoreEvents_IncludesEverything(t *testing.T) {
	client := &fakeLLM{err: errors.New("down")}
	engine := recommendEngine(client)

	results := engine.BatchScoreEvents(context.Background(), studentProfile(), candidateEvents())

	require.Len(t, results, len(candidateEvents()))
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].MatchScore, results[i].MatchScore)
	}
}

func TestBatchScoreEvents_EmptyCandidates(t *testing.T) {
	client := &fakeLLM{}
	engine := recommendEngine(client)

	assert.Empty(t, engine.BatchScoreEvents(context.Background(), studentProfile(), nil))
	assert.Equal(t, 0, client.calls)
}
