package matchmaking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alaik/settlerr/internal/types"
)

// Scoring weights. The point pool is additive and clamped to [0, 100].
const (
	corePointsPerHit      = 28.0
	corePointsCap         = 60.0
	secondaryPointsPerHit = 12.0
	secondaryPointsCap    = 24.0
	locationBonus         = 15.0
	languageBonus         = 10.0
	newcomerBonus         = 10.0
	avoidPenaltyPerHit    = 25.0
	avoidPenaltyCap       = 50.0
	recencyBonus          = 5.0
)

// newcomerTerms mark an event as explicitly newcomer-friendly.
var newcomerTerms = []string{"newcomer", "settlement", "immigrant", "international", "welcome"}

// dateLayouts are tried in order when parsing an event date. RFC 3339 covers
// timezone-aware timestamps including a trailing Z.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ScoreEvent computes a bounded match score and human-readable justification
// for one (keyword profile, event) pair. Deterministic given its inputs and
// the engine clock; it never fails.
func (e *Engine) ScoreEvent(event types.Event, kp types.KeywordProfile) types.MatchResult {
	corpus, _ := EventCorpus(event)

	score := 0.0
	var factors []string

	// Core keyword hits, with a diminishing-return cap.
	coreHits := e.findHits(corpus, kp.CoreKeywords)
	if len(coreHits) > 0 {
		score += min(float64(len(coreHits))*corePointsPerHit, corePointsCap)
		factors = append(factors, fmt.Sprintf("Matches your interests: %s", strings.Join(coreHits, ", ")))
	}

	// Secondary hits exclude anything already rewarded as core.
	coreSet := make(map[string]bool, len(coreHits))
	for _, hit := range coreHits {
		coreSet[hit] = true
	}
	var secondaryHits []string
	for _, hit := range e.findHits(corpus, kp.SecondaryKeywords) {
		if !coreSet[hit] {
			secondaryHits = append(secondaryHits, hit)
		}
	}
	if len(secondaryHits) > 0 {
		score += min(float64(len(secondaryHits))*secondaryPointsPerHit, secondaryPointsCap)
		factors = append(factors, fmt.Sprintf("Related topics: %s", strings.Join(secondaryHits, ", ")))
	}

	if kp.PreferredLocation != "" && e.contains(corpus, kp.PreferredLocation) {
		score += locationBonus
		factors = append(factors, fmt.Sprintf("Located in %s", kp.PreferredLocation))
	}

	for _, lang := range kp.PreferredLanguages {
		if e.contains(corpus, lang) {
			score += languageBonus
			factors = append(factors, "Held in a language you speak")
			break
		}
	}

	for _, term := range newcomerTerms {
		if strings.Contains(corpus, term) {
			score += newcomerBonus
			factors = append(factors, "Newcomer-friendly event")
			break
		}
	}

	avoidHits := e.findHits(corpus, kp.AvoidKeywords)
	if len(avoidHits) > 0 {
		score -= min(float64(len(avoidHits))*avoidPenaltyPerHit, avoidPenaltyCap)
		factors = append(factors, fmt.Sprintf("Contains terms you prefer to avoid: %s", strings.Join(avoidHits, ", ")))
	}

	if t, ok := parseEventTime(event.Date); ok && !t.Before(e.now()) {
		score += recencyBonus
	}

	// Clamp to [0, 100].
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	reasoning := "General relevance"
	if len(factors) > 0 {
		reasoning = strings.Join(factors, "; ")
	} else {
		factors = []string{"Relevant community event"}
	}

	return types.MatchResult{
		Score:            score,
		Reasoning:        reasoning,
		RelevanceFactors: factors,
	}
}

// findHits returns the keywords found in the corpus, preserving keyword order.
func (e *Engine) findHits(corpus string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if kw != "" && e.contains(corpus, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// contains checks keyword presence in the corpus: substring containment by
// default, word-boundary matching when enabled.
func (e *Engine) contains(corpus, keyword string) bool {
	if !e.wholeWords {
		return strings.Contains(corpus, keyword)
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	if err != nil {
		return strings.Contains(corpus, keyword)
	}
	return re.MatchString(corpus)
}

// parseEventTime parses an event date string. Timestamps without an explicit
// offset are treated as local time. Returns false on any parse failure; the
// caller simply skips the recency bonus.
func parseEventTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeEventDate parses a lenient event date and rewrites it as RFC 3339
// UTC. Stored dates must share this form so that upcoming-event queries can
// order them lexically. Timestamps without an explicit offset are treated as
// UTC. Returns false when no known layout matches.
func NormalizeEventDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC().Format(time.RFC3339), true
		}
	}
	return "", false
}
