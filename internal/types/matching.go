package types

// KeywordProfile is the tiered keyword set derived from a user profile. It is
// built once per recommendation request and discarded afterwards. Every
// keyword list is lowercased, trimmed, and deduplicated before matching.
type KeywordProfile struct {
	CoreKeywords       []string `json:"core_keywords"`
	SecondaryKeywords  []string `json:"secondary_keywords"`
	AvoidKeywords      []string `json:"avoid_keywords"`
	PreferredLocation  string   `json:"preferred_location"`
	PreferredLanguages []string `json:"preferred_languages"`
	Notes              string   `json:"notes"`
}

// MatchResult is the outcome of scoring a single event against a keyword
// profile.
type MatchResult struct {
	Score            float64  `json:"score"`
	Reasoning        string   `json:"reasoning"`
	RelevanceFactors []string `json:"relevance_factors"`
}

// ScoredEvent is a copy of an Event annotated with match fields.
type ScoredEvent struct {
	Event
	MatchScore       float64  `json:"match_score"`
	MatchReasoning   string   `json:"match_reasoning"`
	RelevanceFactors []string `json:"relevance_factors"`
	MatchNotes       string   `json:"match_notes,omitempty"`
}
