package matchmaking

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/alaik/settlerr/internal/llm"
	"github.com/alaik/settlerr/internal/prompts"
	"github.com/alaik/settlerr/internal/schemas"
	"github.com/alaik/settlerr/internal/types"
)

// fallbackNotes marks a profile produced without the LLM.
const fallbackNotes = "Keyword profile derived directly from the user profile (AI unavailable)."

// statusKeywords maps a status code to keywords that signal status-specific
// event relevance.
var statusKeywords = map[string][]string{
	types.StatusStudent:           {"international student", "study permit"},
	types.StatusRefugee:           {"refugee", "settlement services"},
	types.StatusWorker:            {"temporary worker", "work permit"},
	types.StatusPermanentResident: {"permanent resident", "settler"},
}

// defaultStatusKeywords applies when the status code is unknown or absent.
var defaultStatusKeywords = []string{"newcomer", "settler support"}

// llmKeywordProfile is the JSON shape requested from the LLM. Every field is
// optional; missing fields fall back per field, not all-or-nothing.
type llmKeywordProfile struct {
	CoreKeywords       []string `json:"core_keywords"`
	SecondaryKeywords  []string `json:"secondary_keywords"`
	AvoidKeywords      []string `json:"avoid_keywords"`
	PreferredLocation  string   `json:"preferred_location"`
	PreferredLanguages []string `json:"preferred_languages"`
	Notes              string   `json:"notes"`
}

// BuildUserKeywordProfile turns a user profile into a tiered keyword profile.
// It never fails: any LLM error, quota cooldown, or unusable response yields
// the deterministic fallback profile instead.
func (e *Engine) BuildUserKeywordProfile(ctx context.Context, profile *types.UserProfile) types.KeywordProfile {
	fallback := e.fallbackProfile(profile)

	if e.client == nil {
		return fallback
	}
	if !e.cooldown.Allow() {
		log.Printf("[matchmaking] keyword model on cooldown (%s remaining), using fallback profile", e.cooldown.Remaining().Round(time.Second))
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	raw, err := e.client.GenerateJSON(ctx, buildProfilePrompt(profile), llm.TierLite)
	if err != nil {
		if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
			d := e.cooldown.Trip(err)
			log.Printf("[matchmaking] keyword model quota exhausted, cooling down for %s", d)
		} else {
			log.Printf("[matchmaking] keyword profile generation failed: %v", err)
		}
		return fallback
	}

	raw = llm.CleanJSONBlock(raw)
	if raw == "" {
		return fallback
	}

	if err := schemas.ValidateKeywordProfileJSON([]byte(raw)); err != nil {
		log.Printf("[matchmaking] keyword profile response failed schema check: %v", err)
		return fallback
	}

	var parsed llmKeywordProfile
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("[matchmaking] keyword profile response is not valid JSON: %v", err)
		return fallback
	}

	return mergeWithFallback(parsed, fallback)
}

// mergeWithFallback applies field-level fallback: each empty field is replaced
// by its fallback counterpart independently.
func mergeWithFallback(parsed llmKeywordProfile, fallback types.KeywordProfile) types.KeywordProfile {
	result := types.KeywordProfile{
		CoreKeywords:       normalizeKeywords(parsed.CoreKeywords),
		SecondaryKeywords:  normalizeKeywords(parsed.SecondaryKeywords),
		AvoidKeywords:      normalizeKeywords(parsed.AvoidKeywords),
		PreferredLocation:  strings.ToLower(strings.TrimSpace(parsed.PreferredLocation)),
		PreferredLanguages: normalizeKeywords(parsed.PreferredLanguages),
		Notes:              strings.TrimSpace(parsed.Notes),
	}

	if len(result.CoreKeywords) == 0 {
		result.CoreKeywords = fallback.CoreKeywords
	}
	if len(result.SecondaryKeywords) == 0 {
		result.SecondaryKeywords = fallback.SecondaryKeywords
	}
	if len(result.AvoidKeywords) == 0 {
		result.AvoidKeywords = fallback.AvoidKeywords
	}
	if result.PreferredLocation == "" {
		result.PreferredLocation = fallback.PreferredLocation
	}
	if len(result.PreferredLanguages) == 0 {
		result.PreferredLanguages = fallback.PreferredLanguages
	}
	if result.Notes == "" {
		result.Notes = fallback.Notes
	}

	return result
}

// fallbackProfile builds the deterministic, network-free keyword profile.
func (e *Engine) fallbackProfile(profile *types.UserProfile) types.KeywordProfile {
	var (
		interests []string
		languages []string
		status    string
		location  string
	)
	if profile != nil {
		interests = profile.Interests
		languages = profile.Languages
		status = profile.Status
		location = profile.Location
	}

	statusKws, ok := statusKeywords[status]
	if !ok {
		statusKws = defaultStatusKeywords
	}

	core := make([]string, 0, len(interests)+3)
	core = append(core, interests...)
	if profile != nil && profile.Occupation != "" {
		core = append(core, profile.Occupation)
	}
	core = append(core, statusKws...)

	preferredLanguages := normalizeKeywords(languages)
	if len(preferredLanguages) == 0 {
		preferredLanguages = []string{"english"}
	}

	return types.KeywordProfile{
		CoreKeywords: normalizeKeywords(core),
		// Secondary duplicates the interests deliberately: it acts as a
		// softer re-check at match time.
		SecondaryKeywords:  normalizeKeywords(interests),
		AvoidKeywords:      []string{"alcohol"},
		PreferredLocation:  strings.ToLower(strings.TrimSpace(location)),
		PreferredLanguages: preferredLanguages,
		Notes:              fallbackNotes,
	}
}

// normalizeKeywords lowercases, trims, drops empties, and deduplicates while
// preserving first-seen order. Applied to every keyword list regardless of
// which path produced it.
func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

// buildProfilePrompt fills the keyword-profile prompt template from a user profile.
func buildProfilePrompt(profile *types.UserProfile) string {
	var (
		status     = "Unknown"
		occupation = "Not specified"
		interests  = "Not specified"
		location   = "Not specified"
		languages  = "Not specified"
		bio        = "Not provided"
	)
	if profile != nil {
		status = types.StatusDescription(profile.Status)
		if profile.Occupation != "" {
			occupation = profile.Occupation
		}
		if len(profile.Interests) > 0 {
			interests = strings.Join(profile.Interests, ", ")
		}
		if profile.Location != "" {
			location = profile.Location
		}
		if len(profile.Languages) > 0 {
			languages = strings.Join(profile.Languages, ", ")
		}
		if profile.Bio != "" {
			bio = profile.Bio
		}
	}

	template := prompts.MustGet("matchmaking.json", "keyword-profile")
	return prompts.Format(template, map[string]string{
		"Status":     status,
		"Occupation": occupation,
		"Interests":  interests,
		"Location":   location,
		"Languages":  languages,
		"Bio":        bio,
	})
}
