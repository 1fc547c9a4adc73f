package matchmaking

import (
	"strings"

	"github.com/alaik/settlerr/internal/types"
)

// EventCorpus flattens an event's textual fields into a single lowercase
// string used for keyword containment checks, plus the individual fields for
// inspection. Pure and total: missing fields become empty strings.
//
// Matching against the corpus is plain substring containment, so a keyword
// can match inside a larger word ("art" in "smart"). That imprecision is
// inherited behavior; WithWholeWordMatching opts out of it.
func EventCorpus(event types.Event) (string, map[string]string) {
	fields := map[string]string{
		"name":     event.Name,
		"about":    event.About,
		"venue":    event.Venue,
		"category": event.Category,
		"tags":     strings.Join(event.Tags, " "),
		"language": event.Language,
		"date":     event.Date,
	}

	parts := []string{
		event.Name,
		event.About,
		event.Venue,
		event.Category,
		strings.Join(event.Tags, " "),
		event.Language,
		event.Date,
	}

	return strings.ToLower(strings.Join(parts, " ")), fields
}
