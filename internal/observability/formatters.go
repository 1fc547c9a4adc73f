// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/alaik/settlerr/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintUserProfile outputs a human-readable summary of the profile being
// matched.
func (p *Printer) PrintUserProfile(profile *types.UserProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:      %s\n", profile.Name))
	if profile.Status != "" {
		sb.WriteString(fmt.Sprintf("Status:    %s\n", types.StatusDescription(profile.Status)))
	}
	if profile.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", profile.Location))
	}
	if len(profile.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(profile.Languages, ", ")))
	}

	if len(profile.Interests) > 0 {
		sb.WriteString("\nInterests:\n")
		count := min(len(profile.Interests), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Interests[i]))
		}
		if len(profile.Interests) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Interests)-maxItemsToShow))
		}
	}

	p.printBox("USER PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintKeywordProfile outputs the tiered keyword profile used for scoring.
func (p *Printer) PrintKeywordProfile(kp types.KeywordProfile) {
	var sb strings.Builder

	writeKeywordList := func(label string, keywords []string) {
		if len(keywords) == 0 {
			return
		}
		shown := keywords
		if len(shown) > maxItemsToShow {
			shown = shown[:maxItemsToShow]
		}
		sb.WriteString(fmt.Sprintf("%s %s", label, strings.Join(shown, ", ")))
		if len(keywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" (+%d more)", len(keywords)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	writeKeywordList("Core:     ", kp.CoreKeywords)
	writeKeywordList("Secondary:", kp.SecondaryKeywords)
	writeKeywordList("Avoid:    ", kp.AvoidKeywords)
	if kp.PreferredLocation != "" {
		sb.WriteString(fmt.Sprintf("Location:   %s\n", kp.PreferredLocation))
	}
	writeKeywordList("Languages:", kp.PreferredLanguages)
	if kp.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", kp.Notes))
	}

	p.printBox("KEYWORD PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScoredEvents outputs the top ranked events with their score reasoning.
func (p *Printer) PrintScoredEvents(scored []types.ScoredEvent) {
	if len(scored) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total events above threshold: %d\n\n", len(scored)))

	count := min(len(scored), maxItemsToShow)
	for i := 0; i < count; i++ {
		event := scored[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, event.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.0f\n", event.MatchScore))
		if event.MatchReasoning != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", event.MatchReasoning))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(scored) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more events", len(scored)-maxItemsToShow))
	}

	p.printBox("MATCHED EVENTS", strings.TrimSuffix(sb.String(), "\n"))
}
