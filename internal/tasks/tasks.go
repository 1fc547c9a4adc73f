// Package tasks generates and verifies personalized settling-in tasks for
// newcomers.
package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/alaik/settlerr/internal/llm"
	"github.com/alaik/settlerr/internal/prompts"
	"github.com/alaik/settlerr/internal/types"
)

// taskCount is how many settling-in tasks one generation produces.
const taskCount = 10

// starterTasks is the deterministic fallback checklist used when the LLM is
// unavailable. Ordered essentials-first.
var starterTasks = []string{
	"Secure temporary accommodation for your first few weeks while searching for permanent housing.",
	"Open a local bank account and obtain a debit card.",
	"Apply for your government identification and social insurance registration.",
	"Apply for provincial health coverage.",
	"Start your search for permanent housing near work or school with transit access.",
	"Learn the local public transportation system and get a transit pass.",
	"Register with a settlement services organization for newcomers.",
	"Locate essential amenities near your accommodation: grocery stores, pharmacies, a library.",
	"Join a local community group or meetup related to one of your interests.",
	"Set up a local phone plan.",
}

// Service generates settling-in checklists and verifies task completion from
// photo evidence.
type Service struct {
	client   llm.Client
	cooldown *llm.Cooldown
}

// NewService creates a task service. A nil client means generation always
// returns the starter checklist.
func NewService(client llm.Client, cooldown *llm.Cooldown) *Service {
	if cooldown == nil {
		cooldown = llm.NewCooldown()
	}
	return &Service{client: client, cooldown: cooldown}
}

// Generate produces a personalized settling-in checklist for a user. Never
// fails: on any LLM problem it returns the starter checklist.
func (s *Service) Generate(ctx context.Context, profile *types.UserProfile) []types.SettlingTask {
	lines := s.generateLines(ctx, profile)
	out := make([]types.SettlingTask, 0, len(lines))
	for _, line := range lines {
		out = append(out, types.SettlingTask{Description: line, Source: "generated"})
	}
	return out
}

func (s *Service) generateLines(ctx context.Context, profile *types.UserProfile) []string {
	if s.client == nil || !s.cooldown.Allow() {
		return starterTasks
	}

	response, err := s.client.GenerateContent(ctx, buildGeneratePrompt(profile), llm.TierStandard)
	if err != nil {
		if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
			d := s.cooldown.Trip(err)
			log.Printf("[tasks] task model quota exhausted, cooling down for %s", d)
		} else {
			log.Printf("[tasks] task generation failed: %v", err)
		}
		return starterTasks
	}

	tasks := ParseTaskList(response)
	if len(tasks) == 0 {
		return starterTasks
	}
	if len(tasks) > taskCount {
		tasks = tasks[:taskCount]
	}
	return tasks
}

// CheckCompletion asks the vision model whether the submitted photo shows the
// task done. An unusable answer is treated as "not completed" with the raw
// analysis attached.
func (s *Service) CheckCompletion(ctx context.Context, task string, image []byte, mimeType string) (types.CheckTaskResponse, error) {
	if s.client == nil {
		return types.CheckTaskResponse{}, fmt.Errorf("no vision model configured")
	}
	if !s.cooldown.Allow() {
		return types.CheckTaskResponse{}, fmt.Errorf("vision model on cooldown")
	}

	template := prompts.MustGet("tasks.json", "check-task-completion")
	prompt := prompts.Format(template, map[string]string{"Task": task})

	answer, err := s.client.GenerateVision(ctx, prompt, image, mimeType, llm.TierLite)
	if err != nil {
		if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
			s.cooldown.Trip(err)
		}
		return types.CheckTaskResponse{}, fmt.Errorf("completion check failed: %w", err)
	}

	return types.CheckTaskResponse{
		Completed: answerIsYes(answer),
		Analysis:  strings.TrimSpace(answer),
	}, nil
}

// ParseTaskList extracts task lines from a dash-list response, one task per
// line starting with "- ".
func ParseTaskList(response string) []string {
	var tasks []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			rest = strings.TrimSpace(rest)
			if rest != "" {
				tasks = append(tasks, rest)
			}
		}
	}
	return tasks
}

// answerIsYes interprets a yes/no vision answer. The prompt asks for a
// leading yes or no; anything else counts as no.
func answerIsYes(answer string) bool {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	return strings.HasPrefix(normalized, "yes")
}

// buildGeneratePrompt fills the generation prompt template from a profile.
func buildGeneratePrompt(profile *types.UserProfile) string {
	var (
		location   = "a new city"
		status     = "New settler"
		occupation = "Not specified"
		interests  = "Not specified"
		languages  = "Not specified"
	)
	if profile != nil {
		if profile.Location != "" {
			location = profile.Location
		}
		status = types.StatusDescription(profile.Status)
		if profile.Occupation != "" {
			occupation = profile.Occupation
		}
		if len(profile.Interests) > 0 {
			interests = strings.Join(profile.Interests, ", ")
		}
		if len(profile.Languages) > 0 {
			languages = strings.Join(profile.Languages, ", ")
		}
	}

	template := prompts.MustGet("tasks.json", "generate-settling-tasks")
	return prompts.Format(template, map[string]string{
		"Location":   location,
		"Status":     status,
		"Occupation": occupation,
		"Interests":  interests,
		"Languages":  languages,
	})
}
