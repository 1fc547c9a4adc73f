package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("matchmaking.json", "keyword-profile")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Interests}}")
	assert.Contains(t, prompt, "core_keywords")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("matchmaking.json", "does-not-exist")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "keyword-profile")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("matchmaking.json", "does-not-exist")
	})
}

func TestFormat(t *testing.T) {
	out := Format("Hello {{.Name}}, welcome to {{.City}}", map[string]string{
		"Name": "Amina",
		"City": "Calgary",
	})
	assert.Equal(t, "Hello Amina, welcome to Calgary", out)
}

func TestTaskPrompts(t *testing.T) {
	prompt := MustGet("tasks.json", "generate-settling-tasks")
	assert.Contains(t, prompt, "{{.Location}}")

	check := MustGet("tasks.json", "check-task-completion")
	assert.Contains(t, check, "{{.Task}}")
}
