package matchmaking

import (
	"context"

	"github.com/alaik/settlerr/internal/llm"
	"github.com/alaik/settlerr/internal/types"
)

// fakeLLM is a canned llm.Client for tests. It records call counts so tests
// can assert the engine made (or skipped) the external call.
type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return llm.CleanJSONBlock(f.response), nil
}

func (f *fakeLLM) GenerateVision(_ context.Context, _ string, _ []byte, _ string, _ llm.ModelTier) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) GetModel(_ llm.ModelTier) string { return "fake-model" }

func (f *fakeLLM) Close() error { return nil }

// studentProfile is the profile used across scenario tests.
func studentProfile() *types.UserProfile {
	return &types.UserProfile{
		Username:  "amina",
		Status:    types.StatusStudent,
		Interests: []string{"music", "tech"},
		Location:  "Calgary",
		Languages: []string{"English"},
	}
}
