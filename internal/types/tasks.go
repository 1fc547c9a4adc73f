package types

import "github.com/go-playground/validator/v10"

// SettlingTask is a single settling-in task on a user's checklist.
type SettlingTask struct {
	Description string `json:"description"`
	Source      string `json:"source,omitempty"` // "generated", "event", or "manual"
	Completed   bool   `json:"completed"`
}

// CheckTaskRequest represents a task-completion check: the user submits a
// photo as evidence that a task on their list is done.
type CheckTaskRequest struct {
	Description string `json:"description" validate:"required,min=1"`
	ImageBase64 string `json:"image_base64" validate:"required"`
	ImageMIME   string `json:"image_mime,omitempty"`
}

// Validate validates the CheckTaskRequest using the validator.
func (r *CheckTaskRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CheckTaskResponse reports the outcome of a task-completion check.
type CheckTaskResponse struct {
	Completed   bool   `json:"completed"`
	TaskRemoved bool   `json:"task_removed"`
	Analysis    string `json:"analysis,omitempty"`
}
