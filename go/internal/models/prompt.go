package models

// Prompt is a delivered quiz prompt.
// TotalPrompts and TimerSeconds are nil when the gateway omitted them.
type Prompt struct {
	Text         string `json:"prompt"`
	TotalPrompts *int   `json:"totalPrompts,omitempty"`
	TimerSeconds *int   `json:"timerSeconds,omitempty"`
}

// SubmitPromptRequest is the body accepted by the prompt submit endpoint
type SubmitPromptRequest struct {
	Prompt string `json:"prompt"`
}

// SubmitPromptResponse is returned after a prompt was stored
type SubmitPromptResponse struct {
	Prompt       string `json:"prompt,omitempty"`
	TotalPrompts *int   `json:"totalPrompts,omitempty"`
}

// MinPromptLength is the shortest prompt text accepted for submission
const MinPromptLength = 4

// MaxPromptLength is the longest prompt text the pool stores
const MaxPromptLength = 160
