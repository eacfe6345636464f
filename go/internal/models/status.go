package models

// Tone classifies a status message for display
type Tone string

const (
	ToneInfo  Tone = "info"
	ToneDone  Tone = "done"
	ToneError Tone = "error"
)

// Status is a user-facing status line
type Status struct {
	Message string `json:"message"`
	Tone    Tone   `json:"tone"`
}

func Info(msg string) Status  { return Status{Message: msg, Tone: ToneInfo} }
func Done(msg string) Status  { return Status{Message: msg, Tone: ToneDone} }
func Error(msg string) Status { return Status{Message: msg, Tone: ToneError} }
