package session

import (
	"github.com/mcdev12/teamquiz/go/internal/countdown"
	"github.com/mcdev12/teamquiz/go/internal/models"
)

// Msg is an input to the session loop. Every message is processed to
// completion before the next one is taken from the inbox.
type Msg interface{ isSessionMsg() }

// Reply carries the outcome of a command back to its sender
type Reply struct {
	Snapshot Snapshot
	Err      error
}

type AddTeam struct {
	Name  string
	Reply chan Reply
}

func (AddTeam) isSessionMsg() {}

type RemoveTeam struct {
	Index int
	Reply chan Reply
}

func (RemoveTeam) isSessionMsg() {}

type RequestPrompt struct {
	Reply chan Reply
}

func (RequestPrompt) isSessionMsg() {}

type ReportResult struct {
	Result models.RoundResult
	Reply  chan Reply
}

func (ReportResult) isSessionMsg() {}

type SubmitPrompt struct {
	Text  string
	Reply chan Reply
}

func (SubmitPrompt) isSessionMsg() {}

type Subscribe struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
	Reply    chan error
}

func (Subscribe) isSessionMsg() {}

type Unsubscribe struct{ ClientID string }

func (Unsubscribe) isSessionMsg() {}

type GetState struct {
	Reply chan Snapshot
}

func (GetState) isSessionMsg() {}

// completions posted back into the loop by background work

type promptFetched struct {
	round  int
	prompt models.Prompt
	err    error
}

func (promptFetched) isSessionMsg() {}

type promptSaved struct {
	text string
	resp models.SubmitPromptResponse
	err  error
}

func (promptSaved) isSessionMsg() {}

type timerTick struct {
	tick countdown.Tick
}

func (timerTick) isSessionMsg() {}
