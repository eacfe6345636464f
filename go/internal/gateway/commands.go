package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcdev12/teamquiz/go/internal/models"
	"github.com/mcdev12/teamquiz/go/internal/session"
)

// Controller defines what the gateway needs from a quiz session
type Controller interface {
	AddTeam(ctx context.Context, name string) (session.Snapshot, error)
	RemoveTeam(ctx context.Context, index int) (session.Snapshot, error)
	RequestPrompt(ctx context.Context) (session.Snapshot, error)
	ReportResult(ctx context.Context, result models.RoundResult) (session.Snapshot, error)
	SubmitPrompt(ctx context.Context, text string) (session.Snapshot, error)
	State(ctx context.Context) (session.Snapshot, error)
	Subscribe(clientID string, outbox chan session.Snapshot) error
	Unsubscribe(clientID string)
}

// Client message types
const (
	MsgAddTeam       = "AddTeam"
	MsgRemoveTeam    = "RemoveTeam"
	MsgRequestPrompt = "RequestPrompt"
	MsgReportResult  = "ReportResult"
	MsgSubmitPrompt  = "SubmitPrompt"
	MsgGetState      = "GetState"
)

// Server message types
const (
	MsgStateSnapshot = "StateSnapshot"
	MsgError         = "Error"
)

// ErrUnknownCommand is returned for client messages the gateway cannot map
var ErrUnknownCommand = errors.New("unknown command")

// ClientMessage is a command sent by a viewer over the WebSocket
type ClientMessage struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Index   *int   `json:"index,omitempty"`
	Success *bool  `json:"success,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
}

// ServerMessage is pushed to viewers
type ServerMessage struct {
	Type    string            `json:"type"`
	Version int               `json:"version,omitempty"`
	State   *session.Snapshot `json:"state,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    int               `json:"code,omitempty"`
}

// execute maps a client message onto the controller
func execute(ctx context.Context, ctrl Controller, msg ClientMessage) (session.Snapshot, error) {
	switch msg.Type {
	case MsgAddTeam:
		return ctrl.AddTeam(ctx, msg.Name)
	case MsgRemoveTeam:
		if msg.Index == nil {
			return session.Snapshot{}, fmt.Errorf("remove team without index: %w", models.ErrValidation)
		}
		return ctrl.RemoveTeam(ctx, *msg.Index)
	case MsgRequestPrompt:
		return ctrl.RequestPrompt(ctx)
	case MsgReportResult:
		if msg.Success == nil {
			return session.Snapshot{}, fmt.Errorf("report result without outcome: %w", models.ErrValidation)
		}
		return ctrl.ReportResult(ctx, resultFor(*msg.Success))
	case MsgSubmitPrompt:
		return ctrl.SubmitPrompt(ctx, msg.Prompt)
	case MsgGetState:
		return ctrl.State(ctx)
	default:
		return session.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Type)
	}
}

func resultFor(success bool) models.RoundResult {
	if success {
		return models.RoundResultSuccess
	}
	return models.RoundResultFail
}

// httpStatus maps command errors to HTTP status codes. Idle actions are
// no-ops and answer 200.
func httpStatus(err error) int {
	switch {
	case err == nil, errors.Is(err, models.ErrIdleAction):
		return http.StatusOK
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDuplicate), errors.Is(err, models.ErrRoundInProgress):
		return http.StatusConflict
	case errors.Is(err, models.ErrGatewayFailure):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
