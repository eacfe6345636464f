package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/session"
)

// commandTimeout bounds how long a request waits for the session loop
const commandTimeout = 5 * time.Second

// errorResponse carries the rejection and the state after it
type errorResponse struct {
	Error string            `json:"error"`
	State *session.Snapshot `json:"state,omitempty"`
}

type addTeamRequest struct {
	Name string `json:"name"`
}

type reportResultRequest struct {
	Success *bool `json:"success"`
}

type submitPromptRequest struct {
	Prompt string `json:"prompt"`
}

// RESTHandler exposes session commands over plain HTTP
type RESTHandler struct {
	ctrl Controller
}

// NewRESTHandler creates a new REST handler
func NewRESTHandler(ctrl Controller) *RESTHandler {
	return &RESTHandler{ctrl: ctrl}
}

// RegisterRoutes registers the REST routes
func (h *RESTHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", h.HandleGetState)
	mux.HandleFunc("POST /api/teams", h.HandleAddTeam)
	mux.HandleFunc("DELETE /api/teams/{index}", h.HandleRemoveTeam)
	mux.HandleFunc("POST /api/round/prompt", h.HandleRequestPrompt)
	mux.HandleFunc("POST /api/round/result", h.HandleReportResult)
	mux.HandleFunc("POST /api/prompts", h.HandleSubmitPrompt)
}

// HandleGetState handles GET /api/state
func (h *RESTHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, ClientMessage{Type: MsgGetState})
}

// HandleAddTeam handles POST /api/teams
func (h *RESTHandler) HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	var req addTeamRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, r, ClientMessage{Type: MsgAddTeam, Name: req.Name})
}

// HandleRemoveTeam handles DELETE /api/teams/{index}
func (h *RESTHandler) HandleRemoveTeam(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
		return
	}
	h.run(w, r, ClientMessage{Type: MsgRemoveTeam, Index: &index})
}

// HandleRequestPrompt handles POST /api/round/prompt
func (h *RESTHandler) HandleRequestPrompt(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, ClientMessage{Type: MsgRequestPrompt})
}

// HandleReportResult handles POST /api/round/result
func (h *RESTHandler) HandleReportResult(w http.ResponseWriter, r *http.Request) {
	var req reportResultRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, r, ClientMessage{Type: MsgReportResult, Success: req.Success})
}

// HandleSubmitPrompt handles POST /api/prompts
func (h *RESTHandler) HandleSubmitPrompt(w http.ResponseWriter, r *http.Request) {
	var req submitPromptRequest
	if !decode(w, r, &req) {
		return
	}
	h.run(w, r, ClientMessage{Type: MsgSubmitPrompt, Prompt: req.Prompt})
}

func (h *RESTHandler) run(w http.ResponseWriter, r *http.Request, msg ClientMessage) {
	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	snap, err := execute(ctx, h.ctrl, msg)
	status := httpStatus(err)
	if status == http.StatusOK {
		writeJSON(w, status, snap)
		return
	}

	log.Debug().Err(err).Str("command", msg.Type).Int("status", status).Msg("command rejected")
	resp := errorResponse{Error: err.Error()}
	if snap.SessionID != "" {
		resp.State = &snap
	}
	writeJSON(w, status, resp)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
