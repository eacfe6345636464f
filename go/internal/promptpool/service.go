package promptpool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/models"
)

// PromptApp defines what the HTTP layer needs from the pool
type PromptApp interface {
	Random() (string, int, error)
	Add(ctx context.Context, prompt string) (string, int, error)
	Count() int
	TimerSeconds() int
}

// errorResponse is the body of every non-success answer
type errorResponse struct {
	Detail string `json:"detail"`
}

// Service serves the prompt endpoints
type Service struct {
	app PromptApp
}

// NewService creates a new prompt pool HTTP service
func NewService(app PromptApp) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers the prompt routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/prompt", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.HandleGetPrompt(w, r)
		case http.MethodPost:
			s.HandleCreatePrompt(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}

// HandleGetPrompt handles GET /api/prompt
func (s *Service) HandleGetPrompt(w http.ResponseWriter, r *http.Request) {
	prompt, total, err := s.app.Random()
	if err != nil {
		if errors.Is(err, models.ErrNoPrompts) {
			writeError(w, http.StatusNotFound, "No prompts available.")
			return
		}
		log.Error().Err(err).Msg("failed to pick prompt")
		writeError(w, http.StatusInternalServerError, "failed to pick prompt")
		return
	}

	timer := s.app.TimerSeconds()
	writeJSON(w, http.StatusOK, models.Prompt{
		Text:         prompt,
		TotalPrompts: &total,
		TimerSeconds: &timer,
	})
}

// HandleCreatePrompt handles POST /api/prompt
func (s *Service) HandleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	prompt, total, err := s.app.Add(r.Context(), req.Prompt)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, models.ErrDuplicate):
		writeError(w, http.StatusConflict, "Prompt already exists.")
		return
	default:
		log.Error().Err(err).Msg("failed to store prompt")
		writeError(w, http.StatusInternalServerError, "failed to store prompt")
		return
	}

	writeJSON(w, http.StatusCreated, models.SubmitPromptResponse{
		Prompt:       prompt,
		TotalPrompts: &total,
	})
}

// HealthChecker is implemented by stores backed by an external service
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RegisterHealth registers GET /health. A nil checker always reports OK.
func RegisterHealth(mux *http.ServeMux, checker HealthChecker) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Health(r.Context()); err != nil {
				log.Error().Err(err).Msg("prompt store health check failed")
				http.Error(w, "prompt store unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
