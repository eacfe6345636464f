package gateway

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// Service wires the REST and WebSocket transports to one controller
type Service struct {
	rest        *RESTHandler
	connections *ConnectionManager
}

// NewService creates a new gateway service
func NewService(ctrl Controller, config ConnectionConfig) *Service {
	return &Service{
		rest:        NewRESTHandler(ctrl),
		connections: NewConnectionManager(ctrl, config),
	}
}

// RegisterRoutes registers the REST and WebSocket routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.rest.RegisterRoutes(mux)
	mux.HandleFunc("GET /ws", s.HandleWebSocket)
}

// HandleWebSocket handles GET /ws
func (s *Service) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := s.connections.UpgradeConnection(w, r); err != nil {
		log.Warn().Err(err).Msg("websocket connection rejected")
	}
}

// GetStats returns transport statistics
func (s *Service) GetStats() map[string]interface{} {
	return s.connections.GetConnectionStats()
}

// Shutdown disconnects all viewers
func (s *Service) Shutdown() {
	s.connections.CloseAll()
	log.Info().Msg("gateway connections closed")
}
