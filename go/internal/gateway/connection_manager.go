package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/models"
	"github.com/mcdev12/teamquiz/go/internal/session"
)

// ConnectionManager manages viewer WebSocket connections for one session
type ConnectionManager struct {
	ctrl        Controller
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig
}

// Connection represents a WebSocket connection to a viewer
type Connection struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan []byte
	Manager   *ConnectionManager
	snapshots chan session.Snapshot

	ConnectedAt time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  64,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(ctrl Controller, config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		ctrl:        ctrl,
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and subscribes it to snapshots
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		snapshots:   make(chan session.Snapshot, cm.config.SendBufferSize),
		ConnectedAt: time.Now(),
		done:        make(chan struct{}),
	}

	cm.registerConnection(connection)

	if err := cm.ctrl.Subscribe(connection.ID, connection.snapshots); err != nil {
		cm.unregisterConnection(connection)
		conn.Close()
		return fmt.Errorf("failed to subscribe connection: %w", err)
	}

	go connection.forwardSnapshots()
	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

// unregisterConnection removes a connection and closes it. Safe to call more than once.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	_, exists := cm.connections[conn]
	delete(cm.connections, conn)
	cm.mu.Unlock()

	conn.close()
	if !exists {
		return
	}

	cm.ctrl.Unsubscribe(conn.ID)
	log.Info().Str("connection_id", conn.ID).Msg("connection unregistered")
}

// CloseAll disconnects every viewer
func (cm *ConnectionManager) CloseAll() {
	cm.mu.RLock()
	conns := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		conns = append(conns, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range conns {
		cm.unregisterConnection(conn)
	}
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() map[string]interface{} {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return map[string]interface{}{
		"total_connections": len(cm.connections),
	}
}

func (c *Connection) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// enqueue hands data to the write pump. A full buffer means the viewer is
// too slow and the connection is dropped.
func (c *Connection) enqueue(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.Send <- data:
	case <-c.done:
	default:
		log.Warn().Str("connection_id", c.ID).Msg("connection send buffer full, closing connection")
		go c.Manager.unregisterConnection(c)
	}
}

func (c *Connection) sendMessage(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("failed to marshal server message")
		return
	}
	c.enqueue(data)
}

// forwardSnapshots relays session snapshots until the session closes the outbox
func (c *Connection) forwardSnapshots() {
	for snap := range c.snapshots {
		c.sendMessage(ServerMessage{Type: MsgStateSnapshot, Version: snap.Version, State: &snap})
	}
	c.Manager.unregisterConnection(c)
}

// writePump handles sending messages to the WebSocket connection. It owns
// closing the underlying socket.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles commands sent by the viewer
func (c *Connection) readPump() {
	defer c.Manager.unregisterConnection(c)

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage runs a viewer command. State changes reach the viewer
// through the snapshot subscription; only rejections are answered directly.
func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendMessage(ServerMessage{Type: MsgError, Error: "bad json", Code: http.StatusBadRequest})
		return
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("type", msg.Type).
		Msg("received client message")

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	snap, err := execute(ctx, c.Manager.ctrl, msg)
	switch {
	case err == nil && msg.Type == MsgGetState:
		c.sendMessage(ServerMessage{Type: MsgStateSnapshot, Version: snap.Version, State: &snap})
	case err == nil, errors.Is(err, models.ErrIdleAction):
	default:
		c.sendMessage(ServerMessage{Type: MsgError, Error: err.Error(), Code: httpStatus(err)})
	}
}
