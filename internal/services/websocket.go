package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"binduty-service/internal/logging"
)

// Live feed event types.
const (
	EventReminderSent     = "reminder_sent"
	EventReminderSkipped  = "reminder_skipped"
	EventAnnouncementSent = "announcement_sent"
	EventIssueReported    = "issue_reported"
)

const maxConnectionsPerAdmin = 10

// Event is pushed to connected admins.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// WebSocketManager manages WebSocket connections for admins
type WebSocketManager struct {
	connections map[string]map[*websocket.Conn]bool // adminID -> set of connections
	mutex       sync.Mutex
	logger      *logging.Logger
}

func NewWebSocketManager(logger *logging.Logger) *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]map[*websocket.Conn]bool),
		logger:      logger,
	}
}

// AddConnection registers conn for adminID. It reports false when the
// admin already holds the maximum number of connections.
func (m *WebSocketManager) AddConnection(adminID string, conn *websocket.Conn) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.connections[adminID]; !exists {
		m.connections[adminID] = make(map[*websocket.Conn]bool)
	}
	if len(m.connections[adminID]) >= maxConnectionsPerAdmin {
		m.logger.Warnf("Max connections reached for admin %s", adminID)
		return false
	}
	m.connections[adminID][conn] = true
	m.logger.Infof("Added WebSocket connection for admin %s (total: %d)", adminID, len(m.connections[adminID]))
	return true
}

// RemoveConnection removes a WebSocket connection
func (m *WebSocketManager) RemoveConnection(adminID string, conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if conns, exists := m.connections[adminID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(m.connections, adminID)
		}
		m.logger.Infof("Removed WebSocket connection for admin %s (remaining: %d)", adminID, len(conns))
	}
}

// Count returns the number of open connections.
func (m *WebSocketManager) Count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	n := 0
	for _, conns := range m.connections {
		n += len(conns)
	}
	return n
}

// Broadcast sends an event to every connected admin, dropping connections that fail.
func (m *WebSocketManager) Broadcast(eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Timestamp: time.Now().UTC(), Data: data})
	if err != nil {
		m.logger.Errorf("Failed to encode %s event: %v", eventType, err)
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for adminID, conns := range m.connections {
		for conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				m.logger.Errorf("Failed to send WebSocket message to admin %s: %v", adminID, err)
				conn.Close()
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(m.connections, adminID)
		}
	}
}

// CloseAll closes every connection.
func (m *WebSocketManager) CloseAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for adminID, conns := range m.connections {
		for conn := range conns {
			conn.Close()
		}
		delete(m.connections, adminID)
	}
}
