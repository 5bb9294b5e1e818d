// internal/handler/websocket_types.go
package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wavegen/internal/model"
)

// Client represents a WebSocket client
type Client struct {
	ID          string          `json:"id"`
	Connection  *websocket.Conn `json:"-"`
	Send        chan []byte     `json:"-"`
	UserAgent   string          `json:"user_agent"`
	RemoteAddr  string          `json:"remote_addr"`
	ConnectedAt time.Time       `json:"connected_at"`

	subscriptionMutex sync.RWMutex
	// Subscriptions filters event types; empty means every event
	Subscriptions map[model.EventType]bool `json:"subscriptions,omitempty"`
}

// Wants reports whether the client is subscribed to eventType
func (c *Client) Wants(eventType model.EventType) bool {
	c.subscriptionMutex.RLock()
	defer c.subscriptionMutex.RUnlock()

	return len(c.Subscriptions) == 0 || c.Subscriptions[eventType]
}

func (c *Client) subscribe(eventType model.EventType) {
	c.subscriptionMutex.Lock()
	defer c.subscriptionMutex.Unlock()

	if c.Subscriptions == nil {
		c.Subscriptions = make(map[model.EventType]bool)
	}
	c.Subscriptions[eventType] = true
}

func (c *Client) unsubscribe(eventType model.EventType) {
	c.subscriptionMutex.Lock()
	defer c.subscriptionMutex.Unlock()

	delete(c.Subscriptions, eventType)
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectionManager tracks connected WebSocket clients
type ConnectionManager struct {
	clients map[string]*Client
	mutex   sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*Client),
	}
}

// Register registers a new client
func (cm *ConnectionManager) Register(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.clients[client.ID] = client
}

// Unregister removes a client and closes its send channel
func (cm *ConnectionManager) Unregister(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if _, ok := cm.clients[client.ID]; ok {
		delete(cm.clients, client.ID)
		close(client.Send)
	}
}

// GetClients returns every connected client
func (cm *ConnectionManager) GetClients() []*Client {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

// ForEach calls fn for every client while holding the read lock, so
// Unregister cannot close a Send channel underneath it
func (cm *ConnectionManager) ForEach(fn func(client *Client)) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for _, client := range cm.clients {
		fn(client)
	}
}

// GetStats returns connection statistics
func (cm *ConnectionManager) GetStats() *ConnectionStats {
	clients := cm.GetClients()
	return &ConnectionStats{
		TotalConnections: len(clients),
		Clients:          clients,
	}
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConnections int       `json:"total_connections"`
	Clients          []*Client `json:"clients"`
}
