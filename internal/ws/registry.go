// internal/ws/registry.go
package ws

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry tracks live clients and implements the engine's Broadcaster
// capability. It is the only shared structure touched by multiple
// goroutines (connection handlers register/unregister, the engine sends),
// so it carries its own lock; engine state itself stays single-writer.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *logrus.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Add registers a client under its connection id.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	r.clients[c.ID] = c
	r.mu.Unlock()
}

// Remove unregisters the client and cancels its pumps.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	c, ok := r.clients[id]
	if ok {
		delete(r.clients, id)
	}
	r.mu.Unlock()
	if ok && c.cancel != nil {
		c.cancel()
	}
}

// Get returns the client for a connection id.
func (r *Registry) Get(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

// Len returns the number of connected clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// SendTo delivers one frame to one connection. Unknown ids are ignored; the
// engine treats delivery as best-effort.
func (r *Registry) SendTo(connID string, event string, data interface{}) {
	r.mu.RLock()
	c, ok := r.clients[connID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	c.Send(event, data)
}

// SendToLobby delivers a frame to each listed connection.
func (r *Registry) SendToLobby(connIDs []string, event string, data interface{}) {
	r.mu.RLock()
	targets := make([]*Client, 0, len(connIDs))
	for _, id := range connIDs {
		if c, ok := r.clients[id]; ok {
			targets = append(targets, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range targets {
		c.Send(event, data)
	}
}

// SendToAll delivers a frame to every open connection.
func (r *Registry) SendToAll(event string, data interface{}) {
	r.mu.RLock()
	targets := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		targets = append(targets, c)
	}
	r.mu.RUnlock()
	for _, c := range targets {
		c.Send(event, data)
	}
}
