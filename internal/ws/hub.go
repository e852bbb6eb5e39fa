package ws

import (
	"encoding/json"
	"sync"

	"todo_backend/internal/domain"
	"todo_backend/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "todo_ws_clients",
	Help: "Connected task feed clients",
})

func init() {
	prometheus.MustRegister(connectedClients)
}

// Hub fans task events out to the websocket clients of the owning tenant.
type Hub struct {
	mu      sync.RWMutex
	tenants map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{tenants: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.tenants[c.TenantID]
	if !ok {
		set = make(map[*Client]struct{})
		h.tenants[c.TenantID] = set
	}
	set[c] = struct{}{}
	connectedClients.Inc()
	logger.Debug("ws client registered", "tenant_id", c.TenantID)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
}

// remove must be called with h.mu held.
func (h *Hub) remove(c *Client) {
	set, ok := h.tenants[c.TenantID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.tenants, c.TenantID)
	}
	close(c.Send)
	connectedClients.Dec()
	logger.Debug("ws client unregistered", "tenant_id", c.TenantID)
}

// Clients returns the number of subscribers for tenantID
func (h *Hub) Clients(tenantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tenants[tenantID])
}

// Publish delivers ev to every client of ev.TenantID. A client whose buffer is
// full is dropped.
func (h *Hub) Publish(ev domain.TaskEvent) {
	msg, err := json.Marshal(Message{Type: ev.Type, Task: &ev})
	if err != nil {
		logger.Error("ws marshal event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.tenants[ev.TenantID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws client too slow, dropping", "tenant_id", c.TenantID)
			h.remove(c)
		}
	}
}
