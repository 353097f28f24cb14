package realtime

import (
	"context"
	"sync"
	"time"

	"academy/metrics"

	"github.com/sirupsen/logrus"
)

// DashboardUpdate tells the clients of a team to refresh their dashboard
type DashboardUpdate struct {
	TeamID     uint      `json:"team_id"`
	UpdateType string    `json:"update_type"` // "submitted" or "reviewed"
	At         time.Time `json:"at"`
}

// writeWait bounds a single write so a stalled client cannot hold up delivery
const writeWait = 10 * time.Second

// Conn is the part of a websocket connection the hub writes to
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
	Close() error
}

// Hub keeps the websocket clients of every team and fans updates out to them
type Hub struct {
	mu        sync.Mutex
	clients   map[uint]map[Conn]bool // team id -> connected clients
	broadcast chan DashboardUpdate
	now       func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[uint]map[Conn]bool),
		broadcast: make(chan DashboardUpdate, 256),
		now:       time.Now,
	}
}

// Register adds a websocket client to a team
func (h *Hub) Register(teamID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[teamID] == nil {
		h.clients[teamID] = make(map[Conn]bool)
	}
	h.clients[teamID][conn] = true
	metrics.WebsocketClients.Inc()
}

// Unregister removes a websocket client from a team
func (h *Hub) Unregister(teamID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(teamID, conn)
}

func (h *Hub) remove(teamID uint, conn Conn) {
	clients, exists := h.clients[teamID]
	if !exists || !clients[conn] {
		return
	}
	delete(clients, conn)
	metrics.WebsocketClients.Dec()
	if len(clients) == 0 {
		delete(h.clients, teamID)
	}
}

// ClientCount returns the number of clients connected for a team
func (h *Hub) ClientCount(teamID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[teamID])
}

// Publish queues an update for the clients of a team. Updates are dropped when the queue is full.
func (h *Hub) Publish(teamID uint, updateType string) {
	update := DashboardUpdate{TeamID: teamID, UpdateType: updateType, At: h.now()}
	select {
	case h.broadcast <- update:
	default:
		logrus.WithField("team_id", teamID).Warn("realtime queue full, dropping update")
	}
}

// Run delivers queued updates until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

func (h *Hub) deliver(update DashboardUpdate) {
	h.mu.Lock()
	clients := make([]Conn, 0, len(h.clients[update.TeamID]))
	for client := range h.clients[update.TeamID] {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	// writes happen outside the lock so other teams can register and unregister meanwhile
	for _, client := range clients {
		err := client.SetWriteDeadline(h.now().Add(writeWait))
		if err == nil {
			err = client.WriteJSON(update)
		}
		if err != nil {
			logrus.WithError(err).WithField("team_id", update.TeamID).Warn("websocket write error")
			client.Close()
			h.Unregister(update.TeamID, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for teamID, clients := range h.clients {
		for client := range clients {
			client.Close()
			h.remove(teamID, client)
		}
	}
}
