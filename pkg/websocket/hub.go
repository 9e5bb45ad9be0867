// Package websocket streams live ride location ticks to connected clients.
// The hub keeps one room per ride and bridges it to the ephemeral location
// channel: the first client joining a room opens the subscription, the last
// one leaving closes it.
package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"motoride/internal/models"
	"motoride/internal/realtime"
	"motoride/pkg/logger"

	"github.com/gorilla/websocket"
)

type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongTimeout     time.Duration
	WriteTimeout    time.Duration
	AllowedOrigins  []string
}

func (c *Config) withDefaults() Config {
	cfg := Config{}
	if c != nil {
		cfg = *c
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = 1024
	}
	if cfg.WriteBufferSize <= 0 {
		cfg.WriteBufferSize = 1024
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 54 * time.Second
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 60 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return cfg
}

type Hub struct {
	mu       sync.Mutex
	rooms    map[string]map[*Client]bool
	unsubs   map[string]func()
	channel  realtime.Channel
	config   Config
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewHub(channel realtime.Channel, cfg *Config, log *logger.Logger) *Hub {
	h := &Hub{
		rooms:   make(map[string]map[*Client]bool),
		unsubs:  make(map[string]func()),
		channel: channel,
		config:  cfg.withDefaults(),
		log:     log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  h.config.ReadBufferSize,
		WriteBufferSize: h.config.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin admits requests without an Origin header (non-browser clients)
// and browser requests from the configured origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// ServeRide upgrades the connection and attaches it to the ride's room.
func (h *Hub) ServeRide(w http.ResponseWriter, r *http.Request, rideID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := newClient(h, conn, rideID)
	h.addClient(client)

	go client.writePump()
	go client.readPump()

	// Late subscribers get the last known position immediately.
	if update, ok := h.channel.Latest(r.Context(), rideID); ok {
		client.enqueue(marshalUpdate(update))
	}

	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[client.rideID]
	if room == nil {
		room = make(map[*Client]bool)
		h.rooms[client.rideID] = room
		h.unsubs[client.rideID] = h.channel.Subscribe(client.rideID, func(update models.LocationUpdate) {
			h.broadcast(update)
		})
	}
	room[client] = true

	h.log.WithRideID(client.rideID).Debug("Location stream client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.rideID]
	if !ok || !room[client] {
		return
	}

	delete(room, client)
	close(client.send)

	if len(room) == 0 {
		delete(h.rooms, client.rideID)
		if unsub := h.unsubs[client.rideID]; unsub != nil {
			unsub()
		}
		delete(h.unsubs, client.rideID)
	}

	h.log.WithRideID(client.rideID).Debug("Location stream client disconnected")
}

func (h *Hub) broadcast(update models.LocationUpdate) {
	data := marshalUpdate(update)

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[update.RideID] {
		client.enqueue(data)
	}
}

func marshalUpdate(update models.LocationUpdate) []byte {
	data, _ := json.Marshal(update)
	return data
}
