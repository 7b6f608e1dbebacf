package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/netio"
	"github.com/jacogrande/high-noon-sub002/internal/world"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed.
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP.
	MaxWSConnectionsPerIP = 10

	broadcastInterval = 50 * time.Millisecond // 20Hz state broadcast
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("websocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient tracks one connected player's socket and the entity it drives.
type wsClient struct {
	conn     *websocket.Conn
	ip       string
	playerID ecs.EntityID
}

// clientMessage is the envelope a connected client sends; kind selects how
// payload is interpreted. A player only ever needs to submit input or
// confirm leaving camp, so the surface stays intentionally small.
type clientMessage struct {
	Kind  string             `json:"kind"`
	Input world.InputState   `json:"input,omitempty"`
}

// WebSocketHub fans a running match's snapshots out to every connected
// client and routes each client's inbound input back into the match it
// joined. Grounded on the teacher's internal/api/websocket.go hub (the
// register/unregister/broadcast channel loop and per-IP connection
// limiting survive unchanged); StartBroadcastLoop and HandleWebSocket are
// rewired from game.Engine state to netio.Match snapshots and InputState.
type WebSocketHub struct {
	match *netio.Match

	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a hub that broadcasts match's state.
func NewWebSocketHub(match *netio.Match) *WebSocketHub {
	return &WebSocketHub{
		match:      match,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run drives the hub's connection bookkeeping. Call it in its own
// goroutine once.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()
			UpdateWSConnections(len(h.clients))

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
				h.match.RemovePlayer(client.playerID)
			}
			h.mu.Unlock()
			UpdateWSConnections(len(h.clients))

		case message := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					h.mu.RUnlock()
					h.mu.Lock()
					if client, ok := h.clients[conn]; ok {
						h.wsLimiter.Release(client.ip)
						delete(h.clients, conn)
					}
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
			IncrementWSMessages("outbound")
		}
	}
}

// Broadcast enqueues event/data for every connected client. Non-blocking:
// a full channel drops the message rather than stalling the tick loop.
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{"event": event, "data": data})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop periodically broadcasts the match's snapshot. The
// simulation itself runs at 60Hz; clients only need state at display rate.
func (h *WebSocketHub) StartBroadcastLoop() {
	ticker := time.NewTicker(broadcastInterval)
	go func() {
		for range ticker.C {
			if h.ClientCount() == 0 {
				continue
			}
			h.Broadcast("state", h.match.Snapshot())
		}
	}()
}

// HandleWebSocket upgrades the request, joins a new player into the match,
// and relays every subsequent client message into that player's input.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	h.mu.RLock()
	total := len(h.clients)
	h.mu.RUnlock()
	if total >= MaxWSConnectionsTotal {
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.wsLimiter.Allow(ip) {
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsLimiter.Release(ip)
		return
	}

	characterID := r.URL.Query().Get("character")
	if characterID == "" {
		characterID = "gunslinger"
	}
	playerID := h.match.AddPlayer(characterID)

	client := &wsClient{conn: conn, ip: ip, playerID: playerID}
	h.register <- client

	welcome, _ := json.Marshal(map[string]interface{}{
		"event": "welcome",
		"data":  map[string]interface{}{"playerId": uint32(playerID)},
	})
	conn.WriteMessage(websocket.TextMessage, welcome)

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			IncrementWSMessages("inbound")
			var msg clientMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			switch msg.Kind {
			case "input":
				h.match.SubmitInput(playerID, msg.Input)
			case "ride_out":
				h.match.ConfirmRideOut()
			}
		}
	}()
}
