package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vnkhanh/forohub-backend/services"
)

const (
	sendBuffer = 256
	writeWait  = 10 * time.Second
)

// Client is one websocket connection subscribed to a topic or to the global feed.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub fans service events out to websocket subscribers. Topic events go to the
// topic's channel and to global subscribers; reply events go to the topic only.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	global map[*Client]struct{}
	log    *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		global: make(map[*Client]struct{}),
		log:    log.With("component", "ws"),
	}
}

func newClient(conn *websocket.Conn, userID string) *Client {
	return &Client{conn: conn, send: make(chan []byte, sendBuffer), userID: userID}
}

func (h *Hub) register(topicID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicID == "" {
		h.global[c] = struct{}{}
		return
	}
	if _, ok := h.topics[topicID]; !ok {
		h.topics[topicID] = make(map[*Client]struct{})
	}
	h.topics[topicID][c] = struct{}{}
}

func (h *Hub) unregister(topicID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicID == "" {
		if _, ok := h.global[c]; ok {
			close(c.send)
			delete(h.global, c)
		}
		return
	}
	if clients, ok := h.topics[topicID]; ok {
		if _, ok := clients[c]; ok {
			close(c.send)
			delete(clients, c)
		}
		if len(clients) == 0 {
			delete(h.topics, topicID)
		}
	}
}

// Broadcast queues data for every subscriber of the topic. Slow clients drop messages.
func (h *Hub) Broadcast(topicID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.topics[topicID] {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) BroadcastGlobal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.global {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Notify implements services.Notifier.
func (h *Hub) Notify(ev services.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal event", slog.String("type", ev.Type), slog.Any("error", err))
		return
	}
	h.Broadcast(ev.TopicID.String(), data)
	switch ev.Type {
	case services.EventTopicCreated, services.EventTopicUpdated, services.EventTopicDeleted:
		h.BroadcastGlobal(data)
	}
}

// Stats is reported by the health endpoint.
type Stats struct {
	Topics        int `json:"topics"`
	TopicClients  int `json:"topic_clients"`
	GlobalClients int `json:"global_clients"`
}

func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Stats{Topics: len(h.topics), GlobalClients: len(h.global)}
	for _, clients := range h.topics {
		s.TopicClients += len(clients)
	}
	return s
}

func (h *Hub) readPump(topicID string, c *Client) {
	defer h.unregister(topicID, c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
	defer func() {
		_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
		c.conn.Close()
	}()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
