package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/agent"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const progressChannel = "research_progress"

// Hub fans workflow progress events out to websocket subscribers.
// Clients subscribe per session; an empty session id subscribes to
// everything. Redis pub/sub relays events across instances.
type Hub struct {
	// SessionID -> subscribed clients. "" holds the firehose clients.
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance relay, may be nil.
	rdb *redis.Client

	// Identifies this instance on the relay channel so its own
	// publishes are not delivered twice to local clients.
	instanceID string

	logger logger.ILogger
}

var _ agent.Notifier = (*Hub)(nil)

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("progress.hub", "client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyProgress delivers a workflow stage transition to subscribers.
// It never blocks the workflow: slow clients get disconnected instead.
func (h *Hub) NotifyProgress(event agent.ProgressEvent) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "progress",
		"data": event,
	})
	if err != nil {
		return
	}

	h.deliverLocal(event.SessionID, data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), progressChannel, h.relayEnvelope(event.SessionID, data))
	}
}

func (h *Hub) relayEnvelope(sessionID string, message []byte) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"origin":     h.instanceID,
		"session_id": sessionID,
		"message":    json.RawMessage(message),
	})
	return payload
}

// handleRelay delivers a payload received on the Redis channel.
// Payloads originating from this instance were already delivered by
// NotifyProgress and are skipped.
func (h *Hub) handleRelay(payload []byte) {
	var relay struct {
		Origin    string          `json:"origin"`
		SessionID string          `json:"session_id"`
		Message   json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(payload, &relay); err != nil {
		h.logger.Warn("progress.hub", "bad relay payload", map[string]interface{}{"error": err.Error()})
		return
	}
	if relay.Origin == h.instanceID {
		return
	}
	h.deliverLocal(relay.SessionID, relay.Message)
}

func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0)
	targets = append(targets, h.clients[sessionID]...)
	if sessionID != "" {
		targets = append(targets, h.clients[""]...)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("progress.hub", "client send buffer full, dropping connection", map[string]interface{}{
				"session_id": client.SessionID,
			})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, progressChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleRelay([]byte(msg.Payload))
	}
}
