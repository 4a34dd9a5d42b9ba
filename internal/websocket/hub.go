package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"creation-workshop-be/internal/pkg/logger"
	"creation-workshop-be/pkg/chat"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "workshop_cluster_events"

// instanceID tags cluster fan-out messages so an instance skips its own
// echoes.
var instanceID = uuid.NewString()

// Hub fans the workshop channel feed out to every connected client.
// The workshop is one shared conversation, so there is no per-user
// targeting; everyone watching sees the same stream.
type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	// inbound receives frames typed by websocket clients
	inbound func(ctx context.Context, msg chat.Message) error
	channel string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, channel string, inbound func(ctx context.Context, msg chat.Message) error, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		inbound:    inbound,
		channel:    channel,
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
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes one channel post to every connected client and to
// the other instances via Redis.
func (h *Hub) Broadcast(msg chat.Message) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "chat_message",
		"data": msg,
	})

	h.broadcastLocal(data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"origin":  instanceID,
			"message": json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
				// Unregister closes Send; do not close here.
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			Origin  string          `json:"origin"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		// Skip what this instance already delivered locally.
		if payload.Origin == instanceID {
			continue
		}
		h.broadcastLocal(payload.Message)
	}
}
