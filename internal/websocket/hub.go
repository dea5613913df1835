package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/pkg/logger"
)

// ClientMessage is an inbound frame from a connected client.
type ClientMessage struct {
	Type           string `json:"type"` // typing_start, typing_stop
	ConversationID uint   `json:"conversation_id"`
}

// Client is one WebSocket session. A user may hold several at once.
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserID        uint
	IsAdmin       bool
	Send          chan []byte
	Conversations map[uint]bool
	mu            sync.RWMutex
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

type Hub struct {
	// UserID -> sessions, multi-device
	clients map[uint][]*Client

	// ConversationID -> subscribed user IDs
	rooms map[uint]map[uint]bool

	unregister chan *Client
	broadcast  chan *BroadcastFrame

	mu sync.RWMutex
}

type BroadcastFrame struct {
	ConversationID uint
	Payload        []byte
	SenderID       uint // excluded from delivery
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		rooms:      make(map[uint]map[uint]bool),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastFrame, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)

					client.mu.RLock()
					for convID := range client.Conversations {
						if users, ok := h.rooms[convID]; ok {
							delete(users, client.UserID)
							if len(users) == 0 {
								delete(h.rooms, convID)
							}
						}
					}
					client.mu.RUnlock()
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case frame := <-h.broadcast:
			h.mu.RLock()
			if users, ok := h.rooms[frame.ConversationID]; ok {
				for userID := range users {
					if userID == frame.SenderID {
						continue
					}

					if clientList, ok := h.clients[userID]; ok {
						for _, client := range clientList {
							select {
							case client.Send <- frame.Payload:
							default:
								// Send buffer full, drop the session.
								go h.Unregister(client)
								logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
									"user_id": userID,
								})
							}
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// JoinConversation subscribes every session of a user to a conversation.
func (h *Hub) JoinConversation(userID, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			client.Conversations[conversationID] = true
			client.mu.Unlock()
		}

		if _, ok := h.rooms[conversationID]; !ok {
			h.rooms[conversationID] = make(map[uint]bool)
		}
		h.rooms[conversationID][userID] = true

		logger.Info("User joined conversation channel", map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
		})
	}
}

func (h *Hub) LeaveConversation(userID, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			delete(client.Conversations, conversationID)
			client.mu.Unlock()
		}
	}

	if users, ok := h.rooms[conversationID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(h.rooms, conversationID)
		}
	}
}

// BroadcastMessage pushes a persisted chat message to everyone subscribed to
// its conversation except the sender. Delivery is best-effort; polling is
// the source of truth.
func (h *Hub) BroadcastMessage(conversationID uint, message *model.ChatMessage) {
	envelope := map[string]interface{}{
		"type":            "message",
		"conversation_id": conversationID,
		"message":         message,
	}
	h.sendToConversation(conversationID, envelope, message.SenderID)
}

func (h *Hub) sendToConversation(conversationID uint, payload interface{}, senderID uint) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal broadcast payload", err, nil)
		return
	}

	select {
	case h.broadcast <- &BroadcastFrame{
		ConversationID: conversationID,
		Payload:        data,
		SenderID:       senderID,
	}:
	default:
		// Best-effort push, drop when the channel is saturated.
		logger.Warn("Broadcast channel full, frame dropped", map[string]interface{}{
			"conversation_id": conversationID,
		})
	}
}

// Register records the session immediately so a JoinConversation issued
// right after the handshake always sees it.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.UserID] = append(h.clients[client.UserID], client)
	total := len(h.clients[client.UserID])
	h.mu.Unlock()

	logger.Info("WebSocket client registered", map[string]interface{}{
		"user_id":        client.UserID,
		"total_sessions": total,
	})
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// HandleClientMessage processes an inbound frame, rate limited per client.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client frame", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "typing_start" || msg.Type == "typing_stop" {
		client.mu.RLock()
		_, subscribed := client.Conversations[msg.ConversationID]
		client.mu.RUnlock()

		if !subscribed {
			return
		}

		h.sendToConversation(msg.ConversationID, map[string]interface{}{
			"type":            msg.Type,
			"conversation_id": msg.ConversationID,
			"user_id":         client.UserID,
		}, client.UserID)
	}
}
