package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/vestra/vestra-backend/internal/app/service"
	apperrors "github.com/vestra/vestra-backend/internal/errors"
	"github.com/vestra/vestra-backend/internal/middleware"
	"github.com/vestra/vestra-backend/internal/websocket"
)

type ChatController struct {
	chatService service.ChatService
	hub         *websocket.Hub
	upgrader    gorillaws.Upgrader
}

func NewChatController(chatService service.ChatService, hub *websocket.Hub) *ChatController {
	return &ChatController{
		chatService: chatService,
		hub:         hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS layer in front of this.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type StartConversationRequest struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// StartConversation opens a new support thread
// POST /api/v1/chat/conversations
func (ctrl *ChatController) StartConversation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	conv, err := ctrl.chatService.StartConversation(userID, req.Subject, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySubject), errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Subject and content are required",
			})
		default:
			log.Error("Failed to start conversation", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, err, "start conversation")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"conversation": conv,
	})
}

// GetMyConversations lists the caller's threads with unread counts
// GET /api/v1/chat/conversations
func (ctrl *ChatController) GetMyConversations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	convs, err := ctrl.chatService.GetUserConversations(userID)
	if err != nil {
		log.Error("Failed to fetch conversations", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, err, "fetch conversations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": convs,
	})
}

// GetMessages returns a page of a conversation and marks it read
// GET /api/v1/chat/conversations/:id/messages
func (ctrl *ChatController) GetMessages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid conversation ID",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := ctrl.chatService.GetMessages(userID, middleware.IsAdmin(c), uint(convID), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Conversation not found",
			})
			return
		}
		log.Error("Failed to fetch messages", err, map[string]interface{}{
			"conversation_id": convID,
		})
		apperrors.ParseAndRespond(c, err, "fetch messages")
		return
	}

	c.JSON(http.StatusOK, page)
}

// PollMessages returns messages newer than since_id
// GET /api/v1/chat/conversations/:id/messages/poll
func (ctrl *ChatController) PollMessages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid conversation ID",
		})
		return
	}

	sinceID, _ := strconv.ParseUint(c.DefaultQuery("since_id", "0"), 10, 32)

	messages, err := ctrl.chatService.PollMessages(userID, middleware.IsAdmin(c), uint(convID), uint(sinceID))
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Conversation not found",
			})
			return
		}
		log.Error("Failed to poll messages", err, map[string]interface{}{
			"conversation_id": convID,
		})
		apperrors.ParseAndRespond(c, err, "poll messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}

// SendMessage appends to a conversation
// POST /api/v1/chat/conversations/:id/messages
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid conversation ID",
		})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	message, err := ctrl.chatService.SendMessage(userID, middleware.IsAdmin(c), uint(convID), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Conversation not found",
			})
		case errors.Is(err, service.ErrConversationClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Conversation is closed",
			})
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Message content is empty",
			})
		default:
			log.Error("Failed to send message", err, map[string]interface{}{
				"conversation_id": convID,
			})
			apperrors.ParseAndRespond(c, err, "send message")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
	})
}

// GetInbox is the admin support inbox
// GET /api/v1/admin/chat/conversations
func (ctrl *ChatController) GetInbox(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	convs, total, err := ctrl.chatService.GetAdminInbox(limit, offset)
	if err != nil {
		log.Error("Failed to fetch admin inbox", err, nil)
		apperrors.ParseAndRespond(c, err, "fetch inbox")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": convs,
		"total":         total,
	})
}

// CloseConversation blocks further customer replies (admin)
// POST /api/v1/admin/chat/conversations/:id/close
func (ctrl *ChatController) CloseConversation(c *gin.Context) {
	ctrl.setConversationOpen(c, false)
}

// ReopenConversation re-enables customer replies (admin)
// POST /api/v1/admin/chat/conversations/:id/reopen
func (ctrl *ChatController) ReopenConversation(c *gin.Context) {
	ctrl.setConversationOpen(c, true)
}

func (ctrl *ChatController) setConversationOpen(c *gin.Context, open bool) {
	log := middleware.GetLoggerFromContext(c)

	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid conversation ID",
		})
		return
	}

	var conv interface{}
	if open {
		conv, err = ctrl.chatService.ReopenConversation(uint(convID))
	} else {
		conv, err = ctrl.chatService.CloseConversation(uint(convID))
	}
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Conversation not found",
			})
			return
		}
		log.Error("Failed to change conversation state", err, map[string]interface{}{
			"conversation_id": convID,
		})
		apperrors.ParseAndRespond(c, err, "update conversation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
	})
}

// HandleWebSocket upgrades the connection and subscribes the client to a
// conversation for live pushes. Polling remains the fallback path.
// GET /api/v1/chat/conversations/:id/ws
func (ctrl *ChatController) HandleWebSocket(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	convID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid conversation ID",
		})
		return
	}

	isAdmin := middleware.IsAdmin(c)
	if _, err := ctrl.chatService.Authorize(userID, isAdmin, uint(convID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Conversation not found",
		})
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:           ctrl.hub,
		Conn:          &websocket.Conn{Conn: conn},
		UserID:        userID,
		IsAdmin:       isAdmin,
		Send:          make(chan []byte, 256),
		Conversations: make(map[uint]bool),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)
	ctrl.hub.JoinConversation(userID, uint(convID))

	go client.WritePump()
	go client.ReadPump()
}
