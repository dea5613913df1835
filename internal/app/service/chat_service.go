package service

import (
	"errors"
	"strings"
	"time"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationClosed   = errors.New("conversation is closed")
	ErrEmptyMessage         = errors.New("message content is empty")
	ErrEmptySubject         = errors.New("conversation subject is empty")
)

// ChatNotifier receives messages as they are persisted so connected clients
// can be pushed the update without waiting for the next poll.
type ChatNotifier interface {
	BroadcastMessage(conversationID uint, message *model.ChatMessage)
}

// MessagePage is one page of a conversation's messages.
type MessagePage struct {
	Messages []model.ChatMessage `json:"messages"`
	Total    int64               `json:"total"`
}

type ChatService interface {
	StartConversation(userID uint, subject, content string) (*model.Conversation, error)
	Authorize(userID uint, isAdmin bool, conversationID uint) (*model.Conversation, error)
	GetUserConversations(userID uint) ([]model.ConversationWithUnread, error)
	GetAdminInbox(limit, offset int) ([]model.ConversationWithUnread, int64, error)
	GetMessages(userID uint, isAdmin bool, conversationID uint, limit, offset int) (*MessagePage, error)
	PollMessages(userID uint, isAdmin bool, conversationID uint, sinceID uint) ([]model.ChatMessage, error)
	SendMessage(userID uint, isAdmin bool, conversationID uint, content string) (*model.ChatMessage, error)
	CloseConversation(conversationID uint) (*model.Conversation, error)
	ReopenConversation(conversationID uint) (*model.Conversation, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	notifier ChatNotifier
}

// NewChatService builds the chat service. notifier may be nil; polling then
// remains the only delivery path.
func NewChatService(chatRepo repository.ChatRepository, notifier ChatNotifier) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		notifier: notifier,
	}
}

func (s *chatService) StartConversation(userID uint, subject, content string) (*model.Conversation, error) {
	logger.Info("Starting conversation", map[string]interface{}{
		"user_id": userID,
		"subject": subject,
	})

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	conv := &model.Conversation{
		UserID:  userID,
		Subject: subject,
		IsOpen:  true,
	}
	if err := s.chatRepo.CreateConversation(conv); err != nil {
		return nil, err
	}

	message := &model.ChatMessage{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        content,
		IsAdmin:        false,
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		logger.Error("Failed to create opening message", err, map[string]interface{}{
			"conversation_id": conv.ID,
		})
		return nil, err
	}

	now := time.Now()
	if err := s.chatRepo.TouchLastMessage(conv.ID, now); err != nil {
		return nil, err
	}
	conv.LastMessageAt = &now

	if s.notifier != nil {
		s.notifier.BroadcastMessage(conv.ID, message)
	}

	logger.Info("Conversation started", map[string]interface{}{
		"conversation_id": conv.ID,
		"user_id":         userID,
	})
	return conv, nil
}

func (s *chatService) GetUserConversations(userID uint) ([]model.ConversationWithUnread, error) {
	logger.Debug("Fetching user conversations", map[string]interface{}{
		"user_id": userID,
	})

	convs, err := s.chatRepo.FindConversationsByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ConversationWithUnread, 0, len(convs))
	for _, conv := range convs {
		unread, err := s.chatRepo.CountUnread(conv.ID, true)
		if err != nil {
			return nil, err
		}
		result = append(result, model.ConversationWithUnread{
			Conversation: conv,
			UnreadCount:  unread,
		})
	}
	return result, nil
}

func (s *chatService) GetAdminInbox(limit, offset int) ([]model.ConversationWithUnread, int64, error) {
	logger.Debug("Fetching admin inbox", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	convs, total, err := s.chatRepo.FindAllConversations(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]model.ConversationWithUnread, 0, len(convs))
	for _, conv := range convs {
		unread, err := s.chatRepo.CountUnread(conv.ID, false)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, model.ConversationWithUnread{
			Conversation: conv,
			UnreadCount:  unread,
		})
	}
	return result, total, nil
}

// Authorize loads a conversation and enforces that the viewer is either the
// owning customer or an admin.
func (s *chatService) Authorize(userID uint, isAdmin bool, conversationID uint) (*model.Conversation, error) {
	conv, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if !isAdmin && conv.UserID != userID {
		logger.Warn("Conversation access denied", map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
			"owner_id":        conv.UserID,
		})
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// GetMessages returns a page of the conversation and marks the other side's
// messages as read for the viewer.
func (s *chatService) GetMessages(userID uint, isAdmin bool, conversationID uint, limit, offset int) (*MessagePage, error) {
	if _, err := s.Authorize(userID, isAdmin, conversationID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	messages, total, err := s.chatRepo.FindMessages(conversationID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Viewing marks the opposite side's messages read.
	if err := s.chatRepo.MarkMessagesRead(conversationID, !isAdmin); err != nil {
		return nil, err
	}

	return &MessagePage{Messages: messages, Total: total}, nil
}

func (s *chatService) PollMessages(userID uint, isAdmin bool, conversationID uint, sinceID uint) ([]model.ChatMessage, error) {
	if _, err := s.Authorize(userID, isAdmin, conversationID); err != nil {
		return nil, err
	}
	return s.chatRepo.FindMessagesSince(conversationID, sinceID)
}

// SendMessage appends to a conversation. Customers cannot reply to a closed
// conversation; admins can, which keeps follow-ups possible.
func (s *chatService) SendMessage(userID uint, isAdmin bool, conversationID uint, content string) (*model.ChatMessage, error) {
	logger.Info("Sending chat message", map[string]interface{}{
		"user_id":         userID,
		"conversation_id": conversationID,
		"is_admin":        isAdmin,
	})

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.Authorize(userID, isAdmin, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.IsOpen && !isAdmin {
		logger.Warn("Message rejected: conversation closed", map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
		})
		return nil, ErrConversationClosed
	}

	message := &model.ChatMessage{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
		IsAdmin:        isAdmin,
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	if err := s.chatRepo.TouchLastMessage(conversationID, time.Now()); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BroadcastMessage(conversationID, message)
	}

	logger.Info("Chat message sent", map[string]interface{}{
		"message_id":      message.ID,
		"conversation_id": conversationID,
	})
	return message, nil
}

func (s *chatService) CloseConversation(conversationID uint) (*model.Conversation, error) {
	logger.Info("Closing conversation", map[string]interface{}{
		"conversation_id": conversationID,
	})
	return s.setOpen(conversationID, false)
}

func (s *chatService) ReopenConversation(conversationID uint) (*model.Conversation, error) {
	logger.Info("Reopening conversation", map[string]interface{}{
		"conversation_id": conversationID,
	})
	return s.setOpen(conversationID, true)
}

func (s *chatService) setOpen(conversationID uint, open bool) (*model.Conversation, error) {
	conv, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	conv.IsOpen = open
	if err := s.chatRepo.UpdateConversation(conv); err != nil {
		return nil, err
	}
	return conv, nil
}
