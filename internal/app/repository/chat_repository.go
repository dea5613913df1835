package repository

import (
	"time"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

type ChatRepository interface {
	CreateConversation(conv *model.Conversation) error
	FindConversationByID(id uint) (*model.Conversation, error)
	FindConversationsByUser(userID uint) ([]model.Conversation, error)
	FindAllConversations(limit, offset int) ([]model.Conversation, int64, error)
	UpdateConversation(conv *model.Conversation) error
	TouchLastMessage(conversationID uint, at time.Time) error

	CreateMessage(message *model.ChatMessage) error
	FindMessages(conversationID uint, limit, offset int) ([]model.ChatMessage, int64, error)
	FindMessagesSince(conversationID uint, sinceID uint) ([]model.ChatMessage, error)
	MarkMessagesRead(conversationID uint, fromAdmin bool) error
	CountUnread(conversationID uint, fromAdmin bool) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateConversation(conv *model.Conversation) error {
	logger.Debug("Creating conversation in database", map[string]interface{}{
		"user_id": conv.UserID,
		"subject": conv.Subject,
	})

	if err := r.db.Create(conv).Error; err != nil {
		logger.Error("Failed to create conversation in database", err, map[string]interface{}{
			"user_id": conv.UserID,
		})
		return err
	}
	return nil
}

func (r *chatRepository) FindConversationByID(id uint) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.db.Preload("User").First(&conv, id).Error; err != nil {
		logger.Debug("Conversation not found by ID", map[string]interface{}{
			"conversation_id": id,
			"error":           err.Error(),
		})
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepository) FindConversationsByUser(userID uint) ([]model.Conversation, error) {
	logger.Debug("Finding conversations by user", map[string]interface{}{
		"user_id": userID,
	})

	var convs []model.Conversation
	err := r.db.Where("user_id = ?", userID).
		Order("last_message_at DESC NULLS LAST").
		Order("created_at DESC").
		Find(&convs).Error
	if err != nil {
		logger.Error("Failed to find conversations by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return convs, nil
}

// FindAllConversations is the admin inbox: most recent activity first.
func (r *chatRepository) FindAllConversations(limit, offset int) ([]model.Conversation, int64, error) {
	logger.Debug("Finding all conversations", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var total int64
	if err := r.db.Model(&model.Conversation{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count conversations", err, nil)
		return nil, 0, err
	}

	query := r.db.Preload("User").
		Order("last_message_at DESC NULLS LAST").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var convs []model.Conversation
	if err := query.Find(&convs).Error; err != nil {
		logger.Error("Failed to find all conversations", err, nil)
		return nil, 0, err
	}
	return convs, total, nil
}

func (r *chatRepository) UpdateConversation(conv *model.Conversation) error {
	logger.Debug("Updating conversation in database", map[string]interface{}{
		"conversation_id": conv.ID,
		"is_open":         conv.IsOpen,
	})

	if err := r.db.Save(conv).Error; err != nil {
		logger.Error("Failed to update conversation in database", err, map[string]interface{}{
			"conversation_id": conv.ID,
		})
		return err
	}
	return nil
}

func (r *chatRepository) TouchLastMessage(conversationID uint, at time.Time) error {
	err := r.db.Model(&model.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at).Error
	if err != nil {
		logger.Error("Failed to touch conversation last message time", err, map[string]interface{}{
			"conversation_id": conversationID,
		})
		return err
	}
	return nil
}

func (r *chatRepository) CreateMessage(message *model.ChatMessage) error {
	logger.Debug("Creating chat message in database", map[string]interface{}{
		"conversation_id": message.ConversationID,
		"sender_id":       message.SenderID,
		"is_admin":        message.IsAdmin,
	})

	if err := r.db.Create(message).Error; err != nil {
		logger.Error("Failed to create chat message in database", err, map[string]interface{}{
			"conversation_id": message.ConversationID,
		})
		return err
	}
	return nil
}

func (r *chatRepository) FindMessages(conversationID uint, limit, offset int) ([]model.ChatMessage, int64, error) {
	logger.Debug("Finding chat messages", map[string]interface{}{
		"conversation_id": conversationID,
		"limit":           limit,
		"offset":          offset,
	})

	var total int64
	err := r.db.Model(&model.ChatMessage{}).
		Where("conversation_id = ?", conversationID).
		Count(&total).Error
	if err != nil {
		logger.Error("Failed to count chat messages", err, map[string]interface{}{
			"conversation_id": conversationID,
		})
		return nil, 0, err
	}

	query := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var messages []model.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		logger.Error("Failed to find chat messages", err, map[string]interface{}{
			"conversation_id": conversationID,
		})
		return nil, 0, err
	}
	return messages, total, nil
}

// FindMessagesSince returns messages newer than sinceID in send order.
// Pollers use it to fetch only the delta.
func (r *chatRepository) FindMessagesSince(conversationID uint, sinceID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.Where("conversation_id = ? AND id > ?", conversationID, sinceID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		logger.Error("Failed to find chat messages since ID", err, map[string]interface{}{
			"conversation_id": conversationID,
			"since_id":        sinceID,
		})
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead marks every unread message from one side as read.
// fromAdmin selects which side's messages to mark; the caller passes the
// opposite of the viewer's role.
func (r *chatRepository) MarkMessagesRead(conversationID uint, fromAdmin bool) error {
	logger.Debug("Marking chat messages as read", map[string]interface{}{
		"conversation_id": conversationID,
		"from_admin":      fromAdmin,
	})

	now := time.Now()
	err := r.db.Model(&model.ChatMessage{}).
		Where("conversation_id = ? AND is_admin = ? AND is_read = ?", conversationID, fromAdmin, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error
	if err != nil {
		logger.Error("Failed to mark chat messages as read", err, map[string]interface{}{
			"conversation_id": conversationID,
		})
		return err
	}
	return nil
}

func (r *chatRepository) CountUnread(conversationID uint, fromAdmin bool) (int64, error) {
	var count int64
	err := r.db.Model(&model.ChatMessage{}).
		Where("conversation_id = ? AND is_admin = ? AND is_read = ?", conversationID, fromAdmin, false).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count unread chat messages", err, map[string]interface{}{
			"conversation_id": conversationID,
		})
		return 0, err
	}
	return count, nil
}
