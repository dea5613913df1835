package model

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a customer⇄admin support thread. Conversations are never
// deleted; closing one only blocks further customer replies.
type Conversation struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Subject       string         `gorm:"type:varchar(255);not null" json:"subject"`
	IsOpen        bool           `gorm:"default:true" json:"is_open"`
	LastMessageAt *time.Time     `gorm:"index" json:"last_message_at,omitempty"` // inbox sort key
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"`

	User     User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []ChatMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// ChatMessage is one append-only entry in a conversation. IsAdmin marks which
// side sent it; IsRead tracks whether the *other* side has seen it, so the
// two directions keep independent read state.
type ChatMessage struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	ConversationID uint           `gorm:"not null;index:idx_conv_created,priority:1" json:"conversation_id"`
	SenderID       uint           `gorm:"not null" json:"sender_id"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	IsAdmin        bool           `gorm:"default:false;index" json:"is_admin"`
	IsRead         bool           `gorm:"default:false;index" json:"is_read"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	CreatedAt      time.Time      `gorm:"index:idx_conv_created,priority:2" json:"created_at"`
	DeletedAt      gorm.DeletedAt `json:"-"`

	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	Sender       User         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ConversationWithUnread decorates a conversation with the viewer-relative
// unread count: messages sent by the other party that are still unread.
type ConversationWithUnread struct {
	Conversation
	UnreadCount int64 `json:"unread_count"`
}
