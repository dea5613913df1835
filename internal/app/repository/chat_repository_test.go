package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/db"
	"gorm.io/gorm"
)

func setupChatTest(t *testing.T) (*gorm.DB, ChatRepository, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewChatRepository(testDB)

	user := &model.User{
		Email:        "customer@example.com",
		PasswordHash: "hash",
		Name:         "Customer",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Name:         "Admin",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	return testDB, repo, user, admin
}

func startConversation(t *testing.T, repo ChatRepository, user *model.User, subject string) *model.Conversation {
	conv := &model.Conversation{UserID: user.ID, Subject: subject, IsOpen: true}
	require.NoError(t, repo.CreateConversation(conv))
	return conv
}

func TestChatRepository_CreateConversation(t *testing.T) {
	_, repo, user, _ := setupChatTest(t)

	conv := startConversation(t, repo, user, "Order question")
	assert.NotZero(t, conv.ID)

	found, err := repo.FindConversationByID(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Order question", found.Subject)
	assert.True(t, found.IsOpen)
}

func TestChatRepository_FindConversationsByUser(t *testing.T) {
	testDB, repo, user, _ := setupChatTest(t)

	startConversation(t, repo, user, "First")
	startConversation(t, repo, user, "Second")

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)
	startConversation(t, repo, other, "Not mine")

	convs, err := repo.FindConversationsByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, convs, 2)
}

func TestChatRepository_TouchLastMessage_SortsInbox(t *testing.T) {
	_, repo, user, _ := setupChatTest(t)

	first := startConversation(t, repo, user, "First")
	second := startConversation(t, repo, user, "Second")

	require.NoError(t, repo.TouchLastMessage(first.ID, time.Now().Add(time.Hour)))
	require.NoError(t, repo.TouchLastMessage(second.ID, time.Now()))

	convs, total, err := repo.FindAllConversations(20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, convs, 2)
	assert.Equal(t, first.ID, convs[0].ID)
}

func TestChatRepository_Messages(t *testing.T) {
	_, repo, user, admin := setupChatTest(t)

	conv := startConversation(t, repo, user, "Order question")

	require.NoError(t, repo.CreateMessage(&model.ChatMessage{ConversationID: conv.ID, SenderID: user.ID, Content: "Where is my order?"}))
	require.NoError(t, repo.CreateMessage(&model.ChatMessage{ConversationID: conv.ID, SenderID: admin.ID, Content: "Shipped yesterday", IsAdmin: true}))

	messages, total, err := repo.FindMessages(conv.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, messages, 2)
	// Oldest first
	assert.Equal(t, "Where is my order?", messages[0].Content)
}

func TestChatRepository_FindMessagesSince(t *testing.T) {
	_, repo, user, admin := setupChatTest(t)

	conv := startConversation(t, repo, user, "Order question")

	first := &model.ChatMessage{ConversationID: conv.ID, SenderID: user.ID, Content: "Hello"}
	require.NoError(t, repo.CreateMessage(first))
	require.NoError(t, repo.CreateMessage(&model.ChatMessage{ConversationID: conv.ID, SenderID: admin.ID, Content: "Hi", IsAdmin: true}))

	messages, err := repo.FindMessagesSince(conv.ID, first.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hi", messages[0].Content)

	messages, err = repo.FindMessagesSince(conv.ID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestChatRepository_ReadState(t *testing.T) {
	_, repo, user, admin := setupChatTest(t)

	conv := startConversation(t, repo, user, "Order question")

	require.NoError(t, repo.CreateMessage(&model.ChatMessage{ConversationID: conv.ID, SenderID: user.ID, Content: "One"}))
	require.NoError(t, repo.CreateMessage(&model.ChatMessage{ConversationID: conv.ID, SenderID: user.ID, Content: "Two"}))
	require.NoError(t, repo.CreateMessage(&model.ChatMessage{ConversationID: conv.ID, SenderID: admin.ID, Content: "Reply", IsAdmin: true}))

	// Two unread customer messages and one unread admin reply
	fromCustomer, err := repo.CountUnread(conv.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fromCustomer)

	fromAdmin, err := repo.CountUnread(conv.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fromAdmin)

	// Admin reads the customer side; the admin reply stays unread
	require.NoError(t, repo.MarkMessagesRead(conv.ID, false))

	fromCustomer, err = repo.CountUnread(conv.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fromCustomer)

	fromAdmin, err = repo.CountUnread(conv.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fromAdmin)
}
