// File: internal/chat/model.go
package chat

import (
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
)

// Conversation is the single thread between one student and one
// landlord, regardless of who sent the first message.
type Conversation struct {
	common.BaseModel
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index:idx_conversation_pair,unique"`
	LandlordID uuid.UUID `gorm:"type:uuid;not null;index:idx_conversation_pair,unique"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message is a single chat message inside a conversation.
type Message struct {
	common.BaseModel
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	ReceiverID     uuid.UUID `gorm:"type:uuid;not null"`
	Content        string    `gorm:"type:text;not null"`
}

func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest defines the payload for sending a message.
type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Content    string    `json:"content" binding:"required,min=1,max=5000"`
}

// MessageResponse is the API shape of a message.
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	ReceiverID     uuid.UUID `json:"receiver_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToMessageResponse converts the model to its API shape.
func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMessageResponses converts a slice of messages.
func ToMessageResponses(messages []Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, ToMessageResponse(&messages[i]))
	}
	return out
}

// ConversationResponse is a conversation plus its latest message.
type ConversationResponse struct {
	ID            uuid.UUID        `json:"id"`
	StudentID     uuid.UUID        `json:"student_id"`
	LandlordID    uuid.UUID        `json:"landlord_id"`
	LatestMessage *MessageResponse `json:"latest_message,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ToConversationResponse converts the model without its preview; the
// caller attaches the latest message separately.
func ToConversationResponse(c *Conversation) ConversationResponse {
	return ConversationResponse{
		ID:         c.ID,
		StudentID:  c.StudentID,
		LandlordID: c.LandlordID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
