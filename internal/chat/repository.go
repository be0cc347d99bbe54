// File: internal/chat/repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for chat data operations.
type Repository interface {
	// FindOrCreateConversation resolves the single conversation for a
	// (student, landlord) pair, creating it if necessary.
	FindOrCreateConversation(ctx context.Context, studentID, landlordID uuid.UUID) (*Conversation, error)
	FindConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	CreateMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, pq common.PaginationQuery) ([]Message, int64, error)
	ListConversations(ctx context.Context, userID uuid.UUID, pq common.PaginationQuery) ([]Conversation, int64, error)
	LatestMessage(ctx context.Context, conversationID uuid.UUID) (*Message, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM chat repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// FindOrCreateConversation runs inside a transaction; the unique
// (student_id, landlord_id) index backstops concurrent creation.
func (r *gormRepository) FindOrCreateConversation(ctx context.Context, studentID, landlordID uuid.UUID) (*Conversation, error) {
	var conversation Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND landlord_id = ?", studentID, landlordID).
			First(&conversation).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up conversation: %w", err)
		}

		conversation = Conversation{StudentID: studentID, LandlordID: landlordID}
		if createErr := tx.Create(&conversation).Error; createErr != nil {
			// A concurrent sender won the race; use their row.
			if errors.Is(createErr, gorm.ErrDuplicatedKey) ||
				strings.Contains(createErr.Error(), "unique constraint") ||
				strings.Contains(createErr.Error(), "UNIQUE constraint") {
				return tx.Where("student_id = ? AND landlord_id = ?", studentID, landlordID).
					First(&conversation).Error
			}
			return fmt.Errorf("failed to create conversation: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *gormRepository) FindConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var conversation Conversation
	err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Conversation not found.")
		}
		return nil, fmt.Errorf("failed to find conversation %s: %w", id, err)
	}
	return &conversation, nil
}

// CreateMessage inserts the message and bumps the conversation's
// activity timestamp in one transaction.
func (r *gormRepository) CreateMessage(ctx context.Context, message *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		if err := tx.Model(&Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", time.Now()).Error; err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}
		return nil
	})
}

// ListMessages returns a conversation's messages in chronological order.
func (r *gormRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, pq common.PaginationQuery) ([]Message, int64, error) {
	var messages []Message
	var total int64

	query := r.db.WithContext(ctx).Model(&Message{}).Where("conversation_id = ?", conversationID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}
	err := query.Order("created_at ASC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&messages).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, total, nil
}

// ListConversations returns a user's conversations ordered by last
// activity, newest first.
func (r *gormRepository) ListConversations(ctx context.Context, userID uuid.UUID, pq common.PaginationQuery) ([]Conversation, int64, error) {
	var conversations []Conversation
	var total int64

	query := r.db.WithContext(ctx).Model(&Conversation{}).
		Where("student_id = ? OR landlord_id = ?", userID, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	err := query.Order("updated_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&conversations).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, total, nil
}

// LatestMessage returns the most recent message of a conversation, or
// nil when the conversation is empty.
func (r *gormRepository) LatestMessage(ctx context.Context, conversationID uuid.UUID) (*Message, error) {
	var message Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest message: %w", err)
	}
	return &message, nil
}
