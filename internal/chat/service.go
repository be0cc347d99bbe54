// File: internal/chat/service.go
package chat

import (
	"context"
	"errors"
	"fmt"

	"unihome_backend/internal/common"
	"unihome_backend/internal/notification"
	"unihome_backend/internal/policy"
	"unihome_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserReader is the slice of the user service chat needs to resolve
// participants. shared.Service satisfies it.
type UserReader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error)
}

// Service defines the interface for chat business logic.
type Service interface {
	SendMessage(ctx context.Context, identity policy.Identity, req SendMessageRequest) (*Message, error)
	GetMessages(ctx context.Context, identity policy.Identity, conversationID uuid.UUID, pq common.PaginationQuery) ([]Message, int64, error)
	ListConversations(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]ConversationResponse, int64, error)
}

type service struct {
	repo          Repository
	users         UserReader
	notifications notification.Service
	logger        *zap.Logger
}

// NewService creates a new chat service.
func NewService(repo Repository, users UserReader, notifications notification.Service, logger *zap.Logger) Service {
	return &service{
		repo:          repo,
		users:         users,
		notifications: notifications,
		logger:        logger.Named("chat_service"),
	}
}

// SendMessage delivers a message from the authenticated user to the
// receiver, creating the conversation on first contact. Conversations
// only exist between a student and a landlord.
func (s *service) SendMessage(ctx context.Context, identity policy.Identity, req SendMessageRequest) (*Message, error) {
	if req.ReceiverID == identity.ID {
		return nil, common.ErrBadRequest.WithDetails("You cannot send a message to yourself.")
	}

	receiver, err := s.users.GetUserByID(ctx, req.ReceiverID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("Receiver not found.")
		}
		return nil, err
	}

	studentID, landlordID, err := resolvePair(identity.ID, identity.Role, receiver.ID, receiver.Role)
	if err != nil {
		return nil, err
	}

	conversation, err := s.repo.FindOrCreateConversation(ctx, studentID, landlordID)
	if err != nil {
		return nil, err
	}

	message := &Message{
		ConversationID: conversation.ID,
		SenderID:       identity.ID,
		ReceiverID:     receiver.ID,
		Content:        req.Content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, receiver.ID, notification.MessageReceived,
		"You have received a new message.", nil)

	return message, nil
}

// GetMessages returns a conversation's messages, oldest first. Only the
// two participants (and admins) may read them.
func (s *service) GetMessages(ctx context.Context, identity policy.Identity, conversationID uuid.UUID, pq common.PaginationQuery) ([]Message, int64, error) {
	conversation, err := s.repo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if err := policy.RequireParticipant(identity, conversation.StudentID, conversation.LandlordID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListMessages(ctx, conversationID, pq)
}

// ListConversations returns the caller's conversations ordered by last
// activity, each carrying the latest message as a preview.
func (s *service) ListConversations(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]ConversationResponse, int64, error) {
	conversations, total, err := s.repo.ListConversations(ctx, identity.ID, pq)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ConversationResponse, 0, len(conversations))
	for i := range conversations {
		resp := ToConversationResponse(&conversations[i])
		latest, err := s.repo.LatestMessage(ctx, conversations[i].ID)
		if err != nil {
			s.logger.Warn("Failed to load conversation preview",
				zap.String("conversationID", conversations[i].ID.String()), zap.Error(err))
		} else if latest != nil {
			preview := ToMessageResponse(latest)
			resp.LatestMessage = &preview
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

// resolvePair orients a (sender, receiver) pair into (student, landlord)
// and rejects pairs that are not one of each.
func resolvePair(senderID uuid.UUID, senderRole string, receiverID uuid.UUID, receiverRole string) (studentID, landlordID uuid.UUID, err error) {
	switch {
	case senderRole == common.RoleStudent && receiverRole == common.RoleLandlord:
		return senderID, receiverID, nil
	case senderRole == common.RoleLandlord && receiverRole == common.RoleStudent:
		return receiverID, senderID, nil
	default:
		return uuid.Nil, uuid.Nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("Conversations are between a student and a landlord; got %s and %s.", senderRole, receiverRole))
	}
}
