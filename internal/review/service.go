// File: internal/review/service.go
package review

import (
	"context"
	"fmt"

	"unihome_backend/internal/common"
	"unihome_backend/internal/notification"
	"unihome_backend/internal/policy"
	"unihome_backend/internal/property"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyReader provides the property lookups the review service needs.
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// Service defines the business logic for property reviews.
type Service interface {
	Create(ctx context.Context, identity policy.Identity, req CreateReviewRequest) (*Review, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, pq common.PaginationQuery) ([]Review, int64, error)
	Delete(ctx context.Context, identity policy.Identity, id uuid.UUID) error
}

type service struct {
	repo          Repository
	properties    PropertyReader
	notifications notification.Service
	logger        *zap.Logger
}

// NewService creates a new review service.
func NewService(
	repo Repository,
	properties PropertyReader,
	notifications notification.Service,
	logger *zap.Logger,
) Service {
	return &service{
		repo:          repo,
		properties:    properties,
		notifications: notifications,
		logger:        logger.Named("review_service"),
	}
}

func (s *service) Create(ctx context.Context, identity policy.Identity, req CreateReviewRequest) (*Review, error) {
	if err := policy.RequireRole(identity, common.RoleStudent); err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if p.LandlordID == identity.ID {
		return nil, common.ErrForbidden.WithDetails("You cannot review your own property.")
	}

	exists, err := s.repo.ExistsForStudentAndProperty(ctx, identity.ID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrConflict.WithDetails("You have already reviewed this property.")
	}

	review := &Review{
		StudentID:  identity.ID,
		PropertyID: req.PropertyID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, p.LandlordID, notification.ReviewPosted,
		fmt.Sprintf("%q received a new %d-star review.", p.Title, req.Rating),
		&p.ID)

	s.logger.Info("Review created",
		zap.String("reviewID", review.ID.String()),
		zap.String("propertyID", p.ID.String()),
		zap.Int("rating", req.Rating))
	return review, nil
}

func (s *service) ListByProperty(ctx context.Context, propertyID uuid.UUID, pq common.PaginationQuery) ([]Review, int64, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByProperty(ctx, propertyID, pq)
}

// Delete removes a review. Allowed for its author or an admin.
func (s *service) Delete(ctx context.Context, identity policy.Identity, id uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.RequireOwner(identity, review.StudentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Review deleted",
		zap.String("reviewID", id.String()),
		zap.String("deletedBy", identity.ID.String()))
	return nil
}
