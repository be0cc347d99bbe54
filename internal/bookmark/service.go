// File: internal/bookmark/service.go
package bookmark

import (
	"context"

	"unihome_backend/internal/common"
	"unihome_backend/internal/policy"
	"unihome_backend/internal/property"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyReader provides the property lookups the bookmark service needs.
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// Service defines the business logic for saved properties.
type Service interface {
	Save(ctx context.Context, identity policy.Identity, req SavePropertyRequest) (*SavedProperty, error)
	List(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]SavedProperty, int64, error)
	Remove(ctx context.Context, identity policy.Identity, id uuid.UUID) error
}

type service struct {
	repo       Repository
	properties PropertyReader
	logger     *zap.Logger
}

// NewService creates a new bookmark service.
func NewService(repo Repository, properties PropertyReader, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		properties: properties,
		logger:     logger.Named("bookmark_service"),
	}
}

func (s *service) Save(ctx context.Context, identity policy.Identity, req SavePropertyRequest) (*SavedProperty, error) {
	if err := policy.RequireRole(identity, common.RoleStudent); err != nil {
		return nil, err
	}
	if _, err := s.properties.GetByID(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForStudentAndProperty(ctx, identity.ID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrConflict.WithDetails("Property is already saved.")
	}

	sp := &SavedProperty{
		StudentID:  identity.ID,
		PropertyID: req.PropertyID,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}

	s.logger.Info("Property saved",
		zap.String("studentID", identity.ID.String()),
		zap.String("propertyID", req.PropertyID.String()))
	return sp, nil
}

func (s *service) List(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]SavedProperty, int64, error) {
	if err := policy.RequireRole(identity, common.RoleStudent); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByStudent(ctx, identity.ID, pq)
}

func (s *service) Remove(ctx context.Context, identity policy.Identity, id uuid.UUID) error {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.RequireOwner(identity, sp.StudentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
