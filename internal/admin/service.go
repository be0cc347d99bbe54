// File: internal/admin/service.go
package admin

import (
	"context"
	"errors"

	"unihome_backend/internal/common"
	"unihome_backend/internal/policy"
	"unihome_backend/internal/property"
	"unihome_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Counter reports how many rows a table holds. The entity repositories
// satisfy it.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Counters bundles the per-entity counters the stats endpoint reads.
type Counters struct {
	Users           Counter
	Properties      Counter
	ViewingRequests Counter
	Reviews         Counter
}

// UserAdmin is the slice of the user service the admin module needs.
// *user.ServiceImplementation satisfies it.
type UserAdmin interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error)
	ListUsers(ctx context.Context, pq common.PaginationQuery) ([]shared.User, int64, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// Service defines the interface for admin business logic. Role
// enforcement happens in the route middleware; services here assume an
// admin caller and only guard invariants.
type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context, pq common.PaginationQuery) ([]shared.User, int64, error)
	DeleteUser(ctx context.Context, identity policy.Identity, id uuid.UUID) error
	ListProperties(ctx context.Context, pq common.PaginationQuery) ([]property.Property, int64, error)
	DeleteProperty(ctx context.Context, identity policy.Identity, id uuid.UUID) error
	CreateFlag(ctx context.Context, identity policy.Identity, req CreateFlagRequest) (*AdminFlag, error)
	ListFlags(ctx context.Context, resolved *bool, pq common.PaginationQuery) ([]AdminFlag, int64, error)
	ResolveFlag(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo       Repository
	users      UserAdmin
	properties property.Service
	counters   Counters
	logger     *zap.Logger
}

// NewService creates a new admin service.
func NewService(repo Repository, users UserAdmin, properties property.Service, counters Counters, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		users:      users,
		properties: properties,
		counters:   counters,
		logger:     logger.Named("admin_service"),
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	counts := []struct {
		counter Counter
		dest    *int64
	}{
		{s.counters.Users, &stats.Users},
		{s.counters.Properties, &stats.Properties},
		{s.counters.ViewingRequests, &stats.ViewingRequests},
		{s.counters.Reviews, &stats.Reviews},
	}
	for _, c := range counts {
		n, err := c.counter.Count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	unresolved, err := s.repo.CountUnresolved(ctx)
	if err != nil {
		return nil, err
	}
	stats.UnresolvedFlags = unresolved
	return stats, nil
}

func (s *service) ListUsers(ctx context.Context, pq common.PaginationQuery) ([]shared.User, int64, error) {
	return s.users.ListUsers(ctx, pq)
}

func (s *service) DeleteUser(ctx context.Context, identity policy.Identity, id uuid.UUID) error {
	if id == identity.ID {
		return common.ErrBadRequest.WithDetails("You cannot delete your own account.")
	}
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User removed by admin",
		zap.String("userID", id.String()), zap.String("adminID", identity.ID.String()))
	return nil
}

// ListProperties returns every listing unfiltered; the search service
// already supports the empty query.
func (s *service) ListProperties(ctx context.Context, pq common.PaginationQuery) ([]property.Property, int64, error) {
	return s.properties.Search(ctx, property.SearchQuery{}, pq)
}

func (s *service) DeleteProperty(ctx context.Context, identity policy.Identity, id uuid.UUID) error {
	if err := s.properties.Delete(ctx, identity, id); err != nil {
		return err
	}
	s.logger.Info("Property removed by admin",
		zap.String("propertyID", id.String()), zap.String("adminID", identity.ID.String()))
	return nil
}

// CreateFlag raises a moderation flag. Exactly one of property_id and
// user_id must be set, and the target must exist.
func (s *service) CreateFlag(ctx context.Context, identity policy.Identity, req CreateFlagRequest) (*AdminFlag, error) {
	if (req.PropertyID == nil) == (req.UserID == nil) {
		return nil, common.ErrBadRequest.WithDetails("Exactly one of property_id and user_id must be set.")
	}

	if req.PropertyID != nil {
		if _, err := s.properties.GetByID(ctx, *req.PropertyID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrNotFound.WithDetails("Flagged property not found.")
			}
			return nil, err
		}
	} else {
		if _, err := s.users.GetUserByID(ctx, *req.UserID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrNotFound.WithDetails("Flagged user not found.")
			}
			return nil, err
		}
	}

	flag := &AdminFlag{
		FlaggedBy:  identity.ID,
		PropertyID: req.PropertyID,
		UserID:     req.UserID,
		Reason:     req.Reason,
	}
	if err := s.repo.CreateFlag(ctx, flag); err != nil {
		return nil, err
	}
	return flag, nil
}

func (s *service) ListFlags(ctx context.Context, resolved *bool, pq common.PaginationQuery) ([]AdminFlag, int64, error) {
	return s.repo.ListFlags(ctx, resolved, pq)
}

func (s *service) ResolveFlag(ctx context.Context, id uuid.UUID) error {
	return s.repo.ResolveFlag(ctx, id)
}
