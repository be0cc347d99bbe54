// File: internal/viewing/service.go
package viewing

import (
	"context"
	"fmt"
	"time"

	"unihome_backend/internal/common"
	"unihome_backend/internal/notification"
	"unihome_backend/internal/policy"
	"unihome_backend/internal/property"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the business logic for viewing requests.
type Service interface {
	Create(ctx context.Context, identity policy.Identity, req CreateViewingRequest) (*ViewingRequest, error)
	List(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]ViewingRequest, int64, error)
	UpdateStatus(ctx context.Context, identity policy.Identity, id uuid.UUID, req UpdateStatusRequest) (*ViewingRequest, error)
	Cancel(ctx context.Context, identity policy.Identity, id uuid.UUID) error
}

type service struct {
	repo          Repository
	properties    property.Service
	notifications notification.Service
	logger        *zap.Logger
}

// NewService creates a new viewing request service.
func NewService(
	repo Repository,
	properties property.Service,
	notifications notification.Service,
	logger *zap.Logger,
) Service {
	return &service{
		repo:          repo,
		properties:    properties,
		notifications: notifications,
		logger:        logger.Named("viewing_service"),
	}
}

func (s *service) Create(ctx context.Context, identity policy.Identity, req CreateViewingRequest) (*ViewingRequest, error) {
	if err := policy.RequireRole(identity, common.RoleStudent); err != nil {
		return nil, err
	}

	requestedDate, err := time.Parse("2006-01-02", req.RequestedDate)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails("Invalid requested_date.")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if requestedDate.Before(today) {
		return nil, common.ErrBadRequest.WithDetails("requested_date must not be in the past.")
	}

	p, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	vr := &ViewingRequest{
		StudentID:     identity.ID,
		PropertyID:    req.PropertyID,
		RequestedDate: requestedDate,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, vr); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, p.LandlordID, notification.ViewingRequestReceived,
		fmt.Sprintf("New viewing request for %q on %s.", p.Title, req.RequestedDate),
		&p.ID)

	s.logger.Info("Viewing request created",
		zap.String("requestID", vr.ID.String()),
		zap.String("propertyID", p.ID.String()))
	return vr, nil
}

// List returns the student's own requests, or all requests on the
// landlord's properties. Other roles are rejected.
func (s *service) List(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]ViewingRequest, int64, error) {
	switch identity.Role {
	case common.RoleStudent:
		return s.repo.ListByStudent(ctx, identity.ID, pq)
	case common.RoleLandlord:
		return s.repo.ListByLandlord(ctx, identity.ID, pq)
	default:
		return nil, 0, common.ErrForbidden.WithDetails("Only students and landlords have viewing requests.")
	}
}

func (s *service) UpdateStatus(ctx context.Context, identity policy.Identity, id uuid.UUID, req UpdateStatusRequest) (*ViewingRequest, error) {
	vr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, vr.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwner(identity, p.LandlordID); err != nil {
		return nil, err
	}

	if vr.Status != StatusPending {
		return nil, common.ErrConflict.WithDetails(
			fmt.Sprintf("Viewing request has already been %s.", vr.Status))
	}

	vr.Status = req.Status
	if err := s.repo.Update(ctx, vr); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, vr.StudentID, notification.ViewingRequestDecided,
		fmt.Sprintf("Your viewing request for %q was %s.", p.Title, req.Status),
		&p.ID)

	s.logger.Info("Viewing request decided",
		zap.String("requestID", vr.ID.String()),
		zap.String("status", vr.Status))
	return vr, nil
}

// Cancel removes a request. Allowed for the requesting student, the
// owning landlord, or an admin.
func (s *service) Cancel(ctx context.Context, identity policy.Identity, id uuid.UUID) error {
	vr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p, err := s.properties.GetByID(ctx, vr.PropertyID)
	if err != nil {
		return err
	}
	if err := policy.RequireParticipant(identity, vr.StudentID, p.LandlordID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Viewing request cancelled",
		zap.String("requestID", id.String()),
		zap.String("cancelledBy", identity.ID.String()))
	return nil
}
