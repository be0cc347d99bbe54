// File: internal/property/service.go
package property

import (
	"context"
	"fmt"
	"time"

	"unihome_backend/internal/common"
	"unihome_backend/internal/platform/crypto"
	"unihome_backend/internal/policy"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the business logic for property listings.
type Service interface {
	Create(ctx context.Context, identity policy.Identity, req CreatePropertyRequest) (*Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	Search(ctx context.Context, query SearchQuery, pq common.PaginationQuery) ([]Property, int64, error)
	Update(ctx context.Context, identity policy.Identity, id uuid.UUID, req UpdatePropertyRequest) (*Property, error)
	Delete(ctx context.Context, identity policy.Identity, id uuid.UUID) error
	ListMine(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]Property, int64, error)
	ReplaceAvailability(ctx context.Context, identity policy.Identity, id uuid.UUID, req ReplaceAvailabilityRequest) ([]Availability, error)
	ListAvailability(ctx context.Context, id uuid.UUID) ([]Availability, error)
	AddMedia(ctx context.Context, identity policy.Identity, id uuid.UUID, req AddMediaRequest) (*PropertyMedia, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new property service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger.Named("property_service")}
}

// generateSlug builds a URL-safe slug from the title with a random
// suffix to keep it unique without a retry loop.
func generateSlug(title string) (string, error) {
	suffix, err := crypto.GenerateSecureRandomString(6)
	if err != nil {
		return "", fmt.Errorf("generating slug suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s", slug.Make(title), suffix), nil
}

func (s *service) Create(ctx context.Context, identity policy.Identity, req CreatePropertyRequest) (*Property, error) {
	if err := policy.RequireRole(identity, common.RoleLandlord); err != nil {
		return nil, err
	}

	propertySlug, err := generateSlug(req.Title)
	if err != nil {
		s.logger.Error("Failed to generate property slug", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	p := &Property{
		LandlordID:  identity.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		RoomType:    req.RoomType,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Amenities:   req.Amenities,
		Slug:        propertySlug,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Property created",
		zap.String("propertyID", p.ID.String()),
		zap.String("landlordID", identity.ID.String()))
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	return s.repo.FindByID(ctx, id, true)
}

func (s *service) Search(ctx context.Context, query SearchQuery, pq common.PaginationQuery) ([]Property, int64, error) {
	if query.MinPrice != nil && *query.MinPrice < 0 {
		return nil, 0, common.ErrBadRequest.WithDetails("min_price must not be negative.")
	}
	if query.MaxPrice != nil && *query.MaxPrice < 0 {
		return nil, 0, common.ErrBadRequest.WithDetails("max_price must not be negative.")
	}
	if query.MinPrice != nil && query.MaxPrice != nil && *query.MinPrice > *query.MaxPrice {
		return nil, 0, common.ErrBadRequest.WithDetails("min_price must not exceed max_price.")
	}
	if query.RoomType != nil && *query.RoomType != "" {
		switch *query.RoomType {
		case RoomTypeSingle, RoomTypeShared, RoomTypeStudio, RoomTypeApartment:
		default:
			return nil, 0, common.ErrBadRequest.WithDetails("room_type must be one of: single, shared, studio, apartment.")
		}
	}
	return s.repo.Search(ctx, query, pq)
}

func (s *service) Update(ctx context.Context, identity policy.Identity, id uuid.UUID, req UpdatePropertyRequest) (*Property, error) {
	p, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwner(identity, p.LandlordID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.RoomType != nil {
		p.RoomType = *req.RoomType
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.Amenities != nil {
		p.Amenities = req.Amenities
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Property updated", zap.String("propertyID", p.ID.String()))
	return s.repo.FindByID(ctx, id, true)
}

func (s *service) Delete(ctx context.Context, identity policy.Identity, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := policy.RequireOwner(identity, p.LandlordID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Property deleted",
		zap.String("propertyID", id.String()),
		zap.String("deletedBy", identity.ID.String()))
	return nil
}

func (s *service) ListMine(ctx context.Context, identity policy.Identity, pq common.PaginationQuery) ([]Property, int64, error) {
	if err := policy.RequireRole(identity, common.RoleLandlord); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByLandlord(ctx, identity.ID, pq)
}

func (s *service) ReplaceAvailability(ctx context.Context, identity policy.Identity, id uuid.UUID, req ReplaceAvailabilityRequest) ([]Availability, error) {
	p, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwner(identity, p.LandlordID); err != nil {
		return nil, err
	}

	slots := make([]Availability, 0, len(req.Slots))
	seen := make(map[string]struct{}, len(req.Slots))
	for _, slot := range req.Slots {
		if _, dup := seen[slot.Date]; dup {
			return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Duplicate date in availability set: %s", slot.Date))
		}
		seen[slot.Date] = struct{}{}

		day, parseErr := time.Parse("2006-01-02", slot.Date)
		if parseErr != nil {
			return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Invalid date: %s", slot.Date))
		}
		slots = append(slots, Availability{
			PropertyID:  id,
			Date:        day,
			IsAvailable: *slot.IsAvailable,
		})
	}

	if err := s.repo.ReplaceAvailability(ctx, id, slots); err != nil {
		return nil, err
	}
	s.logger.Info("Availability replaced",
		zap.String("propertyID", id.String()),
		zap.Int("slots", len(slots)))
	return s.repo.ListAvailability(ctx, id)
}

func (s *service) ListAvailability(ctx context.Context, id uuid.UUID) ([]Availability, error) {
	if _, err := s.repo.FindByID(ctx, id, false); err != nil {
		return nil, err
	}
	return s.repo.ListAvailability(ctx, id)
}

func (s *service) AddMedia(ctx context.Context, identity policy.Identity, id uuid.UUID, req AddMediaRequest) (*PropertyMedia, error) {
	p, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwner(identity, p.LandlordID); err != nil {
		return nil, err
	}

	media := &PropertyMedia{
		PropertyID: id,
		URL:        req.URL,
		MediaType:  req.MediaType,
	}
	if err := s.repo.AddMedia(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}
