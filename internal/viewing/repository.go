// File: internal/viewing/repository.go
package viewing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for viewing request data operations.
type Repository interface {
	Create(ctx context.Context, request *ViewingRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*ViewingRequest, error)
	Update(ctx context.Context, request *ViewingRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStudent(ctx context.Context, studentID uuid.UUID, pq common.PaginationQuery) ([]ViewingRequest, int64, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, pq common.PaginationQuery) ([]ViewingRequest, int64, error)
	RejectStalePending(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM viewing request repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, request *ViewingRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create viewing request: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*ViewingRequest, error) {
	var vr ViewingRequest
	err := r.db.WithContext(ctx).First(&vr, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Viewing request not found.")
		}
		return nil, fmt.Errorf("failed to find viewing request %s: %w", id, err)
	}
	return &vr, nil
}

func (r *gormRepository) Update(ctx context.Context, request *ViewingRequest) error {
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		return fmt.Errorf("failed to update viewing request %s: %w", request.ID, err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ViewingRequest{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete viewing request %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Viewing request not found.")
	}
	return nil
}

func (r *gormRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, pq common.PaginationQuery) ([]ViewingRequest, int64, error) {
	var requests []ViewingRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&ViewingRequest{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count student viewing requests: %w", err)
	}
	err := query.Order("created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&requests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list student viewing requests: %w", err)
	}
	return requests, total, nil
}

// ListByLandlord returns requests over the join of properties the
// landlord owns.
func (r *gormRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, pq common.PaginationQuery) ([]ViewingRequest, int64, error) {
	var requests []ViewingRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&ViewingRequest{}).
		Joins("JOIN properties ON properties.id = viewing_requests.property_id").
		Where("properties.landlord_id = ?", landlordID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count landlord viewing requests: %w", err)
	}
	err := query.Order("viewing_requests.created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&requests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list landlord viewing requests: %w", err)
	}
	return requests, total, nil
}

// RejectStalePending marks pending requests whose date has passed as
// rejected. Used by the maintenance job.
func (r *gormRepository) RejectStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ViewingRequest{}).
		Where("status = ? AND requested_date < ?", StatusPending, cutoff).
		Update("status", StatusRejected)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reject stale viewing requests: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ViewingRequest{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count viewing requests: %w", err)
	}
	return count, nil
}
