// File: internal/admin/repository.go
package admin

import (
	"context"
	"errors"
	"fmt"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the persistence operations for moderation flags.
type Repository interface {
	CreateFlag(ctx context.Context, flag *AdminFlag) error
	FindFlagByID(ctx context.Context, id uuid.UUID) (*AdminFlag, error)
	ListFlags(ctx context.Context, resolved *bool, pq common.PaginationQuery) ([]AdminFlag, int64, error)
	ResolveFlag(ctx context.Context, id uuid.UUID) error
	CountUnresolved(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM admin repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateFlag(ctx context.Context, flag *AdminFlag) error {
	if err := r.db.WithContext(ctx).Create(flag).Error; err != nil {
		return fmt.Errorf("failed to create flag: %w", err)
	}
	return nil
}

func (r *gormRepository) FindFlagByID(ctx context.Context, id uuid.UUID) (*AdminFlag, error) {
	var flag AdminFlag
	err := r.db.WithContext(ctx).First(&flag, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Flag not found.")
		}
		return nil, fmt.Errorf("failed to find flag %s: %w", id, err)
	}
	return &flag, nil
}

// ListFlags returns flags newest first, optionally filtered by their
// resolved state.
func (r *gormRepository) ListFlags(ctx context.Context, resolved *bool, pq common.PaginationQuery) ([]AdminFlag, int64, error) {
	var flags []AdminFlag
	var total int64

	query := r.db.WithContext(ctx).Model(&AdminFlag{})
	if resolved != nil {
		query = query.Where("resolved = ?", *resolved)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count flags: %w", err)
	}
	err := query.Order("created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&flags).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flags: %w", err)
	}
	return flags, total, nil
}

func (r *gormRepository) ResolveFlag(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&AdminFlag{}).
		Where("id = ?", id).
		Update("resolved", true)
	if result.Error != nil {
		return fmt.Errorf("failed to resolve flag %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Flag not found.")
	}
	return nil
}

func (r *gormRepository) CountUnresolved(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&AdminFlag{}).
		Where("resolved = ?", false).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unresolved flags: %w", err)
	}
	return total, nil
}
