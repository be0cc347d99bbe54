// File: internal/bookmark/repository.go
package bookmark

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for bookmark data operations.
type Repository interface {
	Create(ctx context.Context, bookmark *SavedProperty) error
	FindByID(ctx context.Context, id uuid.UUID) (*SavedProperty, error)
	ExistsForStudentAndProperty(ctx context.Context, studentID, propertyID uuid.UUID) (bool, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, pq common.PaginationQuery) ([]SavedProperty, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM bookmark repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, bookmark *SavedProperty) error {
	if err := r.db.WithContext(ctx).Create(bookmark).Error; err != nil {
		// Unique (student, property) index backstops the service check.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("Property is already saved.")
		}
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*SavedProperty, error) {
	var sp SavedProperty
	err := r.db.WithContext(ctx).First(&sp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Saved property not found.")
		}
		return nil, fmt.Errorf("failed to find saved property %s: %w", id, err)
	}
	return &sp, nil
}

func (r *gormRepository) ExistsForStudentAndProperty(ctx context.Context, studentID, propertyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SavedProperty{}).
		Where("student_id = ? AND property_id = ?", studentID, propertyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing bookmark: %w", err)
	}
	return count > 0, nil
}

func (r *gormRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, pq common.PaginationQuery) ([]SavedProperty, int64, error) {
	var bookmarks []SavedProperty
	var total int64

	query := r.db.WithContext(ctx).Model(&SavedProperty{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count saved properties: %w", err)
	}
	err := query.Preload("Property").
		Order("created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&bookmarks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list saved properties: %w", err)
	}
	return bookmarks, total, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&SavedProperty{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete saved property %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Saved property not found.")
	}
	return nil
}
