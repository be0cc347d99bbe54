// File: internal/property/repository.go
package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for property data operations.
type Repository interface {
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query SearchQuery, pq common.PaginationQuery) ([]Property, int64, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, pq common.PaginationQuery) ([]Property, int64, error)
	ReplaceAvailability(ctx context.Context, propertyID uuid.UUID, slots []Availability) error
	ListAvailability(ctx context.Context, propertyID uuid.UUID) ([]Availability, error)
	AddMedia(ctx context.Context, media *PropertyMedia) error
	Count(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM property repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) preloader(query *gorm.DB) *gorm.DB {
	return query.Preload("Media").
		Preload("Availability", func(db *gorm.DB) *gorm.DB {
			return db.Order("availabilities.date ASC")
		})
}

func (r *gormRepository) Create(ctx context.Context, property *Property) error {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A listing with this slug already exists.")
		}
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Property, error) {
	var p Property
	query := r.db.WithContext(ctx)
	if preloadAssociations {
		query = r.preloader(query)
	}
	err := query.First(&p, "properties.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
		return nil, fmt.Errorf("failed to find property %s: %w", id, err)
	}
	return &p, nil
}

func (r *gormRepository) Update(ctx context.Context, property *Property) error {
	if err := r.db.WithContext(ctx).Omit("Media", "Availability").Save(property).Error; err != nil {
		return fmt.Errorf("failed to update property %s: %w", property.ID, err)
	}
	return nil
}

// Delete removes a property and its dependents in one transaction.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&PropertyMedia{}).Error; err != nil {
			return fmt.Errorf("failed to delete property media: %w", err)
		}
		if err := tx.Where("property_id = ?", id).Delete(&Availability{}).Error; err != nil {
			return fmt.Errorf("failed to delete property availability: %w", err)
		}
		result := tx.Delete(&Property{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete property %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Property not found or already deleted.")
		}
		return nil
	})
}

// Search applies the optional filters conjunctively.
func (r *gormRepository) Search(ctx context.Context, query SearchQuery, pq common.PaginationQuery) ([]Property, int64, error) {
	var properties []Property
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Property{})

	if query.Location != nil && *query.Location != "" {
		locationTerm := "%" + strings.ToLower(strings.TrimSpace(*query.Location)) + "%"
		dbQuery = dbQuery.Where("LOWER(properties.location) LIKE ?", locationTerm)
	}
	if query.MinPrice != nil {
		dbQuery = dbQuery.Where("properties.price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		dbQuery = dbQuery.Where("properties.price <= ?", *query.MaxPrice)
	}
	if query.RoomType != nil && *query.RoomType != "" {
		dbQuery = dbQuery.Where("properties.room_type = ?", *query.RoomType)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	err := r.preloader(dbQuery).
		Order("properties.created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&properties).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search properties: %w", err)
	}
	return properties, totalItems, nil
}

func (r *gormRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, pq common.PaginationQuery) ([]Property, int64, error) {
	var properties []Property
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Property{}).Where("properties.landlord_id = ?", landlordID)
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count landlord properties: %w", err)
	}
	err := r.preloader(dbQuery).
		Order("properties.created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&properties).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list landlord properties: %w", err)
	}
	return properties, totalItems, nil
}

// ReplaceAvailability swaps the whole calendar in one transaction so a
// failure mid-way leaves the previous set intact.
func (r *gormRepository) ReplaceAvailability(ctx context.Context, propertyID uuid.UUID, slots []Availability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).Delete(&Availability{}).Error; err != nil {
			return fmt.Errorf("failed to clear availability: %w", err)
		}
		for i := range slots {
			slots[i].PropertyID = propertyID
		}
		if len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
					return common.ErrConflict.WithDetails("Duplicate dates in availability set.")
				}
				return fmt.Errorf("failed to insert availability: %w", err)
			}
		}
		return nil
	})
}

func (r *gormRepository) ListAvailability(ctx context.Context, propertyID uuid.UUID) ([]Availability, error) {
	var slots []Availability
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("date ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return slots, nil
}

func (r *gormRepository) AddMedia(ctx context.Context, media *PropertyMedia) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return fmt.Errorf("failed to add property media: %w", err)
	}
	return nil
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Property{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}
