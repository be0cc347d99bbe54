// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the persistence operations for user accounts and
// their e-mail verification tokens.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, pq common.PaginationQuery) ([]User, int64, error)
	Count(ctx context.Context) (int64, error)

	CreateVerificationToken(ctx context.Context, token *VerificationToken) error
	FindVerificationToken(ctx context.Context, token string) (*VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, id uuid.UUID) error
	DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new GORM-based user repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("creating user record: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("finding user by id %s: %w", id, err)
	}
	return &u, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &u, nil
}

func (r *gormRepository) FindByProvider(ctx context.Context, provider, providerID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		First(&u, "auth_provider = ? AND provider_id = ?", provider, providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("finding user by provider %s: %w", provider, err)
	}
	return &u, nil
}

func (r *gormRepository) Update(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("updating user %s: %w", user.ID, err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting user %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, pq common.PaginationQuery) ([]User, int64, error) {
	var users []User
	var total int64

	query := r.db.WithContext(ctx).Model(&User{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}
	err := query.Order("created_at DESC").
		Offset(pq.Offset()).Limit(pq.Limit()).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	return users, total, nil
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return total, nil
}

func (r *gormRepository) CreateVerificationToken(ctx context.Context, token *VerificationToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("creating verification token: %w", err)
	}
	return nil
}

func (r *gormRepository) FindVerificationToken(ctx context.Context, token string) (*VerificationToken, error) {
	var vt VerificationToken
	err := r.db.WithContext(ctx).First(&vt, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("finding verification token: %w", err)
	}
	return &vt, nil
}

func (r *gormRepository) DeleteVerificationToken(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&VerificationToken{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting verification token %s: %w", id, err)
	}
	return nil
}

func (r *gormRepository) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&VerificationToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("purging expired verification tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
