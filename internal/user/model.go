// File: internal/user/model.go
package user

import (
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel
	Email           *string `gorm:"type:varchar(255);uniqueIndex"` // Pointer to allow NULL for OAuth-only accounts
	PasswordHash    *string `gorm:"type:varchar(255)"`
	FirstName       *string `gorm:"type:varchar(100)"`
	LastName        *string `gorm:"type:varchar(100)"`
	Role            string  `gorm:"type:varchar(50);not null;default:'student'"`
	AuthProvider    string  `gorm:"type:varchar(50);not null;default:'email'"`
	ProviderID      *string `gorm:"type:varchar(255);index:idx_auth_provider_provider_id,unique"`
	IsEmailVerified bool    `gorm:"not null;default:false"`
	LastLoginAt     *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// VerificationToken is a short-lived, single-use token mailed to a fresh
// account. Consuming it flips IsEmailVerified.
type VerificationToken struct {
	common.BaseModel
	Token     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}

// Sanitize removes sensitive information like the password hash.
func (u *User) Sanitize() {
	u.PasswordHash = nil
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() *string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}
