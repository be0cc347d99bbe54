// File: internal/user/adapter.go
package user

import "unihome_backend/internal/shared"

// mapUserToSharedUser converts the GORM model to the transport-agnostic
// shape used across package boundaries.
func mapUserToSharedUser(u *User) *shared.User {
	if u == nil {
		return nil
	}
	return &shared.User{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		AuthProvider:    u.AuthProvider,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}
