// File: internal/policy/policy.go
package policy

import (
	"unihome_backend/internal/common"

	"github.com/google/uuid"
)

// Identity is the authenticated actor a service decision is made for.
type Identity struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == common.RoleAdmin
}

// RequireRole allows the operation only when the identity's role is in the
// allowed set. Admins are not implicitly allowed; list them when intended.
func RequireRole(identity Identity, allowed ...string) error {
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return common.ErrForbidden.WithDetails("Your role is not permitted to perform this operation.")
}

// RequireOwner allows the operation when the identity owns the resource.
// Admins pass unconditionally. The same Forbidden outcome is returned whether
// the resource exists with a different owner or not; existence is never
// disclosed through this check.
func RequireOwner(identity Identity, ownerID uuid.UUID) error {
	if identity.IsAdmin() || identity.ID == ownerID {
		return nil
	}
	return common.ErrForbidden.WithDetails("You do not own this resource.")
}

// RequireParticipant allows the operation when the identity is one of the
// listed participants. Admins pass unconditionally.
func RequireParticipant(identity Identity, participants ...uuid.UUID) error {
	if identity.IsAdmin() {
		return nil
	}
	for _, p := range participants {
		if identity.ID == p {
			return nil
		}
	}
	return common.ErrForbidden.WithDetails("You are not a participant of this resource.")
}
