// File: internal/common/roles.go
package common

// Canonical role strings. Always lowercase; comparisons elsewhere must not
// re-case these.
const (
	RoleStudent  = "student"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

// IsValidRole reports whether s is one of the canonical roles.
func IsValidRole(s string) bool {
	switch s {
	case RoleStudent, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}
