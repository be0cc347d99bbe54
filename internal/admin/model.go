// File: internal/admin/model.go
package admin

import (
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
)

// AdminFlag records a moderation flag raised against either a property
// or a user, never both.
type AdminFlag struct {
	common.BaseModel
	FlaggedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	PropertyID *uuid.UUID `gorm:"type:uuid;index"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Reason     string     `gorm:"type:text;not null"`
	Resolved   bool       `gorm:"not null;default:false;index"`
}

func (AdminFlag) TableName() string {
	return "admin_flags"
}

// CreateFlagRequest defines the payload for raising a flag. Exactly one
// of property_id and user_id must be set.
type CreateFlagRequest struct {
	PropertyID *uuid.UUID `json:"property_id"`
	UserID     *uuid.UUID `json:"user_id"`
	Reason     string     `json:"reason" binding:"required,max=1000"`
}

// FlagResponse is the API shape of a flag.
type FlagResponse struct {
	ID         uuid.UUID  `json:"id"`
	FlaggedBy  uuid.UUID  `json:"flagged_by"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Reason     string     `json:"reason"`
	Resolved   bool       `json:"resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToFlagResponse converts the model to its API shape.
func ToFlagResponse(f *AdminFlag) FlagResponse {
	return FlagResponse{
		ID:         f.ID,
		FlaggedBy:  f.FlaggedBy,
		PropertyID: f.PropertyID,
		UserID:     f.UserID,
		Reason:     f.Reason,
		Resolved:   f.Resolved,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// ToFlagResponses converts a slice of flags.
func ToFlagResponses(flags []AdminFlag) []FlagResponse {
	out := make([]FlagResponse, 0, len(flags))
	for i := range flags {
		out = append(out, ToFlagResponse(&flags[i]))
	}
	return out
}

// Stats aggregates entity counts for the admin dashboard.
type Stats struct {
	Users           int64 `json:"users"`
	Properties      int64 `json:"properties"`
	ViewingRequests int64 `json:"viewing_requests"`
	Reviews         int64 `json:"reviews"`
	UnresolvedFlags int64 `json:"unresolved_flags"`
}
