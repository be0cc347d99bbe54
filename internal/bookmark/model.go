// File: internal/bookmark/model.go
package bookmark

import (
	"time"

	"unihome_backend/internal/common"
	"unihome_backend/internal/property"

	"github.com/google/uuid"
)

// SavedProperty is a student's bookmark of a listing. At most one per
// (student, property).
type SavedProperty struct {
	common.BaseModel
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index:idx_student_saved_property,unique"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index:idx_student_saved_property,unique"`

	Property *property.Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

func (SavedProperty) TableName() string {
	return "saved_properties"
}

// SavePropertyRequest defines the payload for bookmarking a listing.
type SavePropertyRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
}

// SavedPropertyResponse is the API shape of a bookmark.
type SavedPropertyResponse struct {
	ID         uuid.UUID                  `json:"id"`
	PropertyID uuid.UUID                  `json:"property_id"`
	Property   *property.PropertyResponse `json:"property,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// ToSavedPropertyResponse converts the model to its API shape.
func ToSavedPropertyResponse(sp *SavedProperty) SavedPropertyResponse {
	resp := SavedPropertyResponse{
		ID:         sp.ID,
		PropertyID: sp.PropertyID,
		CreatedAt:  sp.CreatedAt,
	}
	if sp.Property != nil {
		pr := property.ToPropertyResponse(sp.Property)
		resp.Property = &pr
	}
	return resp
}

// ToSavedPropertyResponses converts a slice of bookmarks.
func ToSavedPropertyResponses(bookmarks []SavedProperty) []SavedPropertyResponse {
	out := make([]SavedPropertyResponse, 0, len(bookmarks))
	for i := range bookmarks {
		out = append(out, ToSavedPropertyResponse(&bookmarks[i]))
	}
	return out
}
