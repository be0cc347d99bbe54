// File: internal/viewing/model.go
package viewing

import (
	"time"

	"unihome_backend/internal/common"
	"unihome_backend/internal/property"

	"github.com/google/uuid"
)

// Viewing request lifecycle states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ViewingRequest is a student's request to visit a property on a given day.
type ViewingRequest struct {
	common.BaseModel
	StudentID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PropertyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestedDate time.Time `gorm:"type:date;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Rows go with the property when it is deleted.
	Property *property.Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

func (ViewingRequest) TableName() string {
	return "viewing_requests"
}

// CreateViewingRequest defines the payload for booking a viewing.
type CreateViewingRequest struct {
	PropertyID    uuid.UUID `json:"property_id" binding:"required"`
	RequestedDate string    `json:"requested_date" binding:"required,datetime=2006-01-02"`
}

// UpdateStatusRequest defines the landlord's decision payload.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// ViewingRequestResponse is the API shape of a viewing request.
type ViewingRequestResponse struct {
	ID            uuid.UUID `json:"id"`
	StudentID     uuid.UUID `json:"student_id"`
	PropertyID    uuid.UUID `json:"property_id"`
	RequestedDate string    `json:"requested_date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToViewingRequestResponse converts the model to its API shape.
func ToViewingRequestResponse(vr *ViewingRequest) ViewingRequestResponse {
	return ViewingRequestResponse{
		ID:            vr.ID,
		StudentID:     vr.StudentID,
		PropertyID:    vr.PropertyID,
		RequestedDate: vr.RequestedDate.Format("2006-01-02"),
		Status:        vr.Status,
		CreatedAt:     vr.CreatedAt,
		UpdatedAt:     vr.UpdatedAt,
	}
}

// ToViewingRequestResponses converts a slice of viewing requests.
func ToViewingRequestResponses(requests []ViewingRequest) []ViewingRequestResponse {
	out := make([]ViewingRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, ToViewingRequestResponse(&requests[i]))
	}
	return out
}
