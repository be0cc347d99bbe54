// File: internal/review/model.go
package review

import (
	"time"

	"unihome_backend/internal/common"
	"unihome_backend/internal/property"

	"github.com/google/uuid"
)

// Review is a student's rating of a property. One per (student, property).
type Review struct {
	common.BaseModel
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index:idx_student_property,unique"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index:idx_student_property,unique;index"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`

	// Rows go with the property when it is deleted.
	Property *property.Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

func (Review) TableName() string {
	return "reviews"
}

// CreateReviewRequest defines the payload for posting a review.
type CreateReviewRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required,gte=1,lte=5"`
	Comment    string    `json:"comment" binding:"omitempty,max=2000"`
}

// ReviewResponse is the API shape of a review.
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToReviewResponse converts the model to its API shape.
func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		StudentID:  r.StudentID,
		PropertyID: r.PropertyID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// ToReviewResponses converts a slice of reviews.
func ToReviewResponses(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, ToReviewResponse(&reviews[i]))
	}
	return out
}
