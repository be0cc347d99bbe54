// File: internal/property/model.go
package property

import (
	"time"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Room types a property can be listed as.
const (
	RoomTypeSingle    = "single"
	RoomTypeShared    = "shared"
	RoomTypeStudio    = "studio"
	RoomTypeApartment = "apartment"
)

// Media types for property attachments.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Property represents an accommodation listing owned by a landlord.
type Property struct {
	common.BaseModel
	LandlordID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	Price       float64        `gorm:"not null"`
	Location    string         `gorm:"type:varchar(255);not null;index"`
	RoomType    string         `gorm:"type:varchar(50);not null;index"`
	Latitude    *float64       `gorm:"type:double precision"`
	Longitude   *float64       `gorm:"type:double precision"`
	Amenities   pq.StringArray `gorm:"type:text[]"`
	Slug        string         `gorm:"type:varchar(300);not null;uniqueIndex"`

	Media        []PropertyMedia `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Availability []Availability  `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

func (Property) TableName() string {
	return "properties"
}

// PropertyMedia is an image or video attached to a property.
type PropertyMedia struct {
	common.BaseModel
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"type:varchar(2048);not null"`
	MediaType  string    `gorm:"type:varchar(20);not null"`
}

func (PropertyMedia) TableName() string {
	return "property_media"
}

// Availability marks a single calendar day as bookable or not.
// One record per (property, day).
type Availability struct {
	common.BaseModel
	PropertyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_property_date,unique"`
	Date        time.Time `gorm:"type:date;not null;index:idx_property_date,unique"`
	IsAvailable bool      `gorm:"not null;default:true"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// --- Request/Response DTOs ---

// CreatePropertyRequest defines the payload for creating a listing.
type CreatePropertyRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=255"`
	Description string   `json:"description" binding:"omitempty,max=5000"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Location    string   `json:"location" binding:"required,max=255"`
	RoomType    string   `json:"room_type" binding:"required,oneof=single shared studio apartment"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
	Amenities   []string `json:"amenities" binding:"omitempty,dive,max=100"`
}

// UpdatePropertyRequest defines the payload for updating a listing.
// Pointer fields distinguish absent from zero values.
type UpdatePropertyRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Location    *string  `json:"location" binding:"omitempty,max=255"`
	RoomType    *string  `json:"room_type" binding:"omitempty,oneof=single shared studio apartment"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
	Amenities   []string `json:"amenities" binding:"omitempty,dive,max=100"`
}

// SearchQuery holds the optional, conjunctive search filters.
type SearchQuery struct {
	Location *string  `form:"location"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
	RoomType *string  `form:"room_type"`

	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// AvailabilitySlot is one calendar day in a replacement request.
type AvailabilitySlot struct {
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	IsAvailable *bool  `json:"is_available" binding:"required"`
}

// ReplaceAvailabilityRequest replaces a property's whole calendar.
type ReplaceAvailabilityRequest struct {
	Slots []AvailabilitySlot `json:"slots" binding:"required,dive"`
}

// AddMediaRequest attaches media to a listing.
type AddMediaRequest struct {
	URL       string `json:"url" binding:"required,url,max=2048"`
	MediaType string `json:"media_type" binding:"required,oneof=image video"`
}

// MediaResponse is the API shape of a media attachment.
type MediaResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	MediaType string    `json:"media_type"`
}

// AvailabilityResponse is the API shape of a calendar day.
type AvailabilityResponse struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
}

// PropertyResponse is the API shape of a listing.
type PropertyResponse struct {
	ID           uuid.UUID              `json:"id"`
	LandlordID   uuid.UUID              `json:"landlord_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Price        float64                `json:"price"`
	Location     string                 `json:"location"`
	RoomType     string                 `json:"room_type"`
	Latitude     *float64               `json:"latitude,omitempty"`
	Longitude    *float64               `json:"longitude,omitempty"`
	Amenities    []string               `json:"amenities"`
	Slug         string                 `json:"slug"`
	Media        []MediaResponse        `json:"media,omitempty"`
	Availability []AvailabilityResponse `json:"availability,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ToPropertyResponse converts a Property model to its API shape.
func ToPropertyResponse(p *Property) PropertyResponse {
	resp := PropertyResponse{
		ID:          p.ID,
		LandlordID:  p.LandlordID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Location:    p.Location,
		RoomType:    p.RoomType,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Amenities:   p.Amenities,
		Slug:        p.Slug,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	for _, m := range p.Media {
		resp.Media = append(resp.Media, MediaResponse{ID: m.ID, URL: m.URL, MediaType: m.MediaType})
	}
	for _, a := range p.Availability {
		resp.Availability = append(resp.Availability, AvailabilityResponse{
			Date:        a.Date.Format("2006-01-02"),
			IsAvailable: a.IsAvailable,
		})
	}
	return resp
}

// ToPropertyResponses converts a slice of properties.
func ToPropertyResponses(properties []Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		out = append(out, ToPropertyResponse(&properties[i]))
	}
	return out
}
