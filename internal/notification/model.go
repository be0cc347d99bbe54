// File: internal/notification/model.go
package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type classifies a notification event.
type Type string

const (
	ViewingRequestReceived Type = "viewing_request_received"
	ViewingRequestDecided  Type = "viewing_request_decided"
	MessageReceived        Type = "message_received"
	ReviewPosted           Type = "review_posted"
)

// Notification represents an in-app notification for a user.
// Notifications are immutable once created, only the read flag changes.
type Notification struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"user_id"`
	Type              Type       `gorm:"type:varchar(100);not null" json:"type"`
	Message           string     `gorm:"type:text;not null" json:"message"`
	RelatedPropertyID *uuid.UUID `gorm:"type:uuid" json:"related_property_id,omitempty"`
	IsRead            bool       `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt         time.Time  `gorm:"not null;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns the ID client-side so the model works on
// databases without uuid_generate_v4.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}
