// File: internal/platform/database/migrate.go
package database

import (
	"fmt"

	"unihome_backend/internal/admin"
	"unihome_backend/internal/bookmark"
	"unihome_backend/internal/chat"
	"unihome_backend/internal/notification"
	"unihome_backend/internal/property"
	"unihome_backend/internal/review"
	"unihome_backend/internal/user"
	"unihome_backend/internal/viewing"

	"gorm.io/gorm"
)

// AutoMigrate brings the schema up to date for every model the
// application owns. Runs once at startup.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&user.VerificationToken{},
		&property.Property{},
		&property.PropertyMedia{},
		&property.Availability{},
		&viewing.ViewingRequest{},
		&review.Review{},
		&bookmark.SavedProperty{},
		&chat.Conversation{},
		&chat.Message{},
		&notification.Notification{},
		&admin.AdminFlag{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
