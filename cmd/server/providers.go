// File: cmd/server/providers.go
package main

import (
	"log"
	"time"

	"unihome_backend/internal/admin"
	"unihome_backend/internal/auth"
	"unihome_backend/internal/config"
	"unihome_backend/internal/platform/database"
	"unihome_backend/internal/property"
	"unihome_backend/internal/review"
	"unihome_backend/internal/user"
	"unihome_backend/internal/viewing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideDatabase opens the connection and runs schema migration.
func provideDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// provideBlocklist sizes the revoked-JTI cache to the refresh token
// lifetime; anything older cannot resurface anyway.
func provideBlocklist(cfg *config.Config) *auth.InMemoryBlocklistService {
	return auth.NewInMemoryBlocklistService(auth.InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTRefreshTokenExpiry,
		CleanupInterval:   time.Hour,
	})
}

func provideCounters(
	users user.Repository,
	properties property.Repository,
	viewings viewing.Repository,
	reviews review.Repository,
) admin.Counters {
	return admin.Counters{
		Users:           users,
		Properties:      properties,
		ViewingRequests: viewings,
		Reviews:         reviews,
	}
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
