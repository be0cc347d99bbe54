// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"unihome_backend/internal/admin"
	"unihome_backend/internal/app"
	"unihome_backend/internal/auth"
	"unihome_backend/internal/bookmark"
	"unihome_backend/internal/chat"
	"unihome_backend/internal/config"
	"unihome_backend/internal/jobs"
	"unihome_backend/internal/notification"
	"unihome_backend/internal/platform/logger"
	"unihome_backend/internal/property"
	"unihome_backend/internal/review"
	"unihome_backend/internal/shared"
	"unihome_backend/internal/user"
	"unihome_backend/internal/viewing"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,
		provideCleanup,

		// Auth primitives
		auth.NewJWTService,
		provideBlocklist,
		wire.Bind(new(auth.TokenBlocklistService), new(*auth.InMemoryBlocklistService)),
		auth.NewOAuthService,

		// Core User Services
		user.NewRepository,
		user.NewLogMailer,
		wire.Bind(new(user.Mailer), new(*user.LogMailer)),
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(chat.UserReader), new(*user.ServiceImplementation)),
		wire.Bind(new(admin.UserAdmin), new(*user.ServiceImplementation)),

		// Handlers
		auth.NewHandler,
		user.NewHandler,

		// Properties
		property.NewGORMRepository,
		property.NewService,
		property.NewHandler,
		wire.Bind(new(review.PropertyReader), new(property.Service)),
		wire.Bind(new(bookmark.PropertyReader), new(property.Service)),

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		notification.NewHandler,

		// Viewings, reviews, bookmarks, chat
		viewing.NewGORMRepository,
		viewing.NewService,
		viewing.NewHandler,
		review.NewGORMRepository,
		review.NewService,
		review.NewHandler,
		bookmark.NewGORMRepository,
		bookmark.NewService,
		bookmark.NewHandler,
		chat.NewGORMRepository,
		chat.NewService,
		chat.NewHandler,

		// Admin
		admin.NewGORMRepository,
		provideCounters,
		admin.NewService,
		admin.NewHandler,

		// Jobs
		jobs.NewMaintenanceJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
