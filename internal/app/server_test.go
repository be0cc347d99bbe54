// File: internal/app/server_test.go
package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unihome_backend/internal/admin"
	"unihome_backend/internal/auth"
	"unihome_backend/internal/bookmark"
	"unihome_backend/internal/chat"
	"unihome_backend/internal/config"
	"unihome_backend/internal/jobs"
	"unihome_backend/internal/notification"
	"unihome_backend/internal/platform/database"
	"unihome_backend/internal/property"
	"unihome_backend/internal/review"
	"unihome_backend/internal/user"
	"unihome_backend/internal/viewing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestApp wires the full application against an in-memory database
// and returns the router plus the raw DB handle for direct inspection.
func setupTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GinMode:                   gin.TestMode,
		ServerHost:                "127.0.0.1",
		ServerPort:                "0",
		JWTSecretKey:              "integration-test-secret",
		JWTAccessTokenExpiry:      15 * time.Minute,
		JWTRefreshTokenExpiry:     7 * 24 * time.Hour,
		RefreshCookieName:         "unihome_refresh",
		OAuthStateCookieName:      "unihome_oauth_state",
		VerificationTokenLifetime: 24 * time.Hour,
		PublicBaseURL:             "http://localhost:8080",
		CORSAllowedOrigins:        []string{"*"},
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	logger := zap.NewNop()

	tokenService := auth.NewJWTService(cfg, logger)
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, tokenService, user.NewLogMailer(logger), cfg, logger)
	blocklist := auth.NewInMemoryBlocklistService(auth.InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTRefreshTokenExpiry,
		CleanupInterval:   time.Hour,
	})
	oauthService := auth.NewOAuthService(cfg, userService, tokenService, logger)
	authHandler := auth.NewHandler(userService, tokenService, oauthService, blocklist, cfg, logger)
	userHandler := user.NewHandler(userService, logger)

	propertyRepo := property.NewGORMRepository(db)
	propertyService := property.NewService(propertyRepo, logger)
	propertyHandler := property.NewHandler(propertyService, logger)

	notificationRepo := notification.NewGORMRepository(db)
	notificationService := notification.NewService(notificationRepo, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)

	viewingRepo := viewing.NewGORMRepository(db)
	viewingHandler := viewing.NewHandler(viewing.NewService(viewingRepo, propertyService, notificationService, logger), logger)
	reviewRepo := review.NewGORMRepository(db)
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, propertyService, notificationService, logger), logger)
	bookmarkHandler := bookmark.NewHandler(bookmark.NewService(bookmark.NewGORMRepository(db), propertyService, logger), logger)
	chatHandler := chat.NewHandler(chat.NewService(chat.NewGORMRepository(db), userService, notificationService, logger), logger)

	adminRepo := admin.NewGORMRepository(db)
	counters := admin.Counters{Users: userRepo, Properties: propertyRepo, ViewingRequests: viewingRepo, Reviews: reviewRepo}
	adminHandler := admin.NewHandler(admin.NewService(adminRepo, userService, propertyService, counters, logger), logger)

	maintenanceJob := jobs.NewMaintenanceJob(userRepo, viewingRepo, logger, cfg)

	server, err := NewServer(cfg, logger, tokenService, authHandler, userHandler, propertyHandler,
		viewingHandler, reviewHandler, bookmarkHandler, chatHandler, notificationHandler, adminHandler, maintenanceJob)
	require.NoError(t, err)

	return server.router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// registerVerifiedUser signs a user up, flips the verified bit directly
// and logs in, returning the access token.
func registerVerifiedUser(t *testing.T, router *gin.Engine, db *gorm.DB, email, role string) string {
	t.Helper()
	const password = "Int3gration!Pass"

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":    email,
		"password": password,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NoError(t, db.Model(&user.User{}).
		Where("email = ?", email).
		Update("is_email_verified", true).Error)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loginBody struct {
		Data struct {
			Token struct {
				AccessToken string `json:"access_token"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginBody))
	require.NotEmpty(t, loginBody.Data.Token.AccessToken)
	return loginBody.Data.Token.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestApp(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UP")
}

func TestLoginBeforeVerificationForbidden(t *testing.T) {
	router, _ := setupTestApp(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":    "unverified@example.com",
		"password": "Int3gration!Pass",
		"role":     "student",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "unverified@example.com",
		"password": "Int3gration!Pass",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestPropertyLifecycleOverHTTP(t *testing.T) {
	router, db := setupTestApp(t)

	landlordToken := registerVerifiedUser(t, router, db, "landlord@example.com", "landlord")
	studentToken := registerVerifiedUser(t, router, db, "student@example.com", "student")

	// Students may not create listings.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/properties", studentToken, gin.H{
		"title":     "Not my listing",
		"price":     500,
		"location":  "Leeds",
		"room_type": "single",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/properties", landlordToken, gin.H{
		"title":     "Quiet studio near the library",
		"price":     750,
		"location":  "Leeds",
		"room_type": "studio",
		"amenities": []string{"wifi", "laundry"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	// Anonymous search finds the listing.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/properties?location=leeds&room_type=studio", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Quiet studio near the library")

	// The student cannot delete someone else's listing.
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/properties/"+created.Data.ID, studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	// The owner can.
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/properties/"+created.Data.ID, landlordToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router, db := setupTestApp(t)

	studentToken := registerVerifiedUser(t, router, db, "student2@example.com", "student")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router, _ := setupTestApp(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/chat/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
