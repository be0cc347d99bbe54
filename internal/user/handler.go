// File: internal/user/handler.go
package user

import (
	"errors"

	"unihome_backend/internal/common"
	"unihome_backend/internal/middleware"
	"unihome_backend/internal/policy"
	"unihome_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests related to user profiles.
type Handler struct {
	service shared.Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service shared.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("user_handler"),
	}
}

// RegisterRoutes sets up the routes for user profile operations.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMiddleware)
	{
		users.GET("/me", h.GetMyProfile)
		users.GET("/:id", h.GetUserByID)
	}
}

// GetMyProfile returns the authenticated user's profile.
func (h *Handler) GetMyProfile(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	svUser, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Token outlived the account.
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Account no longer exists."))
			return
		}
		h.logger.Error("Failed to fetch own profile", zap.String("userID", userID.String()), zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", shared.ToUserResponse(svUser))
}

// GetUserByID returns a profile by ID. Accessible to the profile owner
// and admins.
func (h *Handler) GetUserByID(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	if err := policy.RequireOwner(identity, targetID); err != nil {
		common.RespondWithError(c, err)
		return
	}

	svUser, err := h.service.GetUserByID(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.RespondWithError(c, common.ErrNotFound.WithDetails("User not found."))
			return
		}
		h.logger.Error("Failed to fetch user", zap.String("targetID", targetID.String()), zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User retrieved successfully.", shared.ToUserResponse(svUser))
}
