// File: internal/admin/handler.go
package admin

import (
	"errors"
	"strconv"

	"unihome_backend/internal/common"
	"unihome_backend/internal/middleware"
	"unihome_backend/internal/property"
	"unihome_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for admin operations.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new admin handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("admin_handler")}
}

// RegisterRoutes sets up the admin routes. Every route requires an
// authenticated admin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	adm := rg.Group("/admin")
	adm.Use(authMiddleware, middleware.RoleAuthMiddleware(common.RoleAdmin))
	{
		adm.GET("/stats", h.getStats)
		adm.GET("/users", h.listUsers)
		adm.DELETE("/users/:id", h.deleteUser)
		adm.GET("/properties", h.listProperties)
		adm.DELETE("/properties/:id", h.deleteProperty)
		adm.POST("/flags", h.createFlag)
		adm.GET("/flags", h.listFlags)
		adm.PUT("/flags/:id/resolve", h.resolveFlag)
	}
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Statistics retrieved successfully.", stats)
}

func (h *Handler) listUsers(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	users, total, err := h.service.ListUsers(c.Request.Context(), pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]shared.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, shared.ToUserResponse(&users[i]))
	}
	common.RespondPaginated(c, "Users retrieved successfully.",
		responses, common.NewPagination(total, page, pageSize))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	if err := h.service.DeleteUser(c.Request.Context(), identity, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listProperties(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	properties, total, err := h.service.ListProperties(c.Request.Context(), pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Properties retrieved successfully.",
		property.ToPropertyResponses(properties), common.NewPagination(total, page, pageSize))
}

func (h *Handler) deleteProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	if err := h.service.DeleteProperty(c.Request.Context(), identity, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) createFlag(c *gin.Context) {
	var req CreateFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	flag, err := h.service.CreateFlag(c.Request.Context(), identity, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Flag created successfully.", ToFlagResponse(flag))
}

func (h *Handler) listFlags(c *gin.Context) {
	var resolved *bool
	if raw := c.Query("resolved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("The resolved query parameter must be a boolean."))
			return
		}
		resolved = &parsed
	}

	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	flags, total, err := h.service.ListFlags(c.Request.Context(), resolved, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Flags retrieved successfully.",
		ToFlagResponses(flags), common.NewPagination(total, page, pageSize))
}

func (h *Handler) resolveFlag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid flag ID format."))
		return
	}

	if err := h.service.ResolveFlag(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Flag resolved successfully.", nil)
}
