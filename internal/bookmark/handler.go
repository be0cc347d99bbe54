// File: internal/bookmark/handler.go
package bookmark

import (
	"errors"

	"unihome_backend/internal/common"
	"unihome_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for saved properties.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new bookmark handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("bookmark_handler")}
}

// RegisterRoutes sets up the routes for bookmark operations.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	saved := rg.Group("/saved-properties")
	saved.Use(authMiddleware)
	{
		saved.POST("", h.save)
		saved.GET("", h.list)
		saved.DELETE("/:id", h.remove)
	}
}

func (h *Handler) save(c *gin.Context) {
	var req SavePropertyRequest
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
	sp, err := h.service.Save(c.Request.Context(), identity, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Property saved successfully.", ToSavedPropertyResponse(sp))
}

func (h *Handler) list(c *gin.Context) {
	identity := middleware.GetIdentityFromContext(c)
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	bookmarks, total, err := h.service.List(c.Request.Context(), identity, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Saved properties retrieved successfully.",
		ToSavedPropertyResponses(bookmarks), common.NewPagination(total, page, pageSize))
}

func (h *Handler) remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid saved property ID format."))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	if err := h.service.Remove(c.Request.Context(), identity, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
