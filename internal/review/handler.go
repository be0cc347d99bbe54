// File: internal/review/handler.go
package review

import (
	"errors"

	"unihome_backend/internal/common"
	"unihome_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reviews.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new review handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("review_handler")}
}

// RegisterRoutes sets up the routes for review operations.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("", h.listByProperty)

		authed := reviews.Group("")
		authed.Use(authMiddleware)
		{
			authed.POST("", h.create)
			authed.DELETE("/:id", h.delete)
		}
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateReviewRequest
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
	review, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Review posted successfully.", ToReviewResponse(review))
}

func (h *Handler) listByProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Query("property_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing or invalid property_id query parameter."))
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	reviews, total, err := h.service.ListByProperty(c.Request.Context(), propertyID, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Reviews retrieved successfully.",
		ToReviewResponses(reviews), common.NewPagination(total, page, pageSize))
}

func (h *Handler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid review ID format."))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	if err := h.service.Delete(c.Request.Context(), identity, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
