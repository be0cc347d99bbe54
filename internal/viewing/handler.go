// File: internal/viewing/handler.go
package viewing

import (
	"errors"

	"unihome_backend/internal/common"
	"unihome_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for viewing requests.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new viewing request handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("viewing_handler")}
}

// RegisterRoutes sets up the routes for viewing request operations.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	requests := rg.Group("/viewing-requests")
	requests.Use(authMiddleware)
	{
		requests.POST("", h.create)
		requests.GET("", h.list)
		requests.PUT("/:id", h.updateStatus)
		requests.DELETE("/:id", h.cancel)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateViewingRequest
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
	vr, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Viewing request created successfully.", ToViewingRequestResponse(vr))
}

func (h *Handler) list(c *gin.Context) {
	identity := middleware.GetIdentityFromContext(c)
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	requests, total, err := h.service.List(c.Request.Context(), identity, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Viewing requests retrieved successfully.",
		ToViewingRequestResponses(requests), common.NewPagination(total, page, pageSize))
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid viewing request ID format."))
		return
	}

	var req UpdateStatusRequest
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
	vr, err := h.service.UpdateStatus(c.Request.Context(), identity, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Viewing request updated successfully.", ToViewingRequestResponse(vr))
}

func (h *Handler) cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid viewing request ID format."))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	if err := h.service.Cancel(c.Request.Context(), identity, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
