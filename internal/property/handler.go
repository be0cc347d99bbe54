// File: internal/property/handler.go
package property

import (
	"errors"

	"unihome_backend/internal/common"
	"unihome_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for property listings.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new property handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("property_handler")}
}

// RegisterRoutes sets up the routes for property operations.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	properties := rg.Group("/properties")
	{
		properties.GET("", h.search)
		properties.GET("/:id", h.getByID)
		properties.GET("/:id/availability", h.listAvailability)

		authed := properties.Group("")
		authed.Use(authMiddleware)
		{
			authed.POST("", h.create)
			authed.GET("/my-properties", h.listMine)
			authed.PUT("/:id", h.update)
			authed.DELETE("/:id", h.delete)
			authed.PUT("/:id/availability", h.replaceAvailability)
			authed.POST("/:id/media", h.addMedia)
		}
	}
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}

func parsePropertyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) search(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid search parameters."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	properties, total, err := h.service.Search(c.Request.Context(), query, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Properties retrieved successfully.",
		ToPropertyResponses(properties), common.NewPagination(total, page, pageSize))
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property retrieved successfully.", ToPropertyResponse(p))
}

func (h *Handler) create(c *gin.Context) {
	var req CreatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	p, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Property created successfully.", ToPropertyResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}
	var req UpdatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	p, err := h.service.Update(c.Request.Context(), identity, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property updated successfully.", ToPropertyResponse(p))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}
	identity := middleware.GetIdentityFromContext(c)
	if err := h.service.Delete(c.Request.Context(), identity, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listMine(c *gin.Context) {
	identity := middleware.GetIdentityFromContext(c)
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	properties, total, err := h.service.ListMine(c.Request.Context(), identity, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Your properties retrieved successfully.",
		ToPropertyResponses(properties), common.NewPagination(total, page, pageSize))
}

func (h *Handler) replaceAvailability(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}
	var req ReplaceAvailabilityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	slots, err := h.service.ReplaceAvailability(c.Request.Context(), identity, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]AvailabilityResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, AvailabilityResponse{
			Date:        slot.Date.Format("2006-01-02"),
			IsAvailable: slot.IsAvailable,
		})
	}
	common.RespondOK(c, "Availability replaced successfully.", out)
}

func (h *Handler) listAvailability(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}
	slots, err := h.service.ListAvailability(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]AvailabilityResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, AvailabilityResponse{
			Date:        slot.Date.Format("2006-01-02"),
			IsAvailable: slot.IsAvailable,
		})
	}
	common.RespondOK(c, "Availability retrieved successfully.", out)
}

func (h *Handler) addMedia(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}
	var req AddMediaRequest
	if !h.bindJSON(c, &req) {
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	media, err := h.service.AddMedia(c.Request.Context(), identity, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Media added successfully.", MediaResponse{
		ID:        media.ID,
		URL:       media.URL,
		MediaType: media.MediaType,
	})
}
