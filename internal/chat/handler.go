// File: internal/chat/handler.go
package chat

import (
	"errors"

	"unihome_backend/internal/common"
	"unihome_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for chat.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("chat_handler")}
}

// RegisterRoutes sets up the routes for chat operations.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	chats := rg.Group("/chat")
	chats.Use(authMiddleware)
	{
		chats.POST("/messages", h.sendMessage)
		chats.GET("/messages", h.getMessages)
		chats.GET("/conversations", h.listConversations)
	}
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req SendMessageRequest
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
	message, err := h.service.SendMessage(c.Request.Context(), identity, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message sent successfully.", ToMessageResponse(message))
}

func (h *Handler) getMessages(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Query("conversation_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A valid conversation_id query parameter is required."))
		return
	}

	identity := middleware.GetIdentityFromContext(c)
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	messages, total, err := h.service.GetMessages(c.Request.Context(), identity, conversationID, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Messages retrieved successfully.",
		ToMessageResponses(messages), common.NewPagination(total, page, pageSize))
}

func (h *Handler) listConversations(c *gin.Context) {
	identity := middleware.GetIdentityFromContext(c)
	page, pageSize := common.GetPaginationParams(c)
	pq := common.PaginationQuery{Page: page, PageSize: pageSize}

	conversations, total, err := h.service.ListConversations(c.Request.Context(), identity, pq)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Conversations retrieved successfully.",
		conversations, common.NewPagination(total, page, pageSize))
}
