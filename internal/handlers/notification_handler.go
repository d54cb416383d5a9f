package handlers

import (
	"errors"
	"net/http"

	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/services"
	"flymedia_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.POST("", h.CreateNotification)
		notifications.PUT("/mark-all-read", h.MarkAllAsRead)
		notifications.PUT("/:id/read", h.MarkAsRead)
		notifications.DELETE("/:id", h.DeleteNotification)
		notifications.DELETE("", h.ClearNotifications)
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	list, err := h.notificationService.List(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	notification, err := h.notificationService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// MarkAsRead answers an unknown id with a bare 404, which is what the
// dashboard client checks for.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := ParseParamInt64(c, "id")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id)
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	list, err := h.notificationService.MarkAllRead(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteNotification always answers 204; unknown or malformed ids are a no-op.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, err := ParseParamInt64(c, "id")
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	if err := h.notificationService.Clear(c.Request.Context()); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
