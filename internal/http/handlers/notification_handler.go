package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/venture-backend/internal/http/handlers/common"
	"github.com/ignatzorin/venture-backend/internal/repository"
	"github.com/ignatzorin/venture-backend/internal/service"
)

// NotificationHandler обслуживает маршруты уведомлений.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler создаёт новый хэндлер.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications обрабатывает GET /notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	notifications, err := h.notifications.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkAsRead обрабатывает POST /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			common.RespondNotFound(c, "уведомление не найдено")
			return
		}
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "уведомление прочитано", nil)
}

// MarkAllAsRead обрабатывает POST /notifications/read-all.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "все уведомления прочитаны", nil)
}

// CountUnread обрабатывает GET /notifications/unread-count.
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}
