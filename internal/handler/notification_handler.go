package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"groupplan/internal/middleware"
	"groupplan/internal/repository"
)

type NotificationHandler struct {
	notifications repository.NotificationRepositoryInterface
}

func NewNotificationHandler(notifications repository.NotificationRepositoryInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	notifications, err := h.notifications.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}
	respondData(c, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	notificationID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	marked, err := h.notifications.MarkRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark notification")
		return
	}
	if !marked {
		respondError(c, http.StatusNotFound, "Notification not found")
		return
	}
	respondMessage(c, http.StatusOK, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	count, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark notifications")
		return
	}
	respondData(c, http.StatusOK, gin.H{"marked": count})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count notifications")
		return
	}
	respondData(c, http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	notificationID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	deleted, err := h.notifications.Delete(c.Request.Context(), notificationID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Notification not found")
		return
	}
	respondMessage(c, http.StatusOK, "Notification deleted")
}
