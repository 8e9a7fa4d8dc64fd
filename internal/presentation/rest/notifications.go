package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

// NotificationHandler exposes the caller's in-app notifications.
type NotificationHandler struct {
	notifications usecase.NotificationService
}

func NewNotificationHandler(notifications usecase.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/notifications", h.list)
	r.POST("/notifications/read-all", h.markAllRead)
	r.POST("/notifications/:id/read", h.markRead)
	r.DELETE("/notifications/:id", h.delete)
}

func (h *NotificationHandler) list(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	actor := actorID(c)

	list, err := h.notifications.ListForUser(c.Request.Context(), actor, unreadOnly)
	if err != nil {
		_ = c.Error(err)
		return
	}
	unread, err := h.notifications.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": usecase.ToNotificationResponses(list),
		"unread":        unread,
	})
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.notifications.MarkAsRead(c.Request.Context(), id, actorID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		_ = c.Error(apperr.NotFound("notification %s not found", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	count, err := h.notifications.MarkAllAsRead(c.Request.Context(), actorID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count})
}

func (h *NotificationHandler) delete(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.notifications.Delete(c.Request.Context(), id, actorID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		_ = c.Error(apperr.NotFound("notification %s not found", id))
		return
	}
	c.Status(http.StatusNoContent)
}
