package handler

import (
	"net/http"
	"strconv"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		svc: service.NewNotificationService(db),
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), userID, page, size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "list": list})
}

func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.svc.MarkSeen(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}

func (h *NotificationHandler) HasUnread(c *gin.Context) {
	userID := middleware.UserID(c)

	unread, err := h.svc.HasUnread(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "unread": unread})
}
