package handler

import (
	"net/http"
	"strconv"
	"time"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventHandler struct {
	svc *service.EventService
}

type EventCreateReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	StartsAt    int64   `json:"starts_at"` // unix秒
	Capacity    int     `json:"capacity"`
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		svc: service.NewEventService(db),
	}
}

func (h *EventHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req EventCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	e, err := h.svc.CreateEvent(c.Request.Context(), userID, service.CreateEventInput{
		CommunityID: communityID,
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		StartsAt:    time.Unix(req.StartsAt, 0),
		Capacity:    req.Capacity,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "id": e.ID})
}

func (h *EventHandler) List(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByCommunity(c.Request.Context(), communityID, page, size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "list": list})
}

func (h *EventHandler) Join(c *gin.Context) {
	userID := middleware.UserID(c)
	eventID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	changed, err := h.svc.JoinEvent(c.Request.Context(), eventID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed, "status": "Joined"})
}

func (h *EventHandler) Leave(c *gin.Context) {
	userID := middleware.UserID(c)
	eventID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	changed, err := h.svc.LeaveEvent(c.Request.Context(), eventID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed})
}

func (h *EventHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	eventID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeleteEvent(c.Request.Context(), eventID, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}
