package handler

import (
	"net/http"
	"strconv"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

type CommunityLeaveReq struct {
	NewAdminID uint64 `json:"new_admin_id"`
}

func NewCommunityHandler(db *gorm.DB) *CommunityHandler {
	return &CommunityHandler{
		svc: service.NewCommunityService(db),
	}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	community, err := h.svc.CreateCommunity(c.Request.Context(), userID, req.Name, req.Description, req.Category, req.ImageURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":        0,
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
	})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userID := middleware.UserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	changed, err := h.svc.JoinCommunity(c.Request.Context(), userID, communityID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID := middleware.UserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req CommunityLeaveReq
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.LeaveCommunity(c.Request.Context(), userID, communityID, req.NewAdminID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}

func (h *CommunityHandler) Archive(c *gin.Context) {
	userID := middleware.UserID(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.ArchiveCommunity(c.Request.Context(), userID, communityID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListCommunities(c.Request.Context(), page, size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "list": list})
}

func (h *CommunityHandler) Members(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListMembers(c.Request.Context(), communityID, page, size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "list": list})
}
