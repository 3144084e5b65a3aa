package handler

import (
	"net/http"
	"strconv"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	svc *service.PostService
}

type PostCreateReq struct {
	CommunityID uint64 `json:"community_id"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{
		svc: service.NewPostService(db),
	}
}

func (h *PostHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req PostCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), userID, req.CommunityID, req.Content, req.ImageURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "id": post.ID})
}

// List 页码分页，简单场景用
func (h *PostHandler) List(c *gin.Context) {
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

// Feed 游标分页，深翻页不退化
func (h *PostHandler) Feed(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	lastID, _ := strconv.ParseUint(c.Query("last_id"), 10, 64)
	lastTS, _ := strconv.ParseInt(c.Query("last_ts"), 10, 64)
	size, _ := strconv.Atoi(c.Query("size"))

	list, nextID, nextTS, err := h.svc.ListByCommunityCursor(c.Request.Context(), communityID, lastID, lastTS, size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"list":    list,
		"next_id": nextID,
		"next_ts": nextTS,
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}
