package handler

import (
	"net/http"
	"strconv"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostLikeHandler struct {
	svc *service.PostLikeService
}

func NewPostLikeHandler(db *gorm.DB) *PostLikeHandler {
	return &PostLikeHandler{
		svc: service.NewPostLikeService(db),
	}
}

func (h *PostLikeHandler) Like(c *gin.Context) {
	userID := middleware.UserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	changed, err := h.svc.Like(c.Request.Context(), userID, postID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed, "liked": true})
}

func (h *PostLikeHandler) Unlike(c *gin.Context) {
	userID := middleware.UserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	changed, err := h.svc.Unlike(c.Request.Context(), userID, postID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed, "liked": false})
}

func (h *PostLikeHandler) Status(c *gin.Context) {
	userID := middleware.UserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	liked, err := h.svc.IsLiked(c.Request.Context(), userID, postID)
	if err != nil {
		fail(c, err)
		return
	}

	count, err := h.svc.GetCount(c.Request.Context(), userID, postID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "liked": liked, "count": count})
}
