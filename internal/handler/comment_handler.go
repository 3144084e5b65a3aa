package handler

import (
	"net/http"
	"strconv"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	svc *service.CommentService
}

type CommentCreateReq struct {
	PostID  uint64 `json:"post_id"`
	Content string `json:"content"`
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{
		svc: service.NewCommentService(db),
	}
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), userID, req.PostID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "id": comment.ID})
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListComments(c.Request.Context(), postID, page, size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "list": list})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	commentID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}
