package handler

import (
	"io"
	"net/http"
	"strconv"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChatHandler struct {
	svc *service.ChatService
}

type ChatSendReq struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

type ChatMarkReadReq struct {
	MessageID uint64 `json:"message_id"`
}

func NewChatHandler(db *gorm.DB, hub *service.RoomHub) *ChatHandler {
	return &ChatHandler{
		svc: service.NewChatService(db, hub),
	}
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID := middleware.UserID(c)
	roomID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req ChatSendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	// 落库成功才会返回，seq 即广播顺序
	msg, err := h.svc.PostMessage(c.Request.Context(), roomID, userID, req.Content, req.ImageURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "id": msg.ID, "seq": msg.Seq})
}

// Stream SSE 订阅房间消息。只推订阅之后的新消息，历史走 History 接口
func (h *ChatHandler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)
	roomID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	sub, err := h.svc.Subscribe(c.Request.Context(), roomID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Id:    strconv.FormatUint(msg.Seq, 10),
				Event: "message",
				Data: gin.H{
					"id":         msg.ID,
					"seq":        msg.Seq,
					"sender_id":  msg.SenderID,
					"content":    msg.Content,
					"image_url":  msg.ImageURL,
					"created_at": msg.CreatedAt.Unix(),
				},
			})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *ChatHandler) History(c *gin.Context) {
	userID := middleware.UserID(c)
	roomID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	afterSeq, _ := strconv.ParseUint(c.Query("after_seq"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.History(c.Request.Context(), roomID, userID, afterSeq, limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "list": list})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID := middleware.UserID(c)
	roomID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req ChatMarkReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), roomID, userID, req.MessageID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}

func (h *ChatHandler) Unread(c *gin.Context) {
	userID := middleware.UserID(c)
	roomID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	count, err := h.svc.UnreadCount(c.Request.Context(), roomID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "count": count})
}
