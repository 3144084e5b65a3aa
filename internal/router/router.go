package router

import (
	"time"

	"Sawa_Community/internal/handler"
	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB, hub *service.RoomHub) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(db)
	community := handler.NewCommunityHandler(db)
	event := handler.NewEventHandler(db)
	post := handler.NewPostHandler(db)
	like := handler.NewPostLikeHandler(db)
	comment := handler.NewCommentHandler(db)
	chat := handler.NewChatHandler(db, hub)
	notify := handler.NewNotificationHandler(db)

	// 写接口统一加超时和幂等键；SSE 长连接单独放行
	write := []gin.HandlerFunc{
		middleware.Timeout(5 * time.Second),
		middleware.Idempotency(),
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.Refresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.GET("/profile", user.Profile)
		authGroup.POST("/profile", append(write, user.UpdateProfile)...)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", append(write, community.Create)...)
		communityGroup.GET("/list", community.List)
		communityGroup.POST("/:id/join", append(write, community.Join)...)
		communityGroup.POST("/:id/leave", append(write, community.Leave)...)
		communityGroup.POST("/:id/archive", append(write, community.Archive)...)
		communityGroup.GET("/:id/members", community.Members)
		communityGroup.POST("/:id/event", append(write, event.Create)...)
		communityGroup.GET("/:id/events", event.List)
		communityGroup.GET("/:id/posts", post.List)
		communityGroup.GET("/:id/feed", post.Feed)
	}

	// 活动相关接口
	eventGroup := r.Group("/api/event")
	eventGroup.Use(middleware.AuthMiddleware())
	{
		eventGroup.POST("/:id/join", append(write, event.Join)...)
		eventGroup.POST("/:id/leave", append(write, event.Leave)...)
		eventGroup.POST("/:id/delete", append(write, event.Delete)...)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/post")
	postGroup.Use(middleware.AuthMiddleware())
	{
		postGroup.POST("/create", append(write, post.Create)...)
		postGroup.POST("/:id/delete", append(write, post.Delete)...)
		postGroup.POST("/:id/like", append(write, like.Like)...)
		postGroup.POST("/:id/unlike", append(write, like.Unlike)...)
		postGroup.GET("/:id/like", like.Status)
		postGroup.GET("/:id/comments", comment.List)
	}

	// 评论相关接口
	commentGroup := r.Group("/api/comment")
	commentGroup.Use(middleware.AuthMiddleware())
	{
		commentGroup.POST("/create", append(write, comment.Create)...)
		commentGroup.POST("/:id/delete", append(write, comment.Delete)...)
	}

	// 聊天相关接口
	chatGroup := r.Group("/api/chat")
	chatGroup.Use(middleware.AuthMiddleware())
	{
		chatGroup.POST("/:id/send", append(write, chat.Send)...)
		chatGroup.GET("/:id/stream", chat.Stream)
		chatGroup.GET("/:id/history", chat.History)
		chatGroup.POST("/:id/read", append(write, chat.MarkRead)...)
		chatGroup.GET("/:id/unread", chat.Unread)
	}

	// 通知相关接口
	notifyGroup := r.Group("/api/notification")
	notifyGroup.Use(middleware.AuthMiddleware())
	{
		notifyGroup.GET("/list", notify.List)
		notifyGroup.GET("/unread", notify.HasUnread)
		notifyGroup.POST("/seen", append(write, notify.MarkSeen)...)
	}

	return r
}
