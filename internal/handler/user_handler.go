package handler

import (
	"net/http"

	"Sawa_Community/internal/middleware"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/redis"
	"Sawa_Community/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	svc       *service.UserService
	tokenRepo *redis.UserRepository
}

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type ProfileUpdateReq struct {
	Avatar  string `json:"avatar"`
	AboutMe string `json:"about_me"`
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		svc:       service.NewUserService(db),
		tokenRepo: &redis.UserRepository{},
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.Email); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "register success"})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":          0,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Refresh 换发令牌并覆盖 redis 里旧的 access token，保持单点登录
func (h *UserHandler) Refresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	pair, err := pkg.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 1, "msg": "invalid refresh token"})
		return
	}

	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 1, "msg": "invalid refresh token"})
		return
	}
	if err := h.tokenRepo.AddUserToken(c.Request.Context(), claims.UserID, pair.AccessToken); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":          0,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.svc.Logout(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "logout success"})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	var req ProfileUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	if err := h.svc.UpdateProfile(c.Request.Context(), userID, req.Avatar, req.AboutMe); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID := middleware.UserID(c)

	u, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     0,
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"avatar":   u.Avatar,
		"about_me": u.AboutMe,
	})
}
