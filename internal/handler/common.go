package handler

import (
	"Sawa_Community/internal/pkg"

	"github.com/gin-gonic/gin"
)

// fail 统一错误出口：错误分类到状态码的映射只在 pkg.HTTPStatus 一处
func fail(c *gin.Context, err error) {
	c.JSON(pkg.HTTPStatus(err), gin.H{"code": 1, "msg": err.Error()})
}
