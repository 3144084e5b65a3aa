package middleware

import (
	"context"
	"net/http"

	"Sawa_Community/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const IdempotencyKeyHeader = "X-Idempotency-Key"

// Idempotency 变更接口的幂等拦截：带 X-Idempotency-Key 的重放请求直接短路。
// 键只在请求成功生效后才算消耗：失败（超时、5xx、业务错误）要归还，
// 客户端对 Timeout/Transient 错误带同一个键重试时请求要能真正重做。
func Idempotency() gin.HandlerFunc {
	repo := &redis.IdempotencyRepository{}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		userID := UserID(c)
		first, err := repo.Claim(c.Request.Context(), userID, key)
		if err != nil {
			// redis 不可用时放行，底层存储自身的幂等性兜底
			c.Next()
			return
		}
		if !first {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"code": 0, "msg": "duplicate request", "idempotent": true})
			return
		}
		c.Next()
		// 没写成功就归还键。归还用背景上下文：请求本身的超时正是常见的失败原因
		if c.Writer.Status() >= http.StatusBadRequest {
			_ = repo.Release(context.Background(), userID, key)
		}
	}
}
