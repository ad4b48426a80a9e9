package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/redis"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/response"
)

// RateLimit 基于 Redis 的速率限制中间件。
// 手动触发生成、导出这类重接口按 IP+路径限流；
// rdb 为 nil 或 Redis 出错时降级放行（与 JWTAuth 黑名单策略一致）。
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
