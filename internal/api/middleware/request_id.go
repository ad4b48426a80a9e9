package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID Context 中的请求 ID 键
const CtxRequestID = "request_id"

// RequestID 请求 ID 中间件。
// 透传客户端带来的 X-Request-ID，没有则生成一个，响应头回写。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(CtxRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
