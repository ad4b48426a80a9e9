package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/response"
)

// BodyLimit 请求体大小限制中间件。
// 日程接口的请求体都是小 JSON，超限直接判定为异常流量。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && err.Err.Error() == "http: request body too large" {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
