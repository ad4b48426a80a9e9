package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/api/middleware"
)

// callerID 取当前登录用户 ID（JWTAuth 写入）
func callerID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}
