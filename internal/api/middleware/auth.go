package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/jwt"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/redis"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/response"
)

// Context 键，handler 通过 context_helper 读取
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth JWT 认证中间件。
// Token 由门户主站签发，本服务共享密钥校验；rdb 非 nil 时
// 额外检查黑名单（门户端登出会把 jti 拉黑）。
func JWTAuth(manager *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10001, "缺少认证信息")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 10001, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := manager.ParseToken(parts[1])
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, 10002, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, 10001, "认证信息无效")
			}
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, 10001, "认证信息无效")
			c.Abort()
			return
		}

		if rdb != nil && claims.ID != "" {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			// Redis 出错时降级放行，签名校验已经通过
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "登录已失效，请重新登录")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole 角色检查中间件，需在 JWTAuth 之后使用
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, 10003, "没有执行该操作的权限")
			c.Abort()
			return
		}
		c.Next()
	}
}
