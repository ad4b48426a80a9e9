package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/config"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/api/handler"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/api/middleware"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/jwt"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/redis"
)

// 角色常量与门户主站保持一致
const (
	RoleAdmin   = "admin"
	RoleCommand = "command"
	RoleMember  = "member"
)

// Setup 装配路由与中间件
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtManager *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(&cfg.Server.CORS))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// 健康检查与订阅源不走鉴权
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/calendar/feed.ics", h.Calendar.Feed)

	auth := v1.Group("")
	auth.Use(middleware.JWTAuth(jwtManager, rdb))

	// 全员可读
	auth.GET("/campaigns", h.Campaign.List)
	auth.GET("/campaigns/:id", h.Campaign.Get)
	auth.GET("/missions", h.Mission.List)
	auth.GET("/missions/:id", h.Mission.Get)
	auth.GET("/trainings", h.Training.List)
	auth.GET("/trainings/:id", h.Training.Get)
	auth.GET("/recurring-trainings", h.Recurring.List)
	auth.GET("/recurring-trainings/:id", h.Recurring.Get)
	auth.GET("/recurring-trainings/:id/occurrences", h.Recurring.Occurrences)

	// 指挥层以上可写
	manage := auth.Group("")
	manage.Use(middleware.RequireRole(RoleAdmin, RoleCommand))

	manage.POST("/campaigns", h.Campaign.Create)
	manage.PUT("/campaigns/:id", h.Campaign.Update)
	manage.DELETE("/campaigns/:id", h.Campaign.Delete)

	manage.POST("/missions", h.Mission.Create)
	manage.PUT("/missions/:id", h.Mission.Update)
	manage.DELETE("/missions/:id", h.Mission.Delete)

	manage.POST("/trainings", h.Training.Create)
	manage.PUT("/trainings/:id", h.Training.Update)
	manage.DELETE("/trainings/:id", h.Training.Delete)

	manage.POST("/recurring-trainings", h.Recurring.Create)
	manage.PUT("/recurring-trainings/:id", h.Recurring.Update)
	manage.DELETE("/recurring-trainings/:id", h.Recurring.Delete)
	manage.POST("/recurring-trainings/process",
		middleware.RateLimit(rdb, 5, time.Minute), h.Recurring.Process)

	manage.GET("/export/schedule",
		middleware.RateLimit(rdb, 10, time.Minute), h.Export.Schedule)

	return r
}
