package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/service"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/response"
)

// CalendarHandler 日历订阅接口
type CalendarHandler struct {
	svc    service.CalendarFeedService
	logger *zap.Logger
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(svc service.CalendarFeedService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{svc: svc, logger: logger}
}

// Feed GET /api/v1/calendar/feed.ics
// 日历客户端轮询订阅，无鉴权（内容只含日程，订阅地址由门户分发）
func (h *CalendarHandler) Feed(c *gin.Context) {
	feed, err := h.svc.BuildFeed(c.Request.Context())
	if err != nil {
		h.logger.Error("订阅源接口内部错误", zap.Error(err))
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="nswg1.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
