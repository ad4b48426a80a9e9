package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/service"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/response"
)

// ExportHandler 日程导出接口
type ExportHandler struct {
	svc    service.ExportService
	logger *zap.Logger
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(svc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

// Schedule GET /api/v1/export/schedule
// 导出未来三周日程为 xlsx
func (h *ExportHandler) Schedule(c *gin.Context) {
	buf, filename, err := h.svc.ExportSchedule(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoEvents) {
			response.NotFound(c, 24001, err.Error())
			return
		}
		h.logger.Error("导出接口内部错误", zap.Error(err))
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
