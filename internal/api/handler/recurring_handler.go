package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/dto"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/service"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/response"
)

// RecurringHandler 周期训练接口
type RecurringHandler struct {
	svc    service.RecurringService
	logger *zap.Logger
}

// NewRecurringHandler 创建 RecurringHandler
func NewRecurringHandler(svc service.RecurringService, logger *zap.Logger) *RecurringHandler {
	return &RecurringHandler{svc: svc, logger: logger}
}

// Create POST /api/v1/recurring-trainings
func (h *RecurringHandler) Create(c *gin.Context) {
	var req dto.CreateRecurringTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 23001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get GET /api/v1/recurring-trainings/:id
func (h *RecurringHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// List GET /api/v1/recurring-trainings
func (h *RecurringHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update PUT /api/v1/recurring-trainings/:id
func (h *RecurringHandler) Update(c *gin.Context) {
	var req dto.UpdateRecurringTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 23001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/recurring-trainings/:id
// 删除模板与台账，已生成的训练保留为历史记录
func (h *RecurringHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Occurrences GET /api/v1/recurring-trainings/:id/occurrences?count=
func (h *RecurringHandler) Occurrences(c *gin.Context) {
	var req dto.OccurrencesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 23001, "请求参数错误: "+err.Error())
		return
	}

	dates, err := h.svc.Occurrences(c.Request.Context(), c.Param("id"), req.Count)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"dates": dates})
}

// Process POST /api/v1/recurring-trainings/process
// 手动触发一轮生成；与定时任务共用同一把运行锁
func (h *RecurringHandler) Process(c *gin.Context) {
	resp, err := h.svc.Process(c.Request.Context(), callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *RecurringHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecurringNotFound):
		response.NotFound(c, 23002, err.Error())
	case errors.Is(err, service.ErrRecurringInvalidDay),
		errors.Is(err, service.ErrRecurringInvalidTime):
		response.BadRequest(c, 23003, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 23004, "数据已被其他人修改，请刷新后重试")
	case errors.Is(err, pkgerrors.ErrProcessRunning):
		response.Conflict(c, 23005, err.Error())
	default:
		h.logger.Error("周期训练接口内部错误", zap.Error(err))
		response.InternalError(c)
	}
}
