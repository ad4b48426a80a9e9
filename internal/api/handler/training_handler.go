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

// TrainingHandler 训练接口
type TrainingHandler struct {
	svc    service.TrainingService
	logger *zap.Logger
}

// NewTrainingHandler 创建 TrainingHandler
func NewTrainingHandler(svc service.TrainingService, logger *zap.Logger) *TrainingHandler {
	return &TrainingHandler{svc: svc, logger: logger}
}

// Create POST /api/v1/trainings
func (h *TrainingHandler) Create(c *gin.Context) {
	var req dto.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get GET /api/v1/trainings/:id
func (h *TrainingHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// List GET /api/v1/trainings?from=&to=
func (h *TrainingHandler) List(c *gin.Context) {
	var req dto.TrainingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 22001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update PUT /api/v1/trainings/:id
func (h *TrainingHandler) Update(c *gin.Context) {
	var req dto.UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/trainings/:id
func (h *TrainingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *TrainingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrainingNotFound):
		response.NotFound(c, 22002, err.Error())
	case errors.Is(err, service.ErrTrainingInvalidDate),
		errors.Is(err, service.ErrTrainingInvalidTime),
		errors.Is(err, service.ErrTrainingInvalidStatus):
		response.BadRequest(c, 22003, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 22004, "数据已被其他人修改，请刷新后重试")
	default:
		h.logger.Error("训练接口内部错误", zap.Error(err))
		response.InternalError(c)
	}
}
