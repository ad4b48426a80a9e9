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

// MissionHandler 任务接口
type MissionHandler struct {
	svc    service.MissionService
	logger *zap.Logger
}

// NewMissionHandler 创建 MissionHandler
func NewMissionHandler(svc service.MissionService, logger *zap.Logger) *MissionHandler {
	return &MissionHandler{svc: svc, logger: logger}
}

// Create POST /api/v1/missions
func (h *MissionHandler) Create(c *gin.Context) {
	var req dto.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 21001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get GET /api/v1/missions/:id
func (h *MissionHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// List GET /api/v1/missions?from=&to=
func (h *MissionHandler) List(c *gin.Context) {
	var req dto.MissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 21001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update PUT /api/v1/missions/:id
func (h *MissionHandler) Update(c *gin.Context) {
	var req dto.UpdateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 21001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/missions/:id
func (h *MissionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *MissionHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissionNotFound):
		response.NotFound(c, 21002, err.Error())
	case errors.Is(err, service.ErrMissionInvalidDate),
		errors.Is(err, service.ErrMissionInvalidTime),
		errors.Is(err, service.ErrMissionInvalidStatus),
		errors.Is(err, service.ErrMissionCampaignGone):
		response.BadRequest(c, 21003, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 21004, "数据已被其他人修改，请刷新后重试")
	default:
		h.logger.Error("任务接口内部错误", zap.Error(err))
		response.InternalError(c)
	}
}
