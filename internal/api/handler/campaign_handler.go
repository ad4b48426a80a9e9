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

// CampaignHandler 战役接口
type CampaignHandler struct {
	svc    service.CampaignService
	logger *zap.Logger
}

// NewCampaignHandler 创建 CampaignHandler
func NewCampaignHandler(svc service.CampaignService, logger *zap.Logger) *CampaignHandler {
	return &CampaignHandler{svc: svc, logger: logger}
}

// Create POST /api/v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get GET /api/v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// List GET /api/v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update PUT /api/v1/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *CampaignHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound):
		response.NotFound(c, 20002, err.Error())
	case errors.Is(err, service.ErrCampaignInvalidDate),
		errors.Is(err, service.ErrCampaignDateRange),
		errors.Is(err, service.ErrCampaignInvalidStatus):
		response.BadRequest(c, 20003, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 20004, "数据已被其他人修改，请刷新后重试")
	default:
		h.logger.Error("战役接口内部错误", zap.Error(err))
		response.InternalError(c)
	}
}
