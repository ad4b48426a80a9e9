package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/dto"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/repository"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/schedule"
)

// ── 战役模块业务错误 ──

var (
	ErrCampaignNotFound      = errors.New("战役不存在")
	ErrCampaignInvalidDate   = errors.New("日期格式非法，应为 YYYY-MM-DD")
	ErrCampaignDateRange     = errors.New("开始日期不能晚于结束日期")
	ErrCampaignInvalidStatus = errors.New("非法的战役状态")
)

// CampaignService 战役业务接口
// 读路径按当前时间惰性修正状态：推导结果与存量不同时回写后返回
type CampaignService interface {
	Create(ctx context.Context, req *dto.CreateCampaignRequest, callerID string) (*dto.CampaignResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CampaignResponse, error)
	List(ctx context.Context) ([]dto.CampaignResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCampaignRequest, callerID string) (*dto.CampaignResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type campaignService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCampaignService 创建 CampaignService 实例
func NewCampaignService(repo *repository.Repository, logger *zap.Logger) CampaignService {
	return &campaignService{repo: repo, logger: logger}
}

func (s *campaignService) Create(ctx context.Context, req *dto.CreateCampaignRequest, callerID string) (*dto.CampaignResponse, error) {
	if !schedule.ValidDate(req.StartDate) || !schedule.ValidDate(req.EndDate) {
		return nil, ErrCampaignInvalidDate
	}
	if req.StartDate > req.EndDate {
		return nil, ErrCampaignDateRange
	}

	campaign := &model.Campaign{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		// 初始状态直接按日期窗口推导，未来窗口即 planning
		Status: schedule.DeriveCampaignStatus(model.CampaignPlanning, req.StartDate, req.EndDate, time.Now()),
	}
	campaign.CreatedBy = &callerID
	campaign.UpdatedBy = &callerID

	if err := s.repo.Campaign.Create(ctx, campaign); err != nil {
		s.logger.Error("创建战役失败", zap.Error(err))
		return nil, err
	}

	return toCampaignResponse(campaign), nil
}

func (s *campaignService) GetByID(ctx context.Context, id string) (*dto.CampaignResponse, error) {
	campaign, err := s.repo.Campaign.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		s.logger.Error("查询战役失败", zap.Error(err))
		return nil, err
	}

	s.refreshStatus(ctx, campaign)
	return toCampaignResponse(campaign), nil
}

func (s *campaignService) List(ctx context.Context) ([]dto.CampaignResponse, error) {
	campaigns, err := s.repo.Campaign.List(ctx)
	if err != nil {
		s.logger.Error("查询战役列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		s.refreshStatus(ctx, &campaigns[i])
		result = append(result, *toCampaignResponse(&campaigns[i]))
	}
	return result, nil
}

func (s *campaignService) Update(ctx context.Context, id string, req *dto.UpdateCampaignRequest, callerID string) (*dto.CampaignResponse, error) {
	campaign, err := s.repo.Campaign.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		s.logger.Error("查询战役失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.StartDate != nil {
		if !schedule.ValidDate(*req.StartDate) {
			return nil, ErrCampaignInvalidDate
		}
		campaign.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		if !schedule.ValidDate(*req.EndDate) {
			return nil, ErrCampaignInvalidDate
		}
		campaign.EndDate = *req.EndDate
	}
	if campaign.StartDate > campaign.EndDate {
		return nil, ErrCampaignDateRange
	}
	if req.Status != nil {
		status := model.CampaignStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrCampaignInvalidStatus
		}
		campaign.Status = status
	}
	campaign.UpdatedBy = &callerID

	if err := s.repo.Campaign.Update(ctx, campaign); err != nil {
		s.logger.Error("更新战役失败", zap.Error(err))
		return nil, err
	}
	return toCampaignResponse(campaign), nil
}

func (s *campaignService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Campaign.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCampaignNotFound
		}
		return err
	}
	return s.repo.Campaign.Delete(ctx, id, callerID)
}

// refreshStatus 惰性修正状态：推导与存量不同时回写。
// 回写失败只记日志，推导结果仍返回给调用方。
func (s *campaignService) refreshStatus(ctx context.Context, campaign *model.Campaign) {
	derived := schedule.DeriveCampaignStatus(campaign.Status, campaign.StartDate, campaign.EndDate, time.Now())
	if derived == campaign.Status {
		return
	}
	if err := s.repo.Campaign.UpdateStatus(ctx, campaign.CampaignID, derived); err != nil {
		s.logger.Warn("回写战役状态失败",
			zap.String("campaign_id", campaign.CampaignID),
			zap.Error(err),
		)
	}
	campaign.Status = derived
}

func toCampaignResponse(c *model.Campaign) *dto.CampaignResponse {
	return &dto.CampaignResponse{
		ID:          c.CampaignID,
		Name:        c.Name,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}
