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

// ── 任务模块业务错误 ──

var (
	ErrMissionNotFound      = errors.New("任务不存在")
	ErrMissionInvalidDate   = errors.New("日期格式非法，应为 YYYY-MM-DD")
	ErrMissionInvalidTime   = errors.New("时间格式非法，应为 HH:MM")
	ErrMissionInvalidStatus = errors.New("非法的任务状态")
	ErrMissionCampaignGone  = errors.New("关联的战役不存在")
)

// MissionService 任务业务接口
type MissionService interface {
	Create(ctx context.Context, req *dto.CreateMissionRequest, callerID string) (*dto.MissionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MissionResponse, error)
	List(ctx context.Context, req *dto.MissionListRequest) ([]dto.MissionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMissionRequest, callerID string) (*dto.MissionResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type missionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMissionService 创建 MissionService 实例
func NewMissionService(repo *repository.Repository, logger *zap.Logger) MissionService {
	return &missionService{repo: repo, logger: logger}
}

func (s *missionService) Create(ctx context.Context, req *dto.CreateMissionRequest, callerID string) (*dto.MissionResponse, error) {
	if !schedule.ValidDate(req.Date) {
		return nil, ErrMissionInvalidDate
	}
	if !schedule.ValidTime(req.Time) {
		return nil, ErrMissionInvalidTime
	}
	if req.CampaignID != nil {
		if _, err := s.repo.Campaign.GetByID(ctx, *req.CampaignID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMissionCampaignGone
			}
			return nil, err
		}
	}

	mission := &model.Mission{
		Name:        req.Name,
		Description: req.Description,
		CampaignID:  req.CampaignID,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Status:      model.EventScheduled,
	}
	mission.CreatedBy = &callerID
	mission.UpdatedBy = &callerID

	if err := s.repo.Mission.Create(ctx, mission); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}
	return toMissionResponse(mission), nil
}

func (s *missionService) GetByID(ctx context.Context, id string) (*dto.MissionResponse, error) {
	mission, err := s.repo.Mission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	s.refreshStatus(ctx, mission)
	return toMissionResponse(mission), nil
}

func (s *missionService) List(ctx context.Context, req *dto.MissionListRequest) ([]dto.MissionResponse, error) {
	if req.From != "" && !schedule.ValidDate(req.From) {
		return nil, ErrMissionInvalidDate
	}
	if req.To != "" && !schedule.ValidDate(req.To) {
		return nil, ErrMissionInvalidDate
	}

	missions, err := s.repo.Mission.List(ctx, req.From, req.To)
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MissionResponse, 0, len(missions))
	for i := range missions {
		s.refreshStatus(ctx, &missions[i])
		result = append(result, *toMissionResponse(&missions[i]))
	}
	return result, nil
}

func (s *missionService) Update(ctx context.Context, id string, req *dto.UpdateMissionRequest, callerID string) (*dto.MissionResponse, error) {
	mission, err := s.repo.Mission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		mission.Name = *req.Name
	}
	if req.Description != nil {
		mission.Description = *req.Description
	}
	if req.CampaignID != nil {
		if _, err := s.repo.Campaign.GetByID(ctx, *req.CampaignID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMissionCampaignGone
			}
			return nil, err
		}
		mission.CampaignID = req.CampaignID
	}
	if req.Date != nil {
		if !schedule.ValidDate(*req.Date) {
			return nil, ErrMissionInvalidDate
		}
		mission.Date = *req.Date
	}
	if req.Time != nil {
		if !schedule.ValidTime(*req.Time) {
			return nil, ErrMissionInvalidTime
		}
		mission.Time = *req.Time
	}
	if req.Status != nil {
		status := model.EventStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrMissionInvalidStatus
		}
		mission.Status = status
	}
	if req.Location != nil {
		mission.Location = *req.Location
	}
	mission.UpdatedBy = &callerID

	if err := s.repo.Mission.Update(ctx, mission); err != nil {
		s.logger.Error("更新任务失败", zap.Error(err))
		return nil, err
	}
	return toMissionResponse(mission), nil
}

func (s *missionService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Mission.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMissionNotFound
		}
		return err
	}
	return s.repo.Mission.Delete(ctx, id, callerID)
}

func (s *missionService) refreshStatus(ctx context.Context, mission *model.Mission) {
	derived := schedule.DeriveEventStatus(mission.Status, mission.Date, mission.Time, time.Now())
	if derived == mission.Status {
		return
	}
	if err := s.repo.Mission.UpdateStatus(ctx, mission.MissionID, derived); err != nil {
		s.logger.Warn("回写任务状态失败",
			zap.String("mission_id", mission.MissionID),
			zap.Error(err),
		)
	}
	mission.Status = derived
}

func toMissionResponse(m *model.Mission) *dto.MissionResponse {
	return &dto.MissionResponse{
		ID:          m.MissionID,
		Name:        m.Name,
		Description: m.Description,
		CampaignID:  m.CampaignID,
		Date:        m.Date,
		Time:        m.Time,
		Location:    m.Location,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}
