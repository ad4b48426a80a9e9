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

// ── 训练模块业务错误 ──

var (
	ErrTrainingNotFound      = errors.New("训练不存在")
	ErrTrainingInvalidDate   = errors.New("日期格式非法，应为 YYYY-MM-DD")
	ErrTrainingInvalidTime   = errors.New("时间格式非法，应为 HH:MM")
	ErrTrainingInvalidStatus = errors.New("非法的训练状态")
)

// TrainingService 训练业务接口
// 手动创建的训练与模板生成的训练走同一套读写路径
type TrainingService interface {
	Create(ctx context.Context, req *dto.CreateTrainingRequest, callerID string) (*dto.TrainingResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TrainingResponse, error)
	List(ctx context.Context, req *dto.TrainingListRequest) ([]dto.TrainingResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTrainingRequest, callerID string) (*dto.TrainingResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type trainingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTrainingService 创建 TrainingService 实例
func NewTrainingService(repo *repository.Repository, logger *zap.Logger) TrainingService {
	return &trainingService{repo: repo, logger: logger}
}

func (s *trainingService) Create(ctx context.Context, req *dto.CreateTrainingRequest, callerID string) (*dto.TrainingResponse, error) {
	if !schedule.ValidDate(req.Date) {
		return nil, ErrTrainingInvalidDate
	}
	if !schedule.ValidTime(req.Time) {
		return nil, ErrTrainingInvalidTime
	}

	training := &model.Training{
		Name:         req.Name,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Location:     req.Location,
		Instructor:   req.Instructor,
		MaxPersonnel: req.MaxPersonnel,
		Status:       model.EventScheduled,
	}
	training.CreatedBy = &callerID
	training.UpdatedBy = &callerID

	if err := s.repo.Training.Create(ctx, training); err != nil {
		s.logger.Error("创建训练失败", zap.Error(err))
		return nil, err
	}
	return toTrainingResponse(training), nil
}

func (s *trainingService) GetByID(ctx context.Context, id string) (*dto.TrainingResponse, error) {
	training, err := s.repo.Training.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return nil, err
	}

	s.refreshStatus(ctx, training)
	return toTrainingResponse(training), nil
}

func (s *trainingService) List(ctx context.Context, req *dto.TrainingListRequest) ([]dto.TrainingResponse, error) {
	if req.From != "" && !schedule.ValidDate(req.From) {
		return nil, ErrTrainingInvalidDate
	}
	if req.To != "" && !schedule.ValidDate(req.To) {
		return nil, ErrTrainingInvalidDate
	}

	trainings, err := s.repo.Training.List(ctx, req.From, req.To)
	if err != nil {
		s.logger.Error("查询训练列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TrainingResponse, 0, len(trainings))
	for i := range trainings {
		s.refreshStatus(ctx, &trainings[i])
		result = append(result, *toTrainingResponse(&trainings[i]))
	}
	return result, nil
}

func (s *trainingService) Update(ctx context.Context, id string, req *dto.UpdateTrainingRequest, callerID string) (*dto.TrainingResponse, error) {
	training, err := s.repo.Training.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询训练失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		training.Name = *req.Name
	}
	if req.Description != nil {
		training.Description = *req.Description
	}
	if req.Date != nil {
		if !schedule.ValidDate(*req.Date) {
			return nil, ErrTrainingInvalidDate
		}
		training.Date = *req.Date
	}
	if req.Time != nil {
		if !schedule.ValidTime(*req.Time) {
			return nil, ErrTrainingInvalidTime
		}
		training.Time = *req.Time
	}
	if req.Location != nil {
		training.Location = *req.Location
	}
	if req.Instructor != nil {
		training.Instructor = *req.Instructor
	}
	if req.MaxPersonnel != nil {
		training.MaxPersonnel = *req.MaxPersonnel
	}
	if req.Status != nil {
		status := model.EventStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrTrainingInvalidStatus
		}
		training.Status = status
	}
	training.UpdatedBy = &callerID

	if err := s.repo.Training.Update(ctx, training); err != nil {
		s.logger.Error("更新训练失败", zap.Error(err))
		return nil, err
	}
	return toTrainingResponse(training), nil
}

func (s *trainingService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Training.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	return s.repo.Training.Delete(ctx, id, callerID)
}

func (s *trainingService) refreshStatus(ctx context.Context, training *model.Training) {
	derived := schedule.DeriveEventStatus(training.Status, training.Date, training.Time, time.Now())
	if derived == training.Status {
		return
	}
	if err := s.repo.Training.UpdateStatus(ctx, training.TrainingID, derived); err != nil {
		s.logger.Warn("回写训练状态失败",
			zap.String("training_id", training.TrainingID),
			zap.Error(err),
		)
	}
	training.Status = derived
}

func toTrainingResponse(t *model.Training) *dto.TrainingResponse {
	return &dto.TrainingResponse{
		ID:           t.TrainingID,
		Name:         t.Name,
		Description:  t.Description,
		Date:         t.Date,
		Time:         t.Time,
		Location:     t.Location,
		Instructor:   t.Instructor,
		MaxPersonnel: t.MaxPersonnel,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
	}
}
