package service

import (
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/config"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/repository"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Campaign  CampaignService
	Mission   MissionService
	Training  TrainingService
	Recurring RecurringService
	Export    ExportService
	Feed      CalendarFeedService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：Redis 不可用时运行锁降级为无锁执行，数据库唯一索引兜底
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Campaign:  NewCampaignService(repo, logger),
		Mission:   NewMissionService(repo, logger),
		Training:  NewTrainingService(repo, logger),
		Recurring: NewRecurringService(repo, rdb, logger),
		Export:    NewExportService(repo, logger),
		Feed:      NewCalendarFeedService(repo, logger),
	}
}
