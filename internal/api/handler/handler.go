package handler

import (
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Campaign  *CampaignHandler
	Mission   *MissionHandler
	Training  *TrainingHandler
	Recurring *RecurringHandler
	Export    *ExportHandler
	Calendar  *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Campaign:  NewCampaignHandler(svc.Campaign, logger),
		Mission:   NewMissionHandler(svc.Mission, logger),
		Training:  NewTrainingHandler(svc.Training, logger),
		Recurring: NewRecurringHandler(svc.Recurring, logger),
		Export:    NewExportHandler(svc.Export, logger),
		Calendar:  NewCalendarHandler(svc.Feed, logger),
	}
}
