package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Campaign          CampaignRepository
	Mission           MissionRepository
	Training          TrainingRepository
	RecurringTraining RecurringTrainingRepository
	RecurringInstance RecurringInstanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Campaign:          NewCampaignRepo(db),
		Mission:           NewMissionRepo(db),
		Training:          NewTrainingRepo(db),
		RecurringTraining: NewRecurringTrainingRepo(db),
		RecurringInstance: NewRecurringInstanceRepo(db),
	}
}
