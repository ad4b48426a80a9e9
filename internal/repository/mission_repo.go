package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
)

// MissionRepository 任务数据访问接口
type MissionRepository interface {
	Create(ctx context.Context, mission *model.Mission) error
	GetByID(ctx context.Context, id string) (*model.Mission, error)
	List(ctx context.Context, from, to string) ([]model.Mission, error)
	// CountActiveOnDate 统计指定日期上 scheduled/in_progress 状态的任务数，
	// 周期训练生成的冲突检查依赖此查询
	CountActiveOnDate(ctx context.Context, date string) (int64, error)
	Update(ctx context.Context, mission *model.Mission) error
	UpdateStatus(ctx context.Context, id string, status model.EventStatus) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type missionRepo struct {
	db *gorm.DB
}

// NewMissionRepo 创建 MissionRepository 实例
func NewMissionRepo(db *gorm.DB) MissionRepository {
	return &missionRepo{db: db}
}

func (r *missionRepo) Create(ctx context.Context, mission *model.Mission) error {
	return r.db.WithContext(ctx).Create(mission).Error
}

func (r *missionRepo) GetByID(ctx context.Context, id string) (*model.Mission, error) {
	var mission model.Mission
	err := r.db.WithContext(ctx).
		Preload("Campaign").
		Where("mission_id = ?", id).
		First(&mission).Error
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *missionRepo) List(ctx context.Context, from, to string) ([]model.Mission, error) {
	var missions []model.Mission
	q := r.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	err := q.Order("date ASC, time ASC").Find(&missions).Error
	return missions, err
}

func (r *missionRepo) CountActiveOnDate(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Mission{}).
		Where("date = ? AND status IN ?", date, []model.EventStatus{model.EventScheduled, model.EventInProgress}).
		Count(&count).Error
	return count, err
}

func (r *missionRepo) Update(ctx context.Context, mission *model.Mission) error {
	oldVersion := mission.Version
	result := r.db.WithContext(ctx).
		Model(mission).
		Where("mission_id = ? AND version = ?", mission.MissionID, oldVersion).
		Updates(map[string]interface{}{
			"name":        mission.Name,
			"description": mission.Description,
			"campaign_id": mission.CampaignID,
			"date":        mission.Date,
			"time":        mission.Time,
			"location":    mission.Location,
			"status":      mission.Status,
			"updated_by":  mission.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	mission.Version = oldVersion + 1
	return nil
}

func (r *missionRepo) UpdateStatus(ctx context.Context, id string, status model.EventStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Mission{}).
		Where("mission_id = ?", id).
		Update("status", status).Error
}

func (r *missionRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Mission{}).
		Where("mission_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}
