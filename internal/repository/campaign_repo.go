package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
)

// CampaignRepository 战役数据访问接口
type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	List(ctx context.Context) ([]model.Campaign, error)
	Update(ctx context.Context, campaign *model.Campaign) error
	// UpdateStatus 仅回写推导出的状态，不触碰乐观锁版本
	UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type campaignRepo struct {
	db *gorm.DB
}

// NewCampaignRepo 创建 CampaignRepository 实例
func NewCampaignRepo(db *gorm.DB) CampaignRepository {
	return &campaignRepo{db: db}
}

func (r *campaignRepo) Create(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", id).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepo) List(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepo) Update(ctx context.Context, campaign *model.Campaign) error {
	oldVersion := campaign.Version
	result := r.db.WithContext(ctx).
		Model(campaign).
		Where("campaign_id = ? AND version = ?", campaign.CampaignID, oldVersion).
		Updates(map[string]interface{}{
			"name":        campaign.Name,
			"description": campaign.Description,
			"start_date":  campaign.StartDate,
			"end_date":    campaign.EndDate,
			"status":      campaign.Status,
			"updated_by":  campaign.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	campaign.Version = oldVersion + 1
	return nil
}

func (r *campaignRepo) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("campaign_id = ?", id).
		Update("status", status).Error
}

func (r *campaignRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("campaign_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}
