package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
)

// RecurringTrainingRepository 周期训练模板数据访问接口
type RecurringTrainingRepository interface {
	Create(ctx context.Context, template *model.RecurringTraining) error
	GetByID(ctx context.Context, id string) (*model.RecurringTraining, error)
	List(ctx context.Context) ([]model.RecurringTraining, error)
	// ListActive 返回启用中的模板，按创建时间与主键排序保证批处理顺序可复现
	ListActive(ctx context.Context) ([]model.RecurringTraining, error)
	Update(ctx context.Context, template *model.RecurringTraining) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// RecurringInstanceRepository 周期训练台账数据访问接口
// (recurring_training_id, scheduled_date) 唯一索引保证幂等：
// 并发生成时第二个插入者收到 gorm.ErrDuplicatedKey
type RecurringInstanceRepository interface {
	Create(ctx context.Context, instance *model.RecurringInstance) error
	Exists(ctx context.Context, templateID, date string) (bool, error)
	ListByTemplate(ctx context.Context, templateID string) ([]model.RecurringInstance, error)
	DeleteByTemplate(ctx context.Context, templateID string) error
}

// ── RecurringTraining Repository 实现 ──

type recurringTrainingRepo struct {
	db *gorm.DB
}

// NewRecurringTrainingRepo 创建 RecurringTrainingRepository 实例
func NewRecurringTrainingRepo(db *gorm.DB) RecurringTrainingRepository {
	return &recurringTrainingRepo{db: db}
}

func (r *recurringTrainingRepo) Create(ctx context.Context, template *model.RecurringTraining) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *recurringTrainingRepo) GetByID(ctx context.Context, id string) (*model.RecurringTraining, error) {
	var template model.RecurringTraining
	err := r.db.WithContext(ctx).
		Where("recurring_training_id = ?", id).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *recurringTrainingRepo) List(ctx context.Context) ([]model.RecurringTraining, error) {
	var templates []model.RecurringTraining
	err := r.db.WithContext(ctx).
		Order("created_at ASC, recurring_training_id ASC").
		Find(&templates).Error
	return templates, err
}

func (r *recurringTrainingRepo) ListActive(ctx context.Context) ([]model.RecurringTraining, error) {
	var templates []model.RecurringTraining
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, recurring_training_id ASC").
		Find(&templates).Error
	return templates, err
}

func (r *recurringTrainingRepo) Update(ctx context.Context, template *model.RecurringTraining) error {
	oldVersion := template.Version
	result := r.db.WithContext(ctx).
		Model(template).
		Where("recurring_training_id = ? AND version = ?", template.RecurringTrainingID, oldVersion).
		Updates(map[string]interface{}{
			"name":          template.Name,
			"description":   template.Description,
			"day_of_week":   template.DayOfWeek,
			"time":          template.Time,
			"location":      template.Location,
			"instructor":    template.Instructor,
			"max_personnel": template.MaxPersonnel,
			"is_active":     template.IsActive,
			"updated_by":    template.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	template.Version = oldVersion + 1
	return nil
}

func (r *recurringTrainingRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.RecurringTraining{}).
		Where("recurring_training_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

// ── RecurringInstance Repository 实现 ──

type recurringInstanceRepo struct {
	db *gorm.DB
}

// NewRecurringInstanceRepo 创建 RecurringInstanceRepository 实例
func NewRecurringInstanceRepo(db *gorm.DB) RecurringInstanceRepository {
	return &recurringInstanceRepo{db: db}
}

func (r *recurringInstanceRepo) Create(ctx context.Context, instance *model.RecurringInstance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

func (r *recurringInstanceRepo) Exists(ctx context.Context, templateID, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RecurringInstance{}).
		Where("recurring_training_id = ? AND scheduled_date = ?", templateID, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recurringInstanceRepo) ListByTemplate(ctx context.Context, templateID string) ([]model.RecurringInstance, error) {
	var instances []model.RecurringInstance
	err := r.db.WithContext(ctx).
		Where("recurring_training_id = ?", templateID).
		Order("scheduled_date ASC").
		Find(&instances).Error
	return instances, err
}

func (r *recurringInstanceRepo) DeleteByTemplate(ctx context.Context, templateID string) error {
	return r.db.WithContext(ctx).
		Where("recurring_training_id = ?", templateID).
		Delete(&model.RecurringInstance{}).Error
}
