package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
)

// TrainingRepository 训练数据访问接口
type TrainingRepository interface {
	Create(ctx context.Context, training *model.Training) error
	GetByID(ctx context.Context, id string) (*model.Training, error)
	List(ctx context.Context, from, to string) ([]model.Training, error)
	Update(ctx context.Context, training *model.Training) error
	UpdateStatus(ctx context.Context, id string, status model.EventStatus) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type trainingRepo struct {
	db *gorm.DB
}

// NewTrainingRepo 创建 TrainingRepository 实例
func NewTrainingRepo(db *gorm.DB) TrainingRepository {
	return &trainingRepo{db: db}
}

func (r *trainingRepo) Create(ctx context.Context, training *model.Training) error {
	return r.db.WithContext(ctx).Create(training).Error
}

func (r *trainingRepo) GetByID(ctx context.Context, id string) (*model.Training, error) {
	var training model.Training
	err := r.db.WithContext(ctx).
		Where("training_id = ?", id).
		First(&training).Error
	if err != nil {
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepo) List(ctx context.Context, from, to string) ([]model.Training, error) {
	var trainings []model.Training
	q := r.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	err := q.Order("date ASC, time ASC").Find(&trainings).Error
	return trainings, err
}

func (r *trainingRepo) Update(ctx context.Context, training *model.Training) error {
	oldVersion := training.Version
	result := r.db.WithContext(ctx).
		Model(training).
		Where("training_id = ? AND version = ?", training.TrainingID, oldVersion).
		Updates(map[string]interface{}{
			"name":          training.Name,
			"description":   training.Description,
			"date":          training.Date,
			"time":          training.Time,
			"location":      training.Location,
			"instructor":    training.Instructor,
			"max_personnel": training.MaxPersonnel,
			"status":        training.Status,
			"updated_by":    training.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	training.Version = oldVersion + 1
	return nil
}

func (r *trainingRepo) UpdateStatus(ctx context.Context, id string, status model.EventStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Training{}).
		Where("training_id = ?", id).
		Update("status", status).Error
}

func (r *trainingRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Training{}).
		Where("training_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}
