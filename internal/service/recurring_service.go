package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/dto"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/repository"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/schedule"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/redis"
)

// ── 周期训练模块业务错误 ──

var (
	ErrRecurringNotFound    = errors.New("周期训练模板不存在")
	ErrRecurringInvalidDay  = errors.New("星期几取值非法，应为 0-6（0=周日）")
	ErrRecurringInvalidTime = errors.New("时间格式非法，应为 HH:MM")
)

const (
	// horizonWeeks 生成视野：未来三个完整周
	horizonWeeks = 3
	// defaultMaxPersonnel 模板未设置人数上限时生成训练采用的默认值
	defaultMaxPersonnel = 40
	// defaultOccurrences 场次预览的默认条数
	defaultOccurrences = 5

	processLockName = "recurring:process"
	processLockTTL  = 5 * time.Minute
	processTimeout  = 2 * time.Minute
)

// RecurringService 周期训练业务接口。
// Process 是生成入口：对每个启用模板在三周视野内逐周落地训练，
// 台账唯一索引保证重复调用幂等
type RecurringService interface {
	Create(ctx context.Context, req *dto.CreateRecurringTrainingRequest, callerID string) (*dto.RecurringTrainingResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RecurringTrainingResponse, error)
	List(ctx context.Context) ([]dto.RecurringTrainingResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRecurringTrainingRequest, callerID string) (*dto.RecurringTrainingResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	Occurrences(ctx context.Context, id string, count int) ([]string, error)
	Process(ctx context.Context, callerID string) (*dto.ProcessRecurringResponse, error)
}

type recurringService struct {
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil：无锁执行，唯一索引兜底
	logger *zap.Logger
}

// NewRecurringService 创建 RecurringService 实例
func NewRecurringService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) RecurringService {
	return &recurringService{repo: repo, rdb: rdb, logger: logger}
}

// ── 模板 CRUD ──

func (s *recurringService) Create(ctx context.Context, req *dto.CreateRecurringTrainingRequest, callerID string) (*dto.RecurringTrainingResponse, error) {
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, ErrRecurringInvalidDay
	}
	if !schedule.ValidTime(req.Time) {
		return nil, ErrRecurringInvalidTime
	}

	template := &model.RecurringTraining{
		Name:         req.Name,
		Description:  req.Description,
		DayOfWeek:    *req.DayOfWeek,
		Time:         req.Time,
		Location:     req.Location,
		Instructor:   req.Instructor,
		MaxPersonnel: req.MaxPersonnel,
		IsActive:     true,
	}
	template.CreatedBy = &callerID
	template.UpdatedBy = &callerID

	if err := s.repo.RecurringTraining.Create(ctx, template); err != nil {
		s.logger.Error("创建周期训练模板失败", zap.Error(err))
		return nil, err
	}
	return toRecurringResponse(template), nil
}

func (s *recurringService) GetByID(ctx context.Context, id string) (*dto.RecurringTrainingResponse, error) {
	template, err := s.repo.RecurringTraining.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		s.logger.Error("查询周期训练模板失败", zap.Error(err))
		return nil, err
	}
	return toRecurringResponse(template), nil
}

func (s *recurringService) List(ctx context.Context) ([]dto.RecurringTrainingResponse, error) {
	templates, err := s.repo.RecurringTraining.List(ctx)
	if err != nil {
		s.logger.Error("查询周期训练模板列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RecurringTrainingResponse, 0, len(templates))
	for i := range templates {
		result = append(result, *toRecurringResponse(&templates[i]))
	}
	return result, nil
}

func (s *recurringService) Update(ctx context.Context, id string, req *dto.UpdateRecurringTrainingRequest, callerID string) (*dto.RecurringTrainingResponse, error) {
	template, err := s.repo.RecurringTraining.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		s.logger.Error("查询周期训练模板失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, ErrRecurringInvalidDay
		}
		template.DayOfWeek = *req.DayOfWeek
	}
	if req.Time != nil {
		if !schedule.ValidTime(*req.Time) {
			return nil, ErrRecurringInvalidTime
		}
		template.Time = *req.Time
	}
	if req.Location != nil {
		template.Location = *req.Location
	}
	if req.Instructor != nil {
		template.Instructor = *req.Instructor
	}
	if req.MaxPersonnel != nil {
		template.MaxPersonnel = *req.MaxPersonnel
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	template.UpdatedBy = &callerID

	if err := s.repo.RecurringTraining.Update(ctx, template); err != nil {
		s.logger.Error("更新周期训练模板失败", zap.Error(err))
		return nil, err
	}
	return toRecurringResponse(template), nil
}

// Delete 删除模板及其台账。已由模板生成的训练是独立历史记录，保留不动。
func (s *recurringService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.RecurringTraining.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecurringNotFound
		}
		return err
	}
	if err := s.repo.RecurringInstance.DeleteByTemplate(ctx, id); err != nil {
		s.logger.Error("清理周期训练台账失败", zap.String("template_id", id), zap.Error(err))
		return err
	}
	return s.repo.RecurringTraining.Delete(ctx, id, callerID)
}

// Occurrences 预览模板未来 count 个场次日期（不落库）
func (s *recurringService) Occurrences(ctx context.Context, id string, count int) ([]string, error) {
	template, err := s.repo.RecurringTraining.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		return nil, err
	}
	if count <= 0 {
		count = defaultOccurrences
	}

	now := time.Now()
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekday(template.DayOfWeek)},
		Dtstart:   schedule.WeekStart(now),
	})
	if err != nil {
		return nil, fmt.Errorf("构造重复规则失败: %w", err)
	}

	dates := make([]string, 0, count)
	next := rule.Iterator()
	for len(dates) < count {
		t, ok := next()
		if !ok {
			break
		}
		if !t.After(now) {
			continue
		}
		dates = append(dates, schedule.FormatDate(t))
	}
	return dates, nil
}

// rruleWeekday 把 0-6（0=周日）映射到 RRULE 的星期常量
func rruleWeekday(dayOfWeek int) rrule.Weekday {
	weekdays := [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}
	return weekdays[dayOfWeek]
}

// ── 生成批次 ──

// Process 对所有启用模板执行一轮生成。
// Redis 运行锁串行化并发批次；锁不可用时降级为无锁执行，
// 台账唯一索引仍能挡住重复插入。
func (s *recurringService) Process(ctx context.Context, callerID string) (*dto.ProcessRecurringResponse, error) {
	if s.rdb != nil {
		acquired, err := s.rdb.AcquireLock(ctx, processLockName, processLockTTL)
		if err != nil {
			s.logger.Warn("获取生成运行锁失败，降级为无锁执行", zap.Error(err))
		} else if !acquired {
			return nil, pkgerrors.ErrProcessRunning
		} else {
			defer func() {
				if err := s.rdb.ReleaseLock(context.Background(), processLockName); err != nil {
					s.logger.Warn("释放生成运行锁失败", zap.Error(err))
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	templates, err := s.repo.RecurringTraining.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询启用模板失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	results := make([]dto.ProcessingResult, 0, len(templates)*horizonWeeks)
	for i := range templates {
		template := &templates[i]
		if ctx.Err() != nil {
			results = append(results, dto.ProcessingResult{
				TemplateID:   template.RecurringTrainingID,
				TemplateName: template.Name,
				Status:       dto.ProcessingError,
				Error:        "生成批次超时，模板未处理",
			})
			continue
		}
		results = append(results, s.processTemplate(ctx, template, now, callerID)...)
	}

	summary := dto.ProcessSummary{}
	for i := range results {
		switch results[i].Status {
		case dto.ProcessingCreated:
			summary.Created++
		case dto.ProcessingSkipped:
			summary.Skipped++
		case dto.ProcessingError:
			summary.Failed++
		}
	}

	s.logger.Info("周期训练生成批次完成",
		zap.Int("templates", len(templates)),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return &dto.ProcessRecurringResponse{Results: results, Summary: summary}, nil
}

// processTemplate 处理单个模板的三个周次。
// 任一周次失败即记 error 结果并放弃该模板的剩余周次，不影响其他模板。
func (s *recurringService) processTemplate(ctx context.Context, template *model.RecurringTraining, now time.Time, callerID string) []dto.ProcessingResult {
	results := make([]dto.ProcessingResult, 0, horizonWeeks)
	for offset := 1; offset <= horizonWeeks; offset++ {
		result, err := s.processWeek(ctx, template, now, offset, callerID)
		if err != nil {
			s.logger.Error("模板周次生成失败",
				zap.String("template_id", template.RecurringTrainingID),
				zap.Int("week_offset", offset),
				zap.Error(err),
			)
			results = append(results, dto.ProcessingResult{
				TemplateID:   template.RecurringTrainingID,
				TemplateName: template.Name,
				WeekOffset:   offset,
				Status:       dto.ProcessingError,
				Error:        err.Error(),
			})
			return results
		}
		results = append(results, *result)
	}
	return results
}

// processWeek 处理 (模板, 周偏移) 一个单元：
//  1. 台账里该候选日期已有记录 → skipped
//  2. 候选日期有活跃任务冲突 → 前两周尝试顺延 7 天，第三周直接跳过
//     （顺延会越出三周视野）
//  3. 落地训练并写台账；台账撞唯一索引说明并发批次抢先，回收训练按跳过处理
func (s *recurringService) processWeek(ctx context.Context, template *model.RecurringTraining, now time.Time, offset int, callerID string) (*dto.ProcessingResult, error) {
	candidate := schedule.CandidateDate(now, offset, template.DayOfWeek)

	exists, err := s.repo.RecurringInstance.Exists(ctx, template.RecurringTrainingID, candidate)
	if err != nil {
		return nil, fmt.Errorf("查询台账失败: %w", err)
	}
	if exists {
		return s.skipped(template, offset, fmt.Sprintf("第%d周 (%s) 已生成训练", offset, candidate)), nil
	}

	finalDate := candidate
	rescheduled := false
	conflicts, err := s.repo.Mission.CountActiveOnDate(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("冲突检查失败: %w", err)
	}
	if conflicts > 0 {
		if offset >= horizonWeeks {
			return s.skipped(template, offset, fmt.Sprintf("第%d周 (%s) 与任务冲突，已超出顺延视野", offset, candidate)), nil
		}
		alternative, err := schedule.AddDays(candidate, 7)
		if err != nil {
			return nil, err
		}
		altConflicts, err := s.repo.Mission.CountActiveOnDate(ctx, alternative)
		if err != nil {
			return nil, fmt.Errorf("顺延冲突检查失败: %w", err)
		}
		if altConflicts > 0 {
			return s.skipped(template, offset, fmt.Sprintf("第%d周 (%s) 与任务冲突，顺延日期 %s 仍冲突", offset, candidate, alternative)), nil
		}
		finalDate = alternative
		rescheduled = true
	}

	maxPersonnel := template.MaxPersonnel
	if maxPersonnel == 0 {
		maxPersonnel = defaultMaxPersonnel
	}
	training := &model.Training{
		TrainingID:   uuid.New().String(),
		Name:         template.Name,
		Description:  template.Description,
		Date:         finalDate,
		Time:         template.Time,
		Location:     template.Location,
		Instructor:   template.Instructor,
		MaxPersonnel: maxPersonnel,
		Status:       model.EventScheduled,
	}
	if callerID != "" {
		training.CreatedBy = &callerID
		training.UpdatedBy = &callerID
	}
	if err := s.repo.Training.Create(ctx, training); err != nil {
		return nil, fmt.Errorf("创建训练失败: %w", err)
	}

	instance := &model.RecurringInstance{
		InstanceID:          uuid.New().String(),
		RecurringTrainingID: template.RecurringTrainingID,
		TrainingID:          training.TrainingID,
		ScheduledDate:       finalDate,
	}
	if err := s.repo.RecurringInstance.Create(ctx, instance); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发批次抢先写了台账，回收本批次刚建的训练
			if delErr := s.repo.Training.Delete(ctx, training.TrainingID, "system"); delErr != nil {
				s.logger.Warn("回收重复训练失败",
					zap.String("training_id", training.TrainingID),
					zap.Error(delErr),
				)
			}
			return s.skipped(template, offset, fmt.Sprintf("第%d周 (%s) 已由并发批次生成", offset, finalDate)), nil
		}
		return nil, fmt.Errorf("写入台账失败: %w", err)
	}

	return &dto.ProcessingResult{
		TemplateID:    template.RecurringTrainingID,
		TemplateName:  template.Name,
		WeekOffset:    offset,
		Status:        dto.ProcessingCreated,
		ScheduledDate: finalDate,
		TrainingID:    training.TrainingID,
		Rescheduled:   rescheduled,
	}, nil
}

func (s *recurringService) skipped(template *model.RecurringTraining, offset int, reason string) *dto.ProcessingResult {
	return &dto.ProcessingResult{
		TemplateID:   template.RecurringTrainingID,
		TemplateName: template.Name,
		WeekOffset:   offset,
		Status:       dto.ProcessingSkipped,
		Reason:       reason,
	}
}

func toRecurringResponse(t *model.RecurringTraining) *dto.RecurringTrainingResponse {
	return &dto.RecurringTrainingResponse{
		ID:           t.RecurringTrainingID,
		Name:         t.Name,
		Description:  t.Description,
		DayOfWeek:    t.DayOfWeek,
		Time:         t.Time,
		Location:     t.Location,
		Instructor:   t.Instructor,
		MaxPersonnel: t.MaxPersonnel,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
	}
}
