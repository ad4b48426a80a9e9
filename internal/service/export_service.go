package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/repository"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/schedule"
)

// ErrExportNoEvents 导出窗口内没有任何任务或训练
var ErrExportNoEvents = errors.New("未来三周没有任务或训练")

// ExportService 日程导出接口：导出未来三周（与生成视野一致）的
// 任务与训练为 xlsx，每周一个 sheet
type ExportService interface {
	ExportSchedule(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// scheduleRow 导出行：任务与训练在表格里同构
type scheduleRow struct {
	Date     string
	Time     string
	Kind     string
	Name     string
	Location string
	Status   string
}

func (s *exportService) ExportSchedule(ctx context.Context) (*bytes.Buffer, string, error) {
	now := time.Now()
	windowStart := schedule.WeekStart(now).AddDate(0, 0, 7)
	from := schedule.FormatDate(windowStart)
	to := schedule.FormatDate(windowStart.AddDate(0, 0, 7*horizonWeeks-1))

	missions, err := s.repo.Mission.List(ctx, from, to)
	if err != nil {
		s.logger.Error("导出查询任务失败", zap.Error(err))
		return nil, "", err
	}
	trainings, err := s.repo.Training.List(ctx, from, to)
	if err != nil {
		s.logger.Error("导出查询训练失败", zap.Error(err))
		return nil, "", err
	}
	if len(missions) == 0 && len(trainings) == 0 {
		return nil, "", ErrExportNoEvents
	}

	rows := make([]scheduleRow, 0, len(missions)+len(trainings))
	for i := range missions {
		rows = append(rows, scheduleRow{
			Date:     missions[i].Date,
			Time:     missions[i].Time,
			Kind:     "任务",
			Name:     missions[i].Name,
			Location: missions[i].Location,
			Status:   string(missions[i].Status),
		})
	}
	for i := range trainings {
		rows = append(rows, scheduleRow{
			Date:     trainings[i].Date,
			Time:     trainings[i].Time,
			Kind:     "训练",
			Name:     trainings[i].Name,
			Location: trainings[i].Location,
			Status:   string(trainings[i].Status),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		if rows[i].Time != rows[j].Time {
			return rows[i].Time < rows[j].Time
		}
		return rows[i].Name < rows[j].Name
	})

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("关闭导出工作簿失败", zap.Error(err))
		}
	}()

	header := []string{"日期", "时间", "类型", "名称", "地点", "状态"}
	for week := 1; week <= horizonWeeks; week++ {
		sheet := fmt.Sprintf("第%d周", week)
		index, err := f.NewSheet(sheet)
		if err != nil {
			return nil, "", fmt.Errorf("创建 sheet 失败: %w", err)
		}
		if week == 1 {
			f.SetActiveSheet(index)
		}

		for col, title := range header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, title); err != nil {
				return nil, "", err
			}
		}

		weekFrom := schedule.FormatDate(windowStart.AddDate(0, 0, 7*(week-1)))
		weekTo := schedule.FormatDate(windowStart.AddDate(0, 0, 7*week-1))
		rowIndex := 2
		for _, row := range rows {
			if row.Date < weekFrom || row.Date > weekTo {
				continue
			}
			values := []interface{}{row.Date, row.Time, row.Kind, row.Name, row.Location, row.Status}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIndex)
				if err != nil {
					return nil, "", err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, "", err
				}
			}
			rowIndex++
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Warn("删除默认 sheet 失败", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出导出工作簿失败", zap.Error(err))
		return nil, "", err
	}
	filename := fmt.Sprintf("schedule_%s.xlsx", schedule.FormatDate(now))
	return buf, filename, nil
}
