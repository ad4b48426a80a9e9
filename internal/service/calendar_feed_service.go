package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/repository"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/schedule"
)

// CalendarFeedService 对外日历订阅接口。
// 输出未来三周的任务与训练单次事件，外加每个启用模板的
// 每周重复事件（带 RRULE），供 Google Calendar 等客户端订阅
type CalendarFeedService interface {
	BuildFeed(ctx context.Context) (string, error)
}

type calendarFeedService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarFeedService 创建 CalendarFeedService 实例
func NewCalendarFeedService(repo *repository.Repository, logger *zap.Logger) CalendarFeedService {
	return &calendarFeedService{repo: repo, logger: logger}
}

var icsWeekdays = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func (c *calendarFeedService) BuildFeed(ctx context.Context) (string, error) {
	now := time.Now()
	from := schedule.FormatDate(now)
	to := schedule.FormatDate(now.AddDate(0, 0, 7*horizonWeeks))

	missions, err := c.repo.Mission.List(ctx, from, to)
	if err != nil {
		c.logger.Error("订阅源查询任务失败", zap.Error(err))
		return "", err
	}
	trainings, err := c.repo.Training.List(ctx, from, to)
	if err != nil {
		c.logger.Error("订阅源查询训练失败", zap.Error(err))
		return "", err
	}
	templates, err := c.repo.RecurringTraining.ListActive(ctx)
	if err != nil {
		c.logger.Error("订阅源查询模板失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//NSWG1//Unit Scheduler//ZH")
	cal.SetName("NSWG1 日程")

	for i := range missions {
		m := &missions[i]
		start, err := eventStart(m.Date, m.Time)
		if err != nil {
			c.logger.Warn("任务日期时间非法，跳过订阅事件",
				zap.String("mission_id", m.MissionID), zap.Error(err))
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("mission-%s@nswg1", m.MissionID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(schedule.EventDurationHours * time.Hour))
		event.SetSummary("[任务] " + m.Name)
		if m.Location != "" {
			event.SetLocation(m.Location)
		}
		if m.Description != "" {
			event.SetDescription(m.Description)
		}
	}

	for i := range trainings {
		t := &trainings[i]
		start, err := eventStart(t.Date, t.Time)
		if err != nil {
			c.logger.Warn("训练日期时间非法，跳过订阅事件",
				zap.String("training_id", t.TrainingID), zap.Error(err))
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("training-%s@nswg1", t.TrainingID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(schedule.EventDurationHours * time.Hour))
		event.SetSummary("[训练] " + t.Name)
		if t.Location != "" {
			event.SetLocation(t.Location)
		}
		if t.Description != "" {
			event.SetDescription(t.Description)
		}
	}

	// 模板输出为带 RRULE 的每周重复事件，起点取下一次落在模板星期几的日期
	for i := range templates {
		tpl := &templates[i]
		start, err := eventStart(schedule.CandidateDate(now, 1, tpl.DayOfWeek), tpl.Time)
		if err != nil {
			c.logger.Warn("模板时间非法，跳过订阅事件",
				zap.String("template_id", tpl.RecurringTrainingID), zap.Error(err))
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("recurring-%s@nswg1", tpl.RecurringTrainingID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(schedule.EventDurationHours * time.Hour))
		event.SetSummary("[周期训练] " + tpl.Name)
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", icsWeekdays[tpl.DayOfWeek]))
		if tpl.Location != "" {
			event.SetLocation(tpl.Location)
		}
		if tpl.Description != "" {
			event.SetDescription(tpl.Description)
		}
	}

	return cal.Serialize(), nil
}

// eventStart 把日期/时刻文本组合为 time.Time，供日历序列化使用
func eventStart(date, tod string) (time.Time, error) {
	return time.ParseInLocation(schedule.DateLayout+" "+schedule.TimeLayout, date+" "+tod, time.Local)
}
