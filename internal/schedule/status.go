package schedule

import (
	"time"

	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/model"
)

// EventDurationHours 定点事件（任务/训练）的默认时长
const EventDurationHours = 3

// DeriveCampaignStatus 由当前时间推导战役状态。
// 手动取消具有粘性：已取消的战役不参与任何日期推导。
// 纯函数；结果与库中存量不同时由调用方负责回写。
func DeriveCampaignStatus(stored model.CampaignStatus, startDate, endDate string, now time.Time) model.CampaignStatus {
	if stored == model.CampaignCancelled {
		return model.CampaignCancelled
	}
	if !ValidDate(startDate) || !ValidDate(endDate) {
		return stored
	}

	nowDate := FormatDate(now)
	switch {
	case nowDate < startDate:
		return model.CampaignPlanning
	case nowDate > endDate:
		return model.CampaignCompleted
	default:
		return model.CampaignActive
	}
}

// DeriveEventStatus 由当前时间推导任务/训练状态。
// 事件起止边界均含端点：开始时刻即 in_progress，结束时刻仍为 in_progress，
// 过了结束时刻才是 completed——RSVP 与签到界面按此判定放行。
// 结束时刻 = 开始 + EventDurationHours，不做跨日回卷（见 AddHours）。
func DeriveEventStatus(stored model.EventStatus, date, startTime string, now time.Time) model.EventStatus {
	if stored == model.EventCancelled {
		return model.EventCancelled
	}
	if !ValidDate(date) || !ValidTime(startTime) {
		return stored
	}

	nowDate := FormatDate(now)
	nowTime := FormatTime(now)

	if nowDate < date || (nowDate == date && nowTime < startTime) {
		return model.EventScheduled
	}

	endTime := AddHours(startTime, EventDurationHours)
	if nowDate == date && nowTime <= endTime {
		return model.EventInProgress
	}
	return model.EventCompleted
}
