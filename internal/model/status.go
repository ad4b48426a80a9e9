package model

// ── 状态枚举 ──
//
// 状态以封闭类型表达而非裸字符串，非法状态无法进入业务层。
// 数据库侧仍为 varchar，取值与此处常量一一对应。

// CampaignStatus 战役生命周期状态
type CampaignStatus string

const (
	CampaignPlanning  CampaignStatus = "planning"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Valid 判断是否为合法的战役状态
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignPlanning, CampaignActive, CampaignCompleted, CampaignCancelled:
		return true
	}
	return false
}

// EventStatus 任务/训练（定点事件）生命周期状态
type EventStatus string

const (
	EventScheduled  EventStatus = "scheduled"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
)

// Valid 判断是否为合法的事件状态
func (s EventStatus) Valid() bool {
	switch s {
	case EventScheduled, EventInProgress, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// Active 判断事件是否占用日程（冲突检查只关心这两种状态）
func (s EventStatus) Active() bool {
	return s == EventScheduled || s == EventInProgress
}
