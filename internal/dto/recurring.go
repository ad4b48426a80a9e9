package dto

// ── 周期训练模块 DTO ──

// CreateRecurringTrainingRequest 创建周期训练模板请求
// DayOfWeek 用指针承载：0（周日）是合法取值，required 校验会把它当零值拒掉
type CreateRecurringTrainingRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Description  string `json:"description"   binding:"max=1000"`
	DayOfWeek    *int   `json:"day_of_week"   binding:"required,min=0,max=6"` // 0=周日
	Time         string `json:"time"          binding:"required"`             // HH:MM
	Location     string `json:"location"      binding:"max=200"`
	Instructor   string `json:"instructor"    binding:"max=100"`
	MaxPersonnel int    `json:"max_personnel" binding:"omitempty,min=0,max=500"` // 0 = 未设置
}

// UpdateRecurringTrainingRequest 更新周期训练模板请求（零值字段不更新）
type UpdateRecurringTrainingRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Description  *string `json:"description"   binding:"omitempty,max=1000"`
	DayOfWeek    *int    `json:"day_of_week"   binding:"omitempty,min=0,max=6"`
	Time         *string `json:"time"`
	Location     *string `json:"location"      binding:"omitempty,max=200"`
	Instructor   *string `json:"instructor"    binding:"omitempty,max=100"`
	MaxPersonnel *int    `json:"max_personnel" binding:"omitempty,min=0,max=500"`
	IsActive     *bool   `json:"is_active"`
}

// RecurringTrainingResponse 周期训练模板响应
type RecurringTrainingResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DayOfWeek    int    `json:"day_of_week"`
	Time         string `json:"time"`
	Location     string `json:"location,omitempty"`
	Instructor   string `json:"instructor,omitempty"`
	MaxPersonnel int    `json:"max_personnel"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// OccurrencesRequest 模板未来场次预览查询参数
type OccurrencesRequest struct {
	Count int `form:"count" binding:"omitempty,min=1,max=52"`
}

// ── 周期训练生成 ──

// ProcessingStatus 单次生成尝试的结局
type ProcessingStatus string

const (
	ProcessingCreated ProcessingStatus = "created"
	ProcessingSkipped ProcessingStatus = "skipped"
	ProcessingError   ProcessingStatus = "error"
)

// ProcessingResult 每个 (模板, 周偏移) 的生成结果
// created: ScheduledDate/TrainingID/Rescheduled 有效
// skipped: Reason 说明原因（已生成或冲突未解）
// error:   Error 为失败信息，该模板的剩余周次不再尝试
type ProcessingResult struct {
	TemplateID    string           `json:"template_id"`
	TemplateName  string           `json:"template_name"`
	WeekOffset    int              `json:"week_offset,omitempty"` // 1-3；模板级失败时为 0
	Status        ProcessingStatus `json:"status"`
	ScheduledDate string           `json:"scheduled_date,omitempty"`
	TrainingID    string           `json:"training_id,omitempty"`
	Rescheduled   bool             `json:"rescheduled,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// ProcessSummary 一次生成批次的汇总计数
type ProcessSummary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ProcessRecurringResponse 生成批次响应：完整结果 + 汇总
type ProcessRecurringResponse struct {
	Results []ProcessingResult `json:"results"`
	Summary ProcessSummary     `json:"summary"`
}
