package dto

// ── 任务模块 DTO ──

// CreateMissionRequest 创建任务请求
type CreateMissionRequest struct {
	Name        string  `json:"name"        binding:"required,min=2,max=100"`
	Description string  `json:"description" binding:"max=1000"`
	CampaignID  *string `json:"campaign_id" binding:"omitempty,uuid"`
	Date        string  `json:"date"        binding:"required"` // YYYY-MM-DD
	Time        string  `json:"time"        binding:"required"` // HH:MM
	Location    string  `json:"location"    binding:"max=200"`
}

// UpdateMissionRequest 更新任务请求（零值字段不更新）
type UpdateMissionRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	CampaignID  *string `json:"campaign_id" binding:"omitempty,uuid"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Status      *string `json:"status"`
}

// MissionListRequest 任务列表查询参数
type MissionListRequest struct {
	From string `form:"from"` // YYYY-MM-DD，含
	To   string `form:"to"`   // YYYY-MM-DD，含
}

// MissionResponse 任务信息响应
type MissionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	CampaignID  *string `json:"campaign_id,omitempty"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Location    string  `json:"location,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
