package dto

// ── 战役模块 DTO ──

// CreateCampaignRequest 创建战役请求
type CreateCampaignRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=1000"`
	StartDate   string `json:"start_date"  binding:"required"` // YYYY-MM-DD
	EndDate     string `json:"end_date"    binding:"required"` // YYYY-MM-DD
}

// UpdateCampaignRequest 更新战役请求（零值字段不更新）
type UpdateCampaignRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status"`
}

// CampaignResponse 战役信息响应
type CampaignResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
