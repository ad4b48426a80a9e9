package dto

// ── 训练模块 DTO ──

// CreateTrainingRequest 创建训练请求
type CreateTrainingRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Description  string `json:"description"   binding:"max=1000"`
	Date         string `json:"date"          binding:"required"` // YYYY-MM-DD
	Time         string `json:"time"          binding:"required"` // HH:MM
	Location     string `json:"location"      binding:"max=200"`
	Instructor   string `json:"instructor"    binding:"max=100"`
	MaxPersonnel int    `json:"max_personnel" binding:"omitempty,min=0,max=500"`
}

// UpdateTrainingRequest 更新训练请求（零值字段不更新）
type UpdateTrainingRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Description  *string `json:"description"   binding:"omitempty,max=1000"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Location     *string `json:"location"      binding:"omitempty,max=200"`
	Instructor   *string `json:"instructor"    binding:"omitempty,max=100"`
	MaxPersonnel *int    `json:"max_personnel" binding:"omitempty,min=0,max=500"`
	Status       *string `json:"status"`
}

// TrainingListRequest 训练列表查询参数
type TrainingListRequest struct {
	From string `form:"from"` // YYYY-MM-DD，含
	To   string `form:"to"`   // YYYY-MM-DD，含
}

// TrainingResponse 训练信息响应
type TrainingResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Location     string `json:"location,omitempty"`
	Instructor   string `json:"instructor,omitempty"`
	MaxPersonnel int    `json:"max_personnel"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
