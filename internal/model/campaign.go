package model

// Campaign 战役表 — 对应 campaigns
// 日期以 YYYY-MM-DD 文本承载，状态推导依赖其字典序比较
type Campaign struct {
	CampaignID  string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"campaign_id"`
	Name        string         `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string         `gorm:"type:varchar(1000)"                             json:"description,omitempty"`
	StartDate   string         `gorm:"type:varchar(10);not null"                      json:"start_date"` // YYYY-MM-DD
	EndDate     string         `gorm:"type:varchar(10);not null"                      json:"end_date"`   // YYYY-MM-DD
	Status      CampaignStatus `gorm:"type:varchar(20);not null;default:'planning'"   json:"status"`
	VersionedModel
}

// TableName 指定表名
func (Campaign) TableName() string { return "campaigns" }
