package model

// Mission 任务表 — 对应 missions
// 周期训练生成时的冲突源：同日存在 scheduled/in_progress 任务即视为冲突
type Mission struct {
	MissionID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"mission_id"`
	Name        string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string      `gorm:"type:varchar(1000)"                             json:"description,omitempty"`
	CampaignID  *string     `gorm:"type:uuid"                                      json:"campaign_id,omitempty"`
	Date        string      `gorm:"type:varchar(10);not null"                      json:"date"` // YYYY-MM-DD
	Time        string      `gorm:"type:varchar(5);not null"                       json:"time"` // HH:MM
	Location    string      `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	VersionedModel

	// 关联
	Campaign *Campaign `gorm:"foreignKey:CampaignID;references:CampaignID" json:"campaign,omitempty"`
}

// TableName 指定表名
func (Mission) TableName() string { return "missions" }
