package model

// Training 训练表 — 对应 trainings
// 既可由管理员手动创建，也可由周期训练模板生成；生成后与普通训练无异，
// 模板删除不会影响已生成的训练记录
type Training struct {
	TrainingID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"training_id"`
	Name         string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Description  string      `gorm:"type:varchar(1000)"                             json:"description,omitempty"`
	Date         string      `gorm:"type:varchar(10);not null"                      json:"date"` // YYYY-MM-DD
	Time         string      `gorm:"type:varchar(5);not null"                       json:"time"` // HH:MM
	Location     string      `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Instructor   string      `gorm:"type:varchar(100)"                              json:"instructor,omitempty"`
	MaxPersonnel int         `gorm:"not null;default:0"                             json:"max_personnel"` // 0 = 未设置
	Status       EventStatus `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	VersionedModel
}

// TableName 指定表名
func (Training) TableName() string { return "trainings" }
