package model

import "time"

// RecurringTraining 周期训练模板表 — 对应 recurring_trainings
// DayOfWeek 采用 0-6（0=周日），与周起始约定（周日）一致
type RecurringTraining struct {
	RecurringTrainingID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"recurring_training_id"`
	Name                string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description         string `gorm:"type:varchar(1000)"                             json:"description,omitempty"`
	DayOfWeek           int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0-6, 0=周日
	Time                string `gorm:"type:varchar(5);not null"                       json:"time"`        // HH:MM
	Location            string `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Instructor          string `gorm:"type:varchar(100)"                              json:"instructor,omitempty"`
	MaxPersonnel        int    `gorm:"not null;default:0"                             json:"max_personnel"` // 0 = 未设置，生成时默认 40
	IsActive            bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (RecurringTraining) TableName() string { return "recurring_trainings" }

// RecurringInstance 周期训练台账表 — 对应 recurring_training_instances
// 记录哪些 (模板, 日期) 已生成训练；(recurring_training_id, scheduled_date)
// 上的唯一索引即幂等键。台账行引用训练但不拥有训练：删除模板级联清台账，
// 已生成的训练作为历史记录保留
type RecurringInstance struct {
	InstanceID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instance_id"`
	RecurringTrainingID string    `gorm:"type:uuid;not null;uniqueIndex:uq_recurring_instances_template_date" json:"recurring_training_id"`
	TrainingID          string    `gorm:"type:uuid;not null"                             json:"training_id"`
	ScheduledDate       string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_recurring_instances_template_date" json:"scheduled_date"` // YYYY-MM-DD
	CreatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (RecurringInstance) TableName() string { return "recurring_training_instances" }
