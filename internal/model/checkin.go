package model

import "time"

// CheckIn 每日打卡表 — 对应 check_ins
//
// PredictedReadiness 在提交时计算并落库，但必须能由分类器根据相同指标
// 重新推导出同一结果（确定性要求）。班次快照字段用于审计：排班后续变更
// 不影响历史展示。
type CheckIn struct {
	CheckInID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"check_in_id"`
	WorkerID    string    `gorm:"type:uuid;not null"                             json:"worker_id"`
	TeamID      string    `gorm:"type:uuid;not null"                             json:"team_id"` // 冗余快照
	CheckInDate time.Time `gorm:"type:date;not null"                             json:"check_in_date"`

	// 健康指标
	PainLevel    int `gorm:"type:smallint;not null" json:"pain_level"`    // 0-10
	FatigueLevel int `gorm:"type:smallint;not null" json:"fatigue_level"` // 0-10
	StressLevel  int `gorm:"type:smallint;not null" json:"stress_level"`  // 0-10
	SleepQuality int `gorm:"type:smallint;not null" json:"sleep_quality"` // 0-12

	PredictedReadiness string `gorm:"type:varchar(10);not null"                    json:"predicted_readiness"` // green | amber | red
	Timeliness         string `gorm:"type:varchar(20);not null;default:'on_time'"  json:"timeliness"`          // on_time | late | outside_window

	// 提交时的班次快照
	ShiftType  *string `gorm:"type:varchar(20)" json:"shift_type,omitempty"`
	ShiftStart *string `gorm:"type:time"        json:"shift_start,omitempty"`
	ShiftEnd   *string `gorm:"type:time"        json:"shift_end,omitempty"`

	SubmittedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"submitted_at"`
	VersionedModel

	// 关联
	Worker *Worker `gorm:"foreignKey:WorkerID;references:WorkerID" json:"worker,omitempty"`
}

// TableName 指定表名
func (CheckIn) TableName() string { return "check_ins" }
