package model

import "time"

// ShiftSchedule 排班表 — 对应 shift_schedules
//
// 两种变体（互斥，由数据库 CHECK 约束保证）：
//   - 单日排班：ScheduledDate 非空，DayOfWeek 为空
//   - 周期排班：DayOfWeek (0-6, 周日=0) 非空，EffectiveDate 必填，
//     ExpiryDate 为空表示无限期向后生效（边界均为闭区间）
//
// 打卡窗口优先级：daily window（RequiresDailyWindow 置位时）>
// custom window > 按班次类型推导的默认窗口。
type ShiftSchedule struct {
	ScheduleID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	WorkerID      string     `gorm:"type:uuid;not null"                             json:"worker_id"`
	TeamID        string     `gorm:"type:uuid;not null"                             json:"team_id"`
	ScheduledDate *time.Time `gorm:"type:date"                                      json:"scheduled_date,omitempty"`
	DayOfWeek     *int       `gorm:"type:smallint"                                  json:"day_of_week,omitempty"`
	EffectiveDate *time.Time `gorm:"type:date"                                      json:"effective_date,omitempty"`
	ExpiryDate    *time.Time `gorm:"type:date"                                      json:"expiry_date,omitempty"`
	StartTime     string     `gorm:"type:time;not null"                             json:"start_time"` // "HH:MM"
	EndTime       string     `gorm:"type:time;not null"                             json:"end_time"`   // "HH:MM"，夜班可跨午夜

	// 自定义打卡窗口（整体覆盖推导窗口）
	CustomWindowStart *string `gorm:"type:time" json:"custom_window_start,omitempty"`
	CustomWindowEnd   *string `gorm:"type:time" json:"custom_window_end,omitempty"`

	// 固定每日打卡窗口（与班次开始时间无关的打卡要求）
	RequiresDailyWindow bool    `gorm:"not null;default:false" json:"requires_daily_window"`
	DailyWindowStart    *string `gorm:"type:time"              json:"daily_window_start,omitempty"`
	DailyWindowEnd      *string `gorm:"type:time"              json:"daily_window_end,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
	// 因哪条例外被停用（例外解除时据此精确恢复）
	DeactivatedByExceptionID *string `gorm:"type:uuid" json:"deactivated_by_exception_id,omitempty"`
	VersionedModel

	// 关联
	Worker *Worker `gorm:"foreignKey:WorkerID;references:WorkerID" json:"worker,omitempty"`
	Team   *Team   `gorm:"foreignKey:TeamID;references:TeamID"     json:"team,omitempty"`
}

// TableName 指定表名
func (ShiftSchedule) TableName() string { return "shift_schedules" }

// IsSingleDate 是否单日排班
func (s *ShiftSchedule) IsSingleDate() bool { return s.ScheduledDate != nil }

// IsRecurring 是否周期排班
func (s *ShiftSchedule) IsRecurring() bool { return s.DayOfWeek != nil }
