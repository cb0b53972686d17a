package model

import "time"

// SystemConfig 系统配置单例表 — 对应 system_config
// 打卡窗口时段与就绪度分级阈值均为可调参数，不硬编码在算法里
type SystemConfig struct {
	Singleton bool `gorm:"primaryKey;default:true" json:"-"`

	// 弹性模式全天窗口
	FlexibleWindowStart string `gorm:"type:time;not null;default:'05:00'" json:"flexible_window_start"`
	FlexibleWindowEnd   string `gorm:"type:time;not null;default:'23:00'" json:"flexible_window_end"`

	// 早班窗口
	MorningRecStart  string `gorm:"type:time;not null;default:'06:00'" json:"morning_rec_start"`
	MorningRecEnd    string `gorm:"type:time;not null;default:'10:00'" json:"morning_rec_end"`
	MorningLateStart string `gorm:"type:time;not null;default:'04:00'" json:"morning_late_start"`
	MorningLateEnd   string `gorm:"type:time;not null;default:'11:00'" json:"morning_late_end"`

	// 午班窗口
	AfternoonRecStart  string `gorm:"type:time;not null;default:'13:00'" json:"afternoon_rec_start"`
	AfternoonRecEnd    string `gorm:"type:time;not null;default:'16:00'" json:"afternoon_rec_end"`
	AfternoonLateStart string `gorm:"type:time;not null;default:'11:00'" json:"afternoon_late_start"`
	AfternoonLateEnd   string `gorm:"type:time;not null;default:'17:00'" json:"afternoon_late_end"`

	// 夜班窗口
	NightRecStart  string `gorm:"type:time;not null;default:'18:00'" json:"night_rec_start"`
	NightRecEnd    string `gorm:"type:time;not null;default:'22:00'" json:"night_rec_end"`
	NightLateStart string `gorm:"type:time;not null;default:'16:00'" json:"night_late_start"`
	NightLateEnd   string `gorm:"type:time;not null;default:'23:59'" json:"night_late_end"`

	// 就绪度分级阈值（负担分 = pain + fatigue + stress + (12 - sleep)）
	AmberScoreMin int `gorm:"type:smallint;not null;default:16" json:"amber_score_min"`
	RedScoreMin   int `gorm:"type:smallint;not null;default:26" json:"red_score_min"`

	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }
