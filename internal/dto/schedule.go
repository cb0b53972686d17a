package dto

import "time"

// ── 排班模块请求 ──

// CreateScheduleRequest 创建排班请求。
// 单日排班传 scheduled_date；周期排班传 day_of_week + effective_date
// （可选 expiry_date），两者互斥。
type CreateScheduleRequest struct {
	WorkerID      string  `json:"worker_id"      binding:"required,uuid"`
	ScheduledDate *string `json:"scheduled_date" binding:"omitempty,datetime=2006-01-02"`
	DayOfWeek     *int    `json:"day_of_week"    binding:"omitempty,min=0,max=6"`
	EffectiveDate *string `json:"effective_date" binding:"omitempty,datetime=2006-01-02"`
	ExpiryDate    *string `json:"expiry_date"    binding:"omitempty,datetime=2006-01-02"`
	StartTime     string  `json:"start_time"     binding:"required"`
	EndTime       string  `json:"end_time"       binding:"required"`

	CustomWindowStart *string `json:"custom_window_start"`
	CustomWindowEnd   *string `json:"custom_window_end"`

	RequiresDailyWindow bool    `json:"requires_daily_window"`
	DailyWindowStart    *string `json:"daily_window_start"`
	DailyWindowEnd      *string `json:"daily_window_end"`
}

// UpdateScheduleRequest 更新排班请求
type UpdateScheduleRequest struct {
	StartTime         *string `json:"start_time"`
	EndTime           *string `json:"end_time"`
	ExpiryDate        *string `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	CustomWindowStart *string `json:"custom_window_start"`
	CustomWindowEnd   *string `json:"custom_window_end"`
	IsActive          *bool   `json:"is_active"`
}

// ── 排班模块响应 ──

// ScheduleResponse 排班记录响应
type ScheduleResponse struct {
	ID            string     `json:"id"`
	WorkerID      string     `json:"worker_id"`
	WorkerName    string     `json:"worker_name,omitempty"`
	TeamID        string     `json:"team_id"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	DayOfWeek     *int       `json:"day_of_week,omitempty"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	IsActive      bool       `json:"is_active"`
}

// WindowResponse 打卡窗口响应
type WindowResponse struct {
	ShiftType        string `json:"shift_type"` // morning | afternoon | night | flexible
	RecommendedStart string `json:"recommended_start"`
	RecommendedEnd   string `json:"recommended_end"`
	LateStart        string `json:"late_start,omitempty"`
	LateEnd          string `json:"late_end,omitempty"`
	Custom           bool   `json:"custom"` // 是否来自排班自定义窗口
}

// ResolveScheduleResponse 排班解析结果（无排班时 schedule 为空、flexible=true）
type ResolveScheduleResponse struct {
	Schedule *ScheduleResponse `json:"schedule,omitempty"`
	Flexible bool              `json:"flexible"`
	Window   WindowResponse    `json:"window"`
}

// ImportRosterResponse roster 导入响应
type ImportRosterResponse struct {
	ImportedCount int                `json:"imported_count"`
	Schedules     []ScheduleResponse `json:"schedules"`
}
