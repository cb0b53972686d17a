package dto

import "time"

// ── 打卡模块请求 ──

// SubmitCheckInRequest 提交打卡请求
// date 为空时由 Handler 填入当天（工人本地日）
type SubmitCheckInRequest struct {
	Date         string `json:"date"          binding:"omitempty,datetime=2006-01-02"`
	PainLevel    int    `json:"pain_level"    binding:"min=0,max=10"`
	FatigueLevel int    `json:"fatigue_level" binding:"min=0,max=10"`
	StressLevel  int    `json:"stress_level"  binding:"min=0,max=10"`
	SleepQuality int    `json:"sleep_quality" binding:"min=0,max=12"`
}

// ── 打卡模块响应 ──

// CheckInResponse 打卡记录响应
type CheckInResponse struct {
	ID                 string    `json:"id"`
	WorkerID           string    `json:"worker_id"`
	Date               time.Time `json:"date"`
	PainLevel          int       `json:"pain_level"`
	FatigueLevel       int       `json:"fatigue_level"`
	StressLevel        int       `json:"stress_level"`
	SleepQuality       int       `json:"sleep_quality"`
	PredictedReadiness string    `json:"predicted_readiness"`
	Timeliness         string    `json:"timeliness"`
	ShiftType          *string   `json:"shift_type,omitempty"`
	SubmittedAt        time.Time `json:"submitted_at"`
}
