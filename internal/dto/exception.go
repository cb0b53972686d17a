package dto

import "time"

// ── 例外模块请求 ──

// CreateExceptionRequest 创建例外请求
type CreateExceptionRequest struct {
	WorkerID     string  `json:"worker_id"      binding:"required,uuid"`
	Type         string  `json:"type"           binding:"required,oneof=transfer accident injury medical_leave other"`
	Reason       string  `json:"reason"         binding:"omitempty,max=500"`
	StartDate    string  `json:"start_date"     binding:"required,datetime=2006-01-02"`
	EndDate      *string `json:"end_date"       binding:"omitempty,datetime=2006-01-02"`
	TargetTeamID *string `json:"target_team_id" binding:"omitempty,uuid"` // transfer 必填
}

// UpdateExceptionRequest 更新例外请求（锁定期间拒绝）
type UpdateExceptionRequest struct {
	Reason    *string `json:"reason"     binding:"omitempty,max=500"`
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// ── 例外模块响应 ──

// ExceptionResponse 例外记录响应
type ExceptionResponse struct {
	ID            string     `json:"id"`
	WorkerID      string     `json:"worker_id"`
	WorkerName    string     `json:"worker_name,omitempty"`
	Type          string     `json:"type"`
	Reason        string     `json:"reason,omitempty"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	IsActive      bool       `json:"is_active"`
	Locked        bool       `json:"locked"`
	WHSReviewerID *string    `json:"whs_reviewer_id,omitempty"`
	TargetTeamID  *string    `json:"target_team_id,omitempty"`
}

// CreateExceptionResponse 创建例外响应（含排班停用数）
type CreateExceptionResponse struct {
	Exception            ExceptionResponse `json:"exception"`
	DeactivatedSchedules int64             `json:"deactivated_schedules"`
}

// RemoveExceptionResponse 解除例外响应（含排班恢复数）
type RemoveExceptionResponse struct {
	ReactivatedSchedules int64 `json:"reactivated_schedules"`
}
