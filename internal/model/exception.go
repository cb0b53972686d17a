package model

import "time"

// 例外类型
const (
	ExceptionTransfer     = "transfer"
	ExceptionAccident     = "accident"
	ExceptionInjury       = "injury"
	ExceptionMedicalLeave = "medical_leave"
	ExceptionOther        = "other"
)

// Exception 例外表 — 对应 exceptions
//
// 每名工人同一时刻最多一条激活例外（数据库部分唯一索引保证）。
// WHSReviewerID 非空表示已被安全审查员锁定：创建者在解锁前不可修改或删除。
type Exception struct {
	ExceptionID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exception_id"`
	WorkerID    string     `gorm:"type:uuid;not null"                             json:"worker_id"`
	Type        string     `gorm:"type:varchar(20);not null"                      json:"type"` // transfer | accident | injury | medical_leave | other
	Reason      string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	StartDate   time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"` // 为空表示无限期
	IsActive    bool       `gorm:"not null;default:true"                          json:"is_active"`

	// WHS 锁定状态
	WHSReviewerID *string    `gorm:"column:whs_reviewer_id;type:uuid" json:"whs_reviewer_id,omitempty"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`

	// transfer 专用：目标班组
	TargetTeamID *string `gorm:"type:uuid" json:"target_team_id,omitempty"`
	VersionedModel

	// 关联
	Worker *Worker `gorm:"foreignKey:WorkerID;references:WorkerID" json:"worker,omitempty"`
}

// TableName 指定表名
func (Exception) TableName() string { return "exceptions" }

// IsLocked 是否已被 WHS 审查员锁定
func (e *Exception) IsLocked() bool { return e.WHSReviewerID != nil }

// CoversDate 例外在指定日期是否生效（闭区间；EndDate 为空视为无限期）
func (e *Exception) CoversDate(date time.Time) bool {
	if !e.IsActive {
		return false
	}
	if date.Before(e.StartDate) {
		return false
	}
	if e.EndDate != nil && date.After(*e.EndDate) {
		return false
	}
	return true
}
