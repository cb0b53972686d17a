package model

// Worker 工人表 — 对应 workers
type Worker struct {
	WorkerID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	Name               string `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeNo         string `gorm:"type:varchar(30);not null"                      json:"employee_no"`
	Email              string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string `gorm:"type:varchar(20);not null;default:'worker'"     json:"role"` // worker | leader | supervisor | whs
	TeamID             string `gorm:"type:uuid;not null"                             json:"team_id"`
	MustChangePassword bool   `gorm:"not null;default:false"                         json:"must_change_password"`
	VersionedModel

	// 关联
	Team *Team `gorm:"foreignKey:TeamID;references:TeamID" json:"team,omitempty"`
}

// TableName 指定表名
func (Worker) TableName() string { return "workers" }
