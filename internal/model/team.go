package model

import "time"

// Team 班组表 — 对应 teams
type Team struct {
	TeamID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Description  string  `gorm:"type:text"                                      json:"description,omitempty"`
	SupervisorID *string `gorm:"type:uuid"                                      json:"supervisor_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Supervisor *Worker `gorm:"foreignKey:SupervisorID;references:WorkerID" json:"supervisor,omitempty"`
}

// TableName 指定表名
func (Team) TableName() string { return "teams" }

// TeamMembership 班组成员关系表 — 对应 team_memberships
// 工人调动（transfer 例外）时旧关系停用、新关系生效，保留完整归属历史
type TeamMembership struct {
	MembershipID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"membership_id"`
	WorkerID     string     `gorm:"type:uuid;not null"                             json:"worker_id"`
	TeamID       string     `gorm:"type:uuid;not null"                             json:"team_id"`
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	StartedAt    time.Time  `gorm:"type:date;not null"                             json:"started_at"`
	EndedAt      *time.Time `gorm:"type:date"                                      json:"ended_at,omitempty"`
	BaseModel

	// 关联
	Team *Team `gorm:"foreignKey:TeamID;references:TeamID" json:"team,omitempty"`
}

// TableName 指定表名
func (TeamMembership) TableName() string { return "team_memberships" }
