package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Worker       WorkerRepository
	Team         TeamRepository
	Membership   TeamMembershipRepository
	Schedule     ScheduleRepository
	Exception    ExceptionRepository
	CheckIn      CheckInRepository
	SystemConfig SystemConfigRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Worker:       NewWorkerRepo(db),
		Team:         NewTeamRepo(db),
		Membership:   NewTeamMembershipRepo(db),
		Schedule:     NewScheduleRepo(db),
		Exception:    NewExceptionRepo(db),
		CheckIn:      NewCheckInRepo(db),
		SystemConfig: NewSystemConfigRepo(db),
	}
}
