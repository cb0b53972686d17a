package service

import (
	"go.uber.org/zap"

	"physioward/backend/internal/repository"
	"physioward/backend/pkg/jwt"
	"physioward/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Worker    WorkerService
	Team      TeamService
	Schedule  ScheduleService
	Exception ExceptionService
	CheckIn   CheckInService
	Status    StatusService
	Stats     StatsService
	Export    ExportService
	Config    ConfigService
}

// NewService 创建 Service 聚合（rdb 可为 nil，表示 Redis 降级运行）
func NewService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *Service {
	schedule := NewScheduleService(repo, logger)
	stats := NewStatsService(repo, logger)

	return &Service{
		Auth:      NewAuthService(repo, jwtMgr, rdb, logger),
		Worker:    NewWorkerService(repo, logger),
		Team:      NewTeamService(repo, logger),
		Schedule:  schedule,
		Exception: NewExceptionService(repo, logger),
		CheckIn:   NewCheckInService(repo, schedule, logger),
		Status:    NewStatusService(repo, schedule, logger),
		Stats:     stats,
		Export:    NewExportService(stats, logger),
		Config:    NewConfigService(repo, logger),
	}
}
