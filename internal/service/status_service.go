package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/model"
	"physioward/backend/internal/repository"
)

// 就绪度之外的状态值
const (
	StatusPending   = "pending"
	StatusException = "exception"
)

// ErrStatusWorkerNotFound 状态查询的工人不存在
var ErrStatusWorkerNotFound = errors.New("工人不存在")

// StatusService 单工人单日状态服务接口
type StatusService interface {
	// StatusFor 按优先级解析工人指定日期的状态：
	// exception > 打卡颜色（green/amber/red）> pending，并附判定依据。
	// 打卡超窗只体现在 timeliness，绝不把状态降为 pending。
	StatusFor(ctx context.Context, workerID string, date time.Time) (*dto.WorkerStatusResponse, error)
}

type statusService struct {
	repo      *repository.Repository
	schedules ScheduleService
	logger    *zap.Logger
}

// NewStatusService 创建状态服务实例
func NewStatusService(repo *repository.Repository, schedules ScheduleService, logger *zap.Logger) StatusService {
	return &statusService{repo: repo, schedules: schedules, logger: logger}
}

func (s *statusService) StatusFor(ctx context.Context, workerID string, date time.Time) (*dto.WorkerStatusResponse, error) {
	day := dateOnly(date)

	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusWorkerNotFound
		}
		return nil, err
	}

	resp := &dto.WorkerStatusResponse{
		WorkerID:   worker.WorkerID,
		WorkerName: worker.Name,
		Date:       formatDate(day),
	}

	// 1. 例外优先：命中即短路
	exc, err := s.repo.Exception.GetActiveByWorkerAndDate(ctx, workerID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if exc != nil {
		resp.Status = StatusException
		er := toExceptionResponse(exc)
		resp.Exception = &er
		return resp, nil
	}

	// 2. 有打卡取其颜色（迟到/超窗不降级）
	checkIn, err := s.repo.CheckIn.GetByWorkerAndDate(ctx, workerID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if checkIn != nil {
		resp.Status = checkIn.PredictedReadiness
		cr := toCheckInResponse(checkIn)
		resp.CheckIn = &cr
		return resp, nil
	}

	// 3. 其余为待打卡，附排班与窗口供前端提示
	resp.Status = StatusPending
	resolved, err := s.schedules.ResolveWindow(ctx, workerID, day)
	if err != nil {
		return nil, err
	}
	resp.Schedule = resolved.Schedule
	resp.Window = &resolved.Window
	return resp, nil
}

// resolveStatus 纯函数版的状态优先级，供聚合统计逐工人日套用
func resolveStatus(exc *model.Exception, checkIn *model.CheckIn) string {
	if exc != nil {
		return StatusException
	}
	if checkIn != nil {
		return checkIn.PredictedReadiness
	}
	return StatusPending
}
