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

// 打卡模块业务错误
var (
	ErrCheckInWorkerNotFound  = errors.New("工人不存在")
	ErrCheckInDuplicate       = errors.New("当日已提交过打卡")
	ErrCheckInDuringException = errors.New("例外期间无需打卡")
	ErrCheckInDateInvalid     = errors.New("打卡日期无效")
	ErrCheckInMetricsInvalid  = errors.New("健康指标超出取值范围")
)

// CheckInService 打卡服务接口
type CheckInService interface {
	// Submit 提交当日打卡：分类就绪度、记录班次快照与及时性。
	// 窗口校验是软性的，超窗只影响 timeliness 标记，不拒绝提交。
	Submit(ctx context.Context, workerID string, req *dto.SubmitCheckInRequest) (*dto.CheckInResponse, error)
	// GetByDate 返回工人指定日期的打卡，无则 (nil, nil)
	GetByDate(ctx context.Context, workerID string, date time.Time) (*dto.CheckInResponse, error)
	History(ctx context.Context, workerID string, from, to time.Time) ([]dto.CheckInResponse, error)
}

type checkInService struct {
	repo      *repository.Repository
	schedules ScheduleService
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckInService 创建打卡服务实例
func NewCheckInService(repo *repository.Repository, schedules ScheduleService, logger *zap.Logger) CheckInService {
	return &checkInService{repo: repo, schedules: schedules, logger: logger, now: time.Now}
}

func (s *checkInService) Submit(ctx context.Context, workerID string, req *dto.SubmitCheckInRequest) (*dto.CheckInResponse, error) {
	// 1. 指标范围校验（绑定层之外的兜底）
	if err := validateMetrics(req); err != nil {
		return nil, err
	}

	// 2. 确定打卡日期：未传则取当天
	submittedAt := s.now()
	date := dateOnly(submittedAt)
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			return nil, ErrCheckInDateInvalid
		}
		date = d
	}

	// 3. 校验工人存在
	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInWorkerNotFound
		}
		return nil, err
	}

	// 4. 例外期间不接收打卡（状态由例外直接决定）
	if _, err := s.repo.Exception.GetActiveByWorkerAndDate(ctx, workerID, date); err == nil {
		return nil, ErrCheckInDuringException
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 5. 每日一次
	if _, err := s.repo.CheckIn.GetByWorkerAndDate(ctx, workerID, date); err == nil {
		return nil, ErrCheckInDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 6. 解析排班，推导窗口与及时性
	schedule, err := s.schedules.Resolve(ctx, workerID, date)
	if err != nil {
		return nil, err
	}
	bands := loadWindowBands(ctx, s.repo, s.logger)
	window := ComputeWindow(schedule, bands)
	timeliness := ClassifyTimeliness(window, submittedAt.Format("15:04"))

	// 7. 分类就绪度
	thresholds := loadClassifierThresholds(ctx, s.repo, s.logger)
	readiness := Classify(HealthMetrics{
		Pain:    req.PainLevel,
		Fatigue: req.FatigueLevel,
		Stress:  req.StressLevel,
		Sleep:   req.SleepQuality,
	}, thresholds)

	checkIn := &model.CheckIn{
		WorkerID:           worker.WorkerID,
		TeamID:             worker.TeamID,
		CheckInDate:        date,
		PainLevel:          req.PainLevel,
		FatigueLevel:       req.FatigueLevel,
		StressLevel:        req.StressLevel,
		SleepQuality:       req.SleepQuality,
		PredictedReadiness: readiness,
		Timeliness:         timeliness,
		SubmittedAt:        submittedAt,
	}
	checkIn.CreatedBy = &workerID

	// 8. 班次快照
	shiftType := window.ShiftType
	checkIn.ShiftType = &shiftType
	if schedule != nil {
		start := normalizeClock(schedule.StartTime)
		end := normalizeClock(schedule.EndTime)
		checkIn.ShiftStart = &start
		checkIn.ShiftEnd = &end
	}

	if err := s.repo.CheckIn.Create(ctx, checkIn); err != nil {
		s.logger.Error("打卡落库失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("打卡已提交",
		zap.String("worker_id", workerID),
		zap.Time("date", date),
		zap.String("readiness", readiness),
		zap.String("timeliness", timeliness))

	resp := toCheckInResponse(checkIn)
	return &resp, nil
}

func (s *checkInService) GetByDate(ctx context.Context, workerID string, date time.Time) (*dto.CheckInResponse, error) {
	checkIn, err := s.repo.CheckIn.GetByWorkerAndDate(ctx, workerID, dateOnly(date))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := toCheckInResponse(checkIn)
	return &resp, nil
}

func (s *checkInService) History(ctx context.Context, workerID string, from, to time.Time) ([]dto.CheckInResponse, error) {
	checkIns, err := s.repo.CheckIn.ListByWorkerAndRange(ctx, workerID, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, err
	}
	resps := make([]dto.CheckInResponse, 0, len(checkIns))
	for i := range checkIns {
		resps = append(resps, toCheckInResponse(&checkIns[i]))
	}
	return resps, nil
}

func validateMetrics(req *dto.SubmitCheckInRequest) error {
	inRange := func(v, max int) bool { return v >= 0 && v <= max }
	if !inRange(req.PainLevel, 10) || !inRange(req.FatigueLevel, 10) ||
		!inRange(req.StressLevel, 10) || !inRange(req.SleepQuality, 12) {
		return ErrCheckInMetricsInvalid
	}
	return nil
}

func toCheckInResponse(c *model.CheckIn) dto.CheckInResponse {
	return dto.CheckInResponse{
		ID:                 c.CheckInID,
		WorkerID:           c.WorkerID,
		Date:               c.CheckInDate,
		PainLevel:          c.PainLevel,
		FatigueLevel:       c.FatigueLevel,
		StressLevel:        c.StressLevel,
		SleepQuality:       c.SleepQuality,
		PredictedReadiness: c.PredictedReadiness,
		Timeliness:         c.Timeliness,
		ShiftType:          c.ShiftType,
		SubmittedAt:        c.SubmittedAt,
	}
}
