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

// 排班模块业务错误
var (
	ErrScheduleNotFound       = errors.New("排班不存在")
	ErrScheduleWorkerNotFound = errors.New("工人不存在")
	ErrScheduleVariantInvalid = errors.New("排班变体无效：单日排班与周期排班字段必须二选一")
	ErrScheduleTimeInvalid    = errors.New("排班时间格式无效，应为 HH:MM")
	ErrScheduleDateInvalid    = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrScheduleRangeInvalid   = errors.New("失效日期不能早于生效日期")
	ErrRosterEmpty            = errors.New("roster 日历中没有可导入的排班事件")
)

// ScheduleService 排班服务接口
type ScheduleService interface {
	Create(ctx context.Context, req *dto.CreateScheduleRequest, operatorID string) (*dto.ScheduleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, operatorID string) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	ListByWorker(ctx context.Context, workerID string) ([]dto.ScheduleResponse, error)
	ListByTeam(ctx context.Context, teamID string) ([]dto.ScheduleResponse, error)
	// Resolve 解析工人指定日期生效的排班；无排班时返回 (nil, nil)，表示弹性模式
	Resolve(ctx context.Context, workerID string, date time.Time) (*model.ShiftSchedule, error)
	// ResolveWindow 解析排班并推导当日打卡窗口
	ResolveWindow(ctx context.Context, workerID string, date time.Time) (*dto.ResolveScheduleResponse, error)
	// ImportRoster 解析 ICS roster 日历并全量替换工人排班
	ImportRoster(ctx context.Context, workerID string, icsData []byte, operatorID string) (*dto.ImportRosterResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建排班服务实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest, operatorID string) (*dto.ScheduleResponse, error) {
	// 1. 校验变体：单日与周期互斥且必居其一
	isSingle := req.ScheduledDate != nil
	isRecurring := req.DayOfWeek != nil
	if isSingle == isRecurring {
		return nil, ErrScheduleVariantInvalid
	}
	if isRecurring && req.EffectiveDate == nil {
		return nil, ErrScheduleVariantInvalid
	}

	// 2. 校验时间格式
	if _, err := minuteOfDay(req.StartTime); err != nil {
		return nil, ErrScheduleTimeInvalid
	}
	if _, err := minuteOfDay(req.EndTime); err != nil {
		return nil, ErrScheduleTimeInvalid
	}

	// 3. 校验工人存在并取其班组
	worker, err := s.repo.Worker.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleWorkerNotFound
		}
		s.logger.Error("查询工人失败", zap.String("worker_id", req.WorkerID), zap.Error(err))
		return nil, err
	}

	schedule := &model.ShiftSchedule{
		WorkerID:            worker.WorkerID,
		TeamID:              worker.TeamID,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		CustomWindowStart:   req.CustomWindowStart,
		CustomWindowEnd:     req.CustomWindowEnd,
		RequiresDailyWindow: req.RequiresDailyWindow,
		DailyWindowStart:    req.DailyWindowStart,
		DailyWindowEnd:      req.DailyWindowEnd,
		IsActive:            true,
	}
	schedule.CreatedBy = &operatorID

	// 4. 填充变体字段
	if isSingle {
		d, err := parseDate(*req.ScheduledDate)
		if err != nil {
			return nil, ErrScheduleDateInvalid
		}
		schedule.ScheduledDate = &d
	} else {
		eff, err := parseDate(*req.EffectiveDate)
		if err != nil {
			return nil, ErrScheduleDateInvalid
		}
		schedule.DayOfWeek = req.DayOfWeek
		schedule.EffectiveDate = &eff
		if req.ExpiryDate != nil {
			exp, err := parseDate(*req.ExpiryDate)
			if err != nil {
				return nil, ErrScheduleDateInvalid
			}
			if exp.Before(eff) {
				return nil, ErrScheduleRangeInvalid
			}
			schedule.ExpiryDate = &exp
		}
	}

	// 5. 落库
	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		s.logger.Error("创建排班失败", zap.String("worker_id", req.WorkerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班已创建",
		zap.String("schedule_id", schedule.ScheduleID),
		zap.String("worker_id", schedule.WorkerID),
		zap.Bool("recurring", schedule.IsRecurring()))

	resp := toScheduleResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, operatorID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	if req.StartTime != nil {
		if _, err := minuteOfDay(*req.StartTime); err != nil {
			return nil, ErrScheduleTimeInvalid
		}
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if _, err := minuteOfDay(*req.EndTime); err != nil {
			return nil, ErrScheduleTimeInvalid
		}
		schedule.EndTime = *req.EndTime
	}
	if req.ExpiryDate != nil {
		exp, err := parseDate(*req.ExpiryDate)
		if err != nil {
			return nil, ErrScheduleDateInvalid
		}
		if schedule.EffectiveDate != nil && exp.Before(*schedule.EffectiveDate) {
			return nil, ErrScheduleRangeInvalid
		}
		schedule.ExpiryDate = &exp
	}
	if req.CustomWindowStart != nil {
		schedule.CustomWindowStart = req.CustomWindowStart
	}
	if req.CustomWindowEnd != nil {
		schedule.CustomWindowEnd = req.CustomWindowEnd
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	schedule.UpdatedBy = &operatorID

	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		s.logger.Error("更新排班失败", zap.String("schedule_id", id), zap.Error(err))
		return nil, err
	}

	resp := toScheduleResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Schedule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	return s.repo.Schedule.Delete(ctx, id, operatorID)
}

func (s *scheduleService) ListByWorker(ctx context.Context, workerID string) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.Schedule.ListActiveByWorker(ctx, workerID, nil, nil)
	if err != nil {
		return nil, err
	}
	return toScheduleResponses(schedules), nil
}

func (s *scheduleService) ListByTeam(ctx context.Context, teamID string) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.Schedule.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return toScheduleResponses(schedules), nil
}

// Resolve 解析工人指定日期生效的排班。
//
// 规则：
//  1. 单日排班优先于周期排班
//  2. 周期排班按星期匹配，且日期落在 [effective_date, expiry_date]（闭区间，
//     expiry_date 为空表示无限期）
//  3. 同优先级多条命中时取最近创建的一条（created_at 降序、schedule_id 降序
//     兜底），结果确定且记录告警，绝不报错
//  4. 无命中返回 (nil, nil)：弹性模式不是异常状态
func (s *scheduleService) Resolve(ctx context.Context, workerID string, date time.Time) (*model.ShiftSchedule, error) {
	day := dateOnly(date)
	schedules, err := s.repo.Schedule.ListActiveByWorker(ctx, workerID, &day, &day)
	if err != nil {
		s.logger.Error("查询排班失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	// Repository 已按 created_at 降序、schedule_id 降序返回，
	// 每一层的第一条命中即为解析结果
	var singles, recurring []*model.ShiftSchedule
	for i := range schedules {
		sc := &schedules[i]
		switch {
		case sc.IsSingleDate():
			if sameDate(*sc.ScheduledDate, day) {
				singles = append(singles, sc)
			}
		case sc.IsRecurring():
			if *sc.DayOfWeek == int(day.Weekday()) && recurringCovers(sc, day) {
				recurring = append(recurring, sc)
			}
		}
	}

	candidates := singles
	if len(candidates) == 0 {
		candidates = recurring
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > 1 {
		s.logger.Warn("同日命中多条排班，按最近创建优先",
			zap.String("worker_id", workerID),
			zap.Time("date", day),
			zap.Int("candidates", len(candidates)),
			zap.String("picked", candidates[0].ScheduleID))
	}
	return candidates[0], nil
}

func (s *scheduleService) ResolveWindow(ctx context.Context, workerID string, date time.Time) (*dto.ResolveScheduleResponse, error) {
	schedule, err := s.Resolve(ctx, workerID, date)
	if err != nil {
		return nil, err
	}

	bands := loadWindowBands(ctx, s.repo, s.logger)
	resp := &dto.ResolveScheduleResponse{
		Flexible: schedule == nil,
		Window:   ComputeWindow(schedule, bands),
	}
	if schedule != nil {
		sr := toScheduleResponse(schedule)
		resp.Schedule = &sr
	}
	return resp, nil
}

func (s *scheduleService) ImportRoster(ctx context.Context, workerID string, icsData []byte, operatorID string) (*dto.ImportRosterResponse, error) {
	// 1. 校验工人存在
	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleWorkerNotFound
		}
		return nil, err
	}

	// 2. 解析 ICS 日历
	schedules, err := ParseRosterICS(icsData)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrRosterEmpty
	}

	// 3. 补齐归属字段后全量替换
	for i := range schedules {
		schedules[i].WorkerID = worker.WorkerID
		schedules[i].TeamID = worker.TeamID
		schedules[i].IsActive = true
		schedules[i].CreatedBy = &operatorID
	}
	if err := s.repo.Schedule.ReplaceForWorker(ctx, workerID, schedules); err != nil {
		s.logger.Error("roster 导入失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("roster 导入完成",
		zap.String("worker_id", workerID),
		zap.Int("imported", len(schedules)))

	return &dto.ImportRosterResponse{
		ImportedCount: len(schedules),
		Schedules:     toScheduleResponses(schedules),
	}, nil
}

// recurringCovers 周期排班的生效区间是否覆盖指定日期（闭区间）
func recurringCovers(sc *model.ShiftSchedule, day time.Time) bool {
	if sc.EffectiveDate == nil || day.Before(dateOnly(*sc.EffectiveDate)) {
		return false
	}
	if sc.ExpiryDate != nil && day.After(dateOnly(*sc.ExpiryDate)) {
		return false
	}
	return true
}

// ── 辅助函数 ──

// parseDate 解析 "YYYY-MM-DD"
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// dateOnly 截断到日期（UTC 零点），用于 date 列的等值/区间比较
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ── 响应转换 ──

func toScheduleResponse(sc *model.ShiftSchedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ID:            sc.ScheduleID,
		WorkerID:      sc.WorkerID,
		TeamID:        sc.TeamID,
		ScheduledDate: sc.ScheduledDate,
		DayOfWeek:     sc.DayOfWeek,
		EffectiveDate: sc.EffectiveDate,
		ExpiryDate:    sc.ExpiryDate,
		StartTime:     normalizeClock(sc.StartTime),
		EndTime:       normalizeClock(sc.EndTime),
		IsActive:      sc.IsActive,
	}
	if sc.Worker != nil {
		resp.WorkerName = sc.Worker.Name
	}
	return resp
}

func toScheduleResponses(schedules []model.ShiftSchedule) []dto.ScheduleResponse {
	resps := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		resps = append(resps, toScheduleResponse(&schedules[i]))
	}
	return resps
}
