package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/model"
	"physioward/backend/internal/repository"
)

// 统计区间上限，防止全表级扫描
const maxStatsRangeDays = 366

// 统计模块业务错误
var (
	ErrStatsRangeInvalid = errors.New("统计区间无效：起止日期颠倒或跨度过大")
	ErrStatsTeamNotFound = errors.New("班组不存在")
)

// StatsService 就绪度聚合统计服务接口
//
// 口径（与响应结构注释一致）：
//   - 例外工人日既不计入 expected 分母也不计入 completed/pending
//   - completion_rate = completed / expected × 100，分母为 0 时取 0 而非 NaN
//   - 主管级完成率按各班组预期打卡数加权（分子分母分别求和），
//     不是各班组完成率的简单平均
type StatsService interface {
	AggregateTeam(ctx context.Context, teamID string, from, to time.Time) (*dto.TeamStatsResponse, error)
	AggregateSupervisor(ctx context.Context, supervisorID string, from, to time.Time) (*dto.SupervisorStatsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatsService 创建统计服务实例
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger}
}

func (s *statsService) AggregateTeam(ctx context.Context, teamID string, from, to time.Time) (*dto.TeamStatsResponse, error) {
	// 1. 区间先行校验，不合法绝不触达存储
	from, to = dateOnly(from), dateOnly(to)
	if err := validateStatsRange(from, to); err != nil {
		return nil, err
	}

	// 2. 班组存在性
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatsTeamNotFound
		}
		return nil, err
	}

	return s.tallyTeam(ctx, team, from, to)
}

func (s *statsService) AggregateSupervisor(ctx context.Context, supervisorID string, from, to time.Time) (*dto.SupervisorStatsResponse, error) {
	from, to = dateOnly(from), dateOnly(to)
	if err := validateStatsRange(from, to); err != nil {
		return nil, err
	}

	teams, err := s.repo.Team.ListBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SupervisorStatsResponse{
		SupervisorID: supervisorID,
		From:         formatDate(from),
		To:           formatDate(to),
		Teams:        make([]dto.TeamStatsResponse, 0, len(teams)),
	}

	// 分子分母分别累加后再求比率：班组规模不同，完成率不能简单平均
	for i := range teams {
		teamStats, err := s.tallyTeam(ctx, &teams[i], from, to)
		if err != nil {
			return nil, err
		}
		resp.Teams = append(resp.Teams, *teamStats)

		st := teamStats.Stats
		resp.Stats.TotalWorkers += st.TotalWorkers
		resp.Stats.ActiveWorkers += st.ActiveWorkers
		resp.Stats.ExpectedCheckIns += st.ExpectedCheckIns
		resp.Stats.Completed += st.Completed
		resp.Stats.Pending += st.Pending
		resp.Stats.Green += st.Green
		resp.Stats.Amber += st.Amber
		resp.Stats.Red += st.Red
		resp.Stats.WithExceptions += st.WithExceptions
	}
	resp.Stats.CompletionRate = completionRate(resp.Stats.Completed, resp.Stats.ExpectedCheckIns)

	return resp, nil
}

// tallyTeam 对单个班组做逐工人日的状态归并。
// 批量取数后纯内存折算，范围内不再发起逐工人的查询。
func (s *statsService) tallyTeam(ctx context.Context, team *model.Team, from, to time.Time) (*dto.TeamStatsResponse, error) {
	workers, err := s.repo.Worker.ListByTeam(ctx, team.TeamID)
	if err != nil {
		return nil, err
	}

	workerIDs := make([]string, 0, len(workers))
	for i := range workers {
		workerIDs = append(workerIDs, workers[i].WorkerID)
	}

	excs, err := s.repo.Exception.ListActiveByWorkerIDs(ctx, workerIDs)
	if err != nil {
		return nil, err
	}
	checkIns, err := s.repo.CheckIn.ListByWorkerIDsAndRange(ctx, workerIDs, from, to)
	if err != nil {
		return nil, err
	}

	excByWorker := make(map[string][]*model.Exception)
	for i := range excs {
		excByWorker[excs[i].WorkerID] = append(excByWorker[excs[i].WorkerID], &excs[i])
	}
	checkInByWorkerDay := make(map[string]map[string]*model.CheckIn)
	for i := range checkIns {
		c := &checkIns[i]
		day := formatDate(c.CheckInDate)
		if checkInByWorkerDay[c.WorkerID] == nil {
			checkInByWorkerDay[c.WorkerID] = make(map[string]*model.CheckIn)
		}
		checkInByWorkerDay[c.WorkerID][day] = c
	}

	stats := dto.ReadinessStats{TotalWorkers: len(workers)}
	exceptedWorkers := make(map[string]bool)

	for i := range workers {
		worker := &workers[i]
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			if exc := coveringException(excByWorker[worker.WorkerID], day); exc != nil {
				// 例外工人日：完全排除在分子分母之外
				exceptedWorkers[worker.WorkerID] = true
				continue
			}
			stats.ExpectedCheckIns++

			checkIn := checkInByWorkerDay[worker.WorkerID][formatDate(day)]
			if checkIn == nil {
				stats.Pending++
				continue
			}
			stats.Completed++
			switch checkIn.PredictedReadiness {
			case ReadinessGreen:
				stats.Green++
			case ReadinessAmber:
				stats.Amber++
			case ReadinessRed:
				stats.Red++
			}
		}
	}

	stats.WithExceptions = len(exceptedWorkers)
	// 激活工人数按区间末日的例外覆盖情况计
	stats.ActiveWorkers = stats.TotalWorkers
	for i := range workers {
		if coveringException(excByWorker[workers[i].WorkerID], to) != nil {
			stats.ActiveWorkers--
		}
	}
	stats.CompletionRate = completionRate(stats.Completed, stats.ExpectedCheckIns)

	resp := &dto.TeamStatsResponse{
		TeamID:   team.TeamID,
		TeamName: team.Name,
		From:     formatDate(from),
		To:       formatDate(to),
		Stats:    stats,
	}

	// 单日查询附带逐工人明细
	if from.Equal(to) {
		resp.Workers = make([]dto.WorkerStatusResponse, 0, len(workers))
		for i := range workers {
			worker := &workers[i]
			exc := coveringException(excByWorker[worker.WorkerID], from)
			checkIn := checkInByWorkerDay[worker.WorkerID][formatDate(from)]
			ws := dto.WorkerStatusResponse{
				WorkerID:   worker.WorkerID,
				WorkerName: worker.Name,
				Date:       formatDate(from),
				Status:     resolveStatus(exc, checkIn),
			}
			if exc != nil {
				er := toExceptionResponse(exc)
				ws.Exception = &er
			}
			if exc == nil && checkIn != nil {
				cr := toCheckInResponse(checkIn)
				ws.CheckIn = &cr
			}
			resp.Workers = append(resp.Workers, ws)
		}
	}

	return resp, nil
}

func validateStatsRange(from, to time.Time) error {
	if to.Before(from) {
		return ErrStatsRangeInvalid
	}
	if to.Sub(from) > maxStatsRangeDays*24*time.Hour {
		return ErrStatsRangeInvalid
	}
	return nil
}

// coveringException 返回覆盖指定日期的例外，无则 nil
func coveringException(excs []*model.Exception, day time.Time) *model.Exception {
	for _, exc := range excs {
		if exc.CoversDate(day) {
			return exc
		}
	}
	return nil
}

// completionRate 完成率（0-100，保留一位小数）；分母为 0 时取 0
func completionRate(completed, expected int) float64 {
	if expected == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(expected)*1000) / 10
}
