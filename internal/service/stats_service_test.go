package service

import (
	"context"
	"errors"
	"testing"

	"physioward/backend/internal/model"
)

// 班组场景：5 名工人，1 人例外、2 绿 1 红、1 人未打卡
func seedTeamScenario(store *memStore) (teamID string) {
	team := seedTeam(store, "搬运一组")
	w1 := seedWorker(store, "a-exception", team.TeamID, "worker")
	w2 := seedWorker(store, "b-green1", team.TeamID, "worker")
	w3 := seedWorker(store, "c-green2", team.TeamID, "worker")
	w4 := seedWorker(store, "d-red", team.TeamID, "worker")
	seedWorker(store, "e-pending", team.TeamID, "worker")

	seedException(store, w1.WorkerID, model.ExceptionMedicalLeave, "2026-08-01", "2026-08-31")
	seedCheckIn(store, w2.WorkerID, team.TeamID, "2026-08-10", ReadinessGreen)
	seedCheckIn(store, w3.WorkerID, team.TeamID, "2026-08-10", ReadinessGreen)
	seedCheckIn(store, w4.WorkerID, team.TeamID, "2026-08-10", ReadinessRed)
	return team.TeamID
}

func TestAggregateTeamSingleDay(t *testing.T) {
	store := newMemStore()
	teamID := seedTeamScenario(store)
	svc := NewStatsService(newTestRepos(store), testLogger())

	resp, err := svc.AggregateTeam(context.Background(), teamID, date("2026-08-10"), date("2026-08-10"))
	assertNoError(t, err)

	st := resp.Stats
	if st.TotalWorkers != 5 {
		t.Errorf("TotalWorkers = %d, 期望 5", st.TotalWorkers)
	}
	if st.ActiveWorkers != 4 {
		t.Errorf("ActiveWorkers = %d, 期望 4（例外工人不计入）", st.ActiveWorkers)
	}
	if st.ExpectedCheckIns != 4 {
		t.Errorf("ExpectedCheckIns = %d, 期望 4（例外工人日不进分母）", st.ExpectedCheckIns)
	}
	if st.Completed != 3 {
		t.Errorf("Completed = %d, 期望 3", st.Completed)
	}
	if st.Pending != 1 {
		t.Errorf("Pending = %d, 期望 1", st.Pending)
	}
	if st.Green != 2 || st.Amber != 0 || st.Red != 1 {
		t.Errorf("颜色分布错误: green=%d amber=%d red=%d", st.Green, st.Amber, st.Red)
	}
	if st.WithExceptions != 1 {
		t.Errorf("WithExceptions = %d, 期望 1", st.WithExceptions)
	}
	if st.CompletionRate != 75 {
		t.Errorf("CompletionRate = %v, 期望 75", st.CompletionRate)
	}

	// 单日查询附带逐工人明细
	if len(resp.Workers) != 5 {
		t.Fatalf("单日查询应附带 5 条明细，实际 %d", len(resp.Workers))
	}
	statusCount := map[string]int{}
	for _, ws := range resp.Workers {
		statusCount[ws.Status]++
	}
	if statusCount[StatusException] != 1 || statusCount[ReadinessGreen] != 2 ||
		statusCount[ReadinessRed] != 1 || statusCount[StatusPending] != 1 {
		t.Errorf("明细状态分布错误: %v", statusCount)
	}
}

// 分母为 0 时完成率取 0 而非 NaN
func TestAggregateTeamZeroActive(t *testing.T) {
	store := newMemStore()
	team := seedTeam(store, "空转组")
	worker := seedWorker(store, "only", team.TeamID, "worker")
	seedException(store, worker.WorkerID, model.ExceptionAccident, "2026-08-01", "")

	svc := NewStatsService(newTestRepos(store), testLogger())
	resp, err := svc.AggregateTeam(context.Background(), team.TeamID, date("2026-08-10"), date("2026-08-10"))
	assertNoError(t, err)

	if resp.Stats.ExpectedCheckIns != 0 {
		t.Errorf("全员例外时分母应为 0，实际 %d", resp.Stats.ExpectedCheckIns)
	}
	if resp.Stats.CompletionRate != 0 {
		t.Errorf("分母为 0 时完成率应为 0，实际 %v", resp.Stats.CompletionRate)
	}
}

func TestAggregateTeamMultiDay(t *testing.T) {
	store := newMemStore()
	team := seedTeam(store, "搬运一组")
	worker := seedWorker(store, "zhangsan", team.TeamID, "worker")
	seedCheckIn(store, worker.WorkerID, team.TeamID, "2026-08-10", ReadinessGreen)
	seedCheckIn(store, worker.WorkerID, team.TeamID, "2026-08-12", ReadinessAmber)

	svc := NewStatsService(newTestRepos(store), testLogger())
	// 3 个工人日，2 次打卡
	resp, err := svc.AggregateTeam(context.Background(), team.TeamID, date("2026-08-10"), date("2026-08-12"))
	assertNoError(t, err)

	if resp.Stats.ExpectedCheckIns != 3 {
		t.Errorf("ExpectedCheckIns = %d, 期望 3", resp.Stats.ExpectedCheckIns)
	}
	if resp.Stats.Completed != 2 || resp.Stats.Pending != 1 {
		t.Errorf("completed=%d pending=%d, 期望 2/1", resp.Stats.Completed, resp.Stats.Pending)
	}
	if resp.Stats.CompletionRate != 66.7 {
		t.Errorf("CompletionRate = %v, 期望 66.7", resp.Stats.CompletionRate)
	}
	if resp.Workers != nil {
		t.Error("多日查询不应附带逐工人明细")
	}
}

func TestAggregateRangeValidation(t *testing.T) {
	store := newMemStore()
	teamID := seedTeamScenario(store)
	svc := NewStatsService(newTestRepos(store), testLogger())
	ctx := context.Background()

	if _, err := svc.AggregateTeam(ctx, teamID, date("2026-08-10"), date("2026-08-01")); !errors.Is(err, ErrStatsRangeInvalid) {
		t.Errorf("起止颠倒应报区间错误，实际 %v", err)
	}
	if _, err := svc.AggregateTeam(ctx, teamID, date("2020-01-01"), date("2026-08-01")); !errors.Is(err, ErrStatsRangeInvalid) {
		t.Errorf("超长区间应报区间错误，实际 %v", err)
	}
	if _, err := svc.AggregateTeam(ctx, "team-nonexistent", date("2026-08-10"), date("2026-08-10")); !errors.Is(err, ErrStatsTeamNotFound) {
		t.Errorf("班组不存在应报错，实际 %v", err)
	}
}

// 主管级完成率按预期打卡数加权，而非各组完成率平均
func TestAggregateSupervisorWeighted(t *testing.T) {
	store := newMemStore()
	supervisor := seedWorker(store, "boss", "team-x", "supervisor")

	// A 组：1 人 1 打卡 → 100%
	teamA := seedTeam(store, "A 组")
	teamA.SupervisorID = &supervisor.WorkerID
	wa := seedWorker(store, "a1", teamA.TeamID, "worker")
	seedCheckIn(store, wa.WorkerID, teamA.TeamID, "2026-08-10", ReadinessGreen)

	// B 组：3 人 1 打卡 → 33.3%
	teamB := seedTeam(store, "B 组")
	teamB.SupervisorID = &supervisor.WorkerID
	wb := seedWorker(store, "b1", teamB.TeamID, "worker")
	seedWorker(store, "b2", teamB.TeamID, "worker")
	seedWorker(store, "b3", teamB.TeamID, "worker")
	seedCheckIn(store, wb.WorkerID, teamB.TeamID, "2026-08-10", ReadinessAmber)

	svc := NewStatsService(newTestRepos(store), testLogger())
	resp, err := svc.AggregateSupervisor(context.Background(), supervisor.WorkerID, date("2026-08-10"), date("2026-08-10"))
	assertNoError(t, err)

	if len(resp.Teams) != 2 {
		t.Fatalf("应覆盖 2 个班组，实际 %d", len(resp.Teams))
	}
	if resp.Stats.ExpectedCheckIns != 4 || resp.Stats.Completed != 2 {
		t.Errorf("汇总分子分母错误: %d/%d", resp.Stats.Completed, resp.Stats.ExpectedCheckIns)
	}
	// 加权结果 2/4=50；简单平均会得到 (100+33.3)/2≈66.7
	if resp.Stats.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, 期望加权后的 50", resp.Stats.CompletionRate)
	}
}

func TestAggregateSupervisorNoTeams(t *testing.T) {
	store := newMemStore()
	svc := NewStatsService(newTestRepos(store), testLogger())

	resp, err := svc.AggregateSupervisor(context.Background(), "nobody", date("2026-08-10"), date("2026-08-10"))
	assertNoError(t, err)
	if resp.Stats.CompletionRate != 0 || resp.Stats.ExpectedCheckIns != 0 {
		t.Errorf("无班组主管应得全零统计: %+v", resp.Stats)
	}
}
