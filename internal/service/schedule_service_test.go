package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"physioward/backend/internal/dto"
)

func newScheduleFixture(t *testing.T) (*memStore, ScheduleService, string, string) {
	t.Helper()
	store := newMemStore()
	team := seedTeam(store, "搬运一组")
	worker := seedWorker(store, "zhangsan", team.TeamID, "worker")
	svc := NewScheduleService(newTestRepos(store), testLogger())
	return store, svc, worker.WorkerID, team.TeamID
}

// 单日排班优先于周期排班
func TestResolveSingleDateBeatsRecurring(t *testing.T) {
	store, svc, workerID, teamID := newScheduleFixture(t)
	ctx := context.Background()

	// 周期排班先建，单日排班后建（创建顺序不应影响优先级）
	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	seedRecurringSchedule(store, workerID, teamID, 1, "2026-08-03", "", "07:00", "15:00", base.Add(time.Hour))
	single := seedSingleSchedule(store, workerID, teamID, "2026-08-10", "13:00", "21:00", base)

	got, err := svc.Resolve(ctx, workerID, date("2026-08-10")) // 周一
	assertNoError(t, err)
	if got == nil || got.ScheduleID != single.ScheduleID {
		t.Fatalf("单日排班应优先于周期排班，实际命中 %+v", got)
	}
}

// 周期排班按星期匹配，生效区间为闭区间
func TestResolveRecurringBounds(t *testing.T) {
	store, svc, workerID, teamID := newScheduleFixture(t)
	ctx := context.Background()

	// 周一班，2026-08-03 ~ 2026-08-24
	seedRecurringSchedule(store, workerID, teamID, 1, "2026-08-03", "2026-08-24", "07:00", "15:00", time.Now())

	cases := []struct {
		day  string
		want bool
	}{
		{"2026-08-03", true},  // 生效首日（周一）
		{"2026-08-10", true},  // 区间内周一
		{"2026-08-24", true},  // 失效日当天仍生效（闭区间）
		{"2026-08-31", false}, // 失效后的周一
		{"2026-07-27", false}, // 生效前的周一
		{"2026-08-11", false}, // 区间内但不是周一
	}
	for _, c := range cases {
		got, err := svc.Resolve(ctx, workerID, date(c.day))
		assertNoError(t, err)
		if (got != nil) != c.want {
			t.Errorf("Resolve(%s) 命中=%v, 期望 %v", c.day, got != nil, c.want)
		}
	}
}

// 无排班不是错误：返回弹性模式
func TestResolveNoScheduleFlexible(t *testing.T) {
	_, svc, workerID, _ := newScheduleFixture(t)
	ctx := context.Background()

	got, err := svc.Resolve(ctx, workerID, date("2026-08-10"))
	assertNoError(t, err)
	if got != nil {
		t.Fatalf("无排班应返回 nil，实际 %+v", got)
	}

	resolved, err := svc.ResolveWindow(ctx, workerID, date("2026-08-10"))
	assertNoError(t, err)
	if !resolved.Flexible {
		t.Error("无排班应标记 flexible")
	}
	if resolved.Window.ShiftType != ShiftFlexible {
		t.Errorf("弹性窗口类型错误: %q", resolved.Window.ShiftType)
	}
	if resolved.Window.RecommendedStart != "05:00" || resolved.Window.RecommendedEnd != "23:00" {
		t.Errorf("弹性全天窗口错误: %s-%s", resolved.Window.RecommendedStart, resolved.Window.RecommendedEnd)
	}
}

// 同优先级冲突：最近创建的一条胜出，且结果可复现
func TestResolveTieBreakLatestCreated(t *testing.T) {
	store, svc, workerID, teamID := newScheduleFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	seedRecurringSchedule(store, workerID, teamID, 1, "2026-08-03", "", "07:00", "15:00", base)
	newer := seedRecurringSchedule(store, workerID, teamID, 1, "2026-08-03", "", "13:00", "21:00", base.Add(time.Hour))

	for i := 0; i < 5; i++ {
		got, err := svc.Resolve(ctx, workerID, date("2026-08-10"))
		assertNoError(t, err)
		if got == nil || got.ScheduleID != newer.ScheduleID {
			t.Fatalf("冲突应取最近创建的排班 %s，实际 %+v", newer.ScheduleID, got)
		}
	}
}

func TestCreateScheduleVariantValidation(t *testing.T) {
	_, svc, workerID, _ := newScheduleFixture(t)
	ctx := context.Background()

	// 两种变体同时给
	_, err := svc.Create(ctx, &dto.CreateScheduleRequest{
		WorkerID:      workerID,
		ScheduledDate: strPtr("2026-08-10"),
		DayOfWeek:     intPtr(1),
		EffectiveDate: strPtr("2026-08-03"),
		StartTime:     "07:00",
		EndTime:       "15:00",
	}, "op-1")
	if !errors.Is(err, ErrScheduleVariantInvalid) {
		t.Errorf("单日+周期同时给应报变体错误，实际 %v", err)
	}

	// 两种变体都不给
	_, err = svc.Create(ctx, &dto.CreateScheduleRequest{
		WorkerID:  workerID,
		StartTime: "07:00",
		EndTime:   "15:00",
	}, "op-1")
	if !errors.Is(err, ErrScheduleVariantInvalid) {
		t.Errorf("无变体字段应报变体错误，实际 %v", err)
	}

	// 周期排班缺生效日期
	_, err = svc.Create(ctx, &dto.CreateScheduleRequest{
		WorkerID:  workerID,
		DayOfWeek: intPtr(1),
		StartTime: "07:00",
		EndTime:   "15:00",
	}, "op-1")
	if !errors.Is(err, ErrScheduleVariantInvalid) {
		t.Errorf("周期排班缺生效日期应报变体错误，实际 %v", err)
	}

	// 时间格式非法
	_, err = svc.Create(ctx, &dto.CreateScheduleRequest{
		WorkerID:      workerID,
		ScheduledDate: strPtr("2026-08-10"),
		StartTime:     "25:00",
		EndTime:       "15:00",
	}, "op-1")
	if !errors.Is(err, ErrScheduleTimeInvalid) {
		t.Errorf("非法时间应报错，实际 %v", err)
	}

	// 失效早于生效
	_, err = svc.Create(ctx, &dto.CreateScheduleRequest{
		WorkerID:      workerID,
		DayOfWeek:     intPtr(1),
		EffectiveDate: strPtr("2026-08-03"),
		ExpiryDate:    strPtr("2026-07-01"),
		StartTime:     "07:00",
		EndTime:       "15:00",
	}, "op-1")
	if !errors.Is(err, ErrScheduleRangeInvalid) {
		t.Errorf("失效早于生效应报区间错误，实际 %v", err)
	}
}

func TestCreateScheduleAndResolve(t *testing.T) {
	_, svc, workerID, _ := newScheduleFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateScheduleRequest{
		WorkerID:      workerID,
		DayOfWeek:     intPtr(3), // 周三
		EffectiveDate: strPtr("2026-08-01"),
		StartTime:     "07:00",
		EndTime:       "15:00",
	}, "op-1")
	assertNoError(t, err)
	if created.DayOfWeek == nil || *created.DayOfWeek != 3 {
		t.Fatalf("创建结果星期错误: %+v", created)
	}

	got, err := svc.Resolve(ctx, workerID, date("2026-08-05")) // 周三
	assertNoError(t, err)
	if got == nil || got.ScheduleID != created.ID {
		t.Fatalf("创建后应可解析到该排班，实际 %+v", got)
	}
}
