//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"physioward/backend/internal/model"
	"physioward/backend/pkg/database"
	pkgerrors "physioward/backend/pkg/errors"

	"go.uber.org/zap"
)

// 集成测试需要真实 PostgreSQL：
//
//	PHYSIO_TEST_DSN="host=localhost port=5432 user=postgres dbname=physioward_test sslmode=disable" \
//	go test -tags integration ./internal/repository/
func newIntegrationRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("PHYSIO_TEST_DSN")
	if dsn == "" {
		t.Skip("未设置 PHYSIO_TEST_DSN，跳过集成测试")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("连接数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		t.Fatalf("执行迁移失败: %v", err)
	}

	return NewRepository(db)
}

func seedIntegrationTeamAndWorker(t *testing.T, repo *Repository, suffix string) (*model.Team, *model.Worker) {
	t.Helper()
	ctx := context.Background()

	team := &model.Team{Name: "集成测试班组-" + suffix, IsActive: true}
	if err := repo.Team.Create(ctx, team); err != nil {
		t.Fatalf("创建班组失败: %v", err)
	}

	worker := &model.Worker{
		Name:         "集成测试工人-" + suffix,
		EmployeeNo:   fmt.Sprintf("IT-%s-%d", suffix, time.Now().UnixNano()),
		Email:        fmt.Sprintf("it-%s-%d@example.com", suffix, time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         "worker",
		TeamID:       team.TeamID,
	}
	if err := repo.Worker.Create(ctx, worker); err != nil {
		t.Fatalf("创建工人失败: %v", err)
	}
	return team, worker
}

func TestIntegration_ScheduleLifecycle(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	_, worker := seedIntegrationTeamAndWorker(t, repo, "sched")

	day := 1
	eff := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	schedule := &model.ShiftSchedule{
		WorkerID:      worker.WorkerID,
		TeamID:        worker.TeamID,
		DayOfWeek:     &day,
		EffectiveDate: &eff,
		StartTime:     "07:00",
		EndTime:       "15:00",
		IsActive:      true,
	}
	if err := repo.Schedule.Create(ctx, schedule); err != nil {
		t.Fatalf("创建排班失败: %v", err)
	}

	list, err := repo.Schedule.ListActiveByWorker(ctx, worker.WorkerID, nil, nil)
	if err != nil {
		t.Fatalf("查询排班失败: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望 1 条激活排班，实际 %d", len(list))
	}

	// 乐观锁：过期版本更新必须失败
	stale := list[0]
	stale.Version = stale.Version - 1
	if err := repo.Schedule.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望乐观锁冲突，实际 %v", err)
	}

	if err := repo.Schedule.Delete(ctx, schedule.ScheduleID, worker.WorkerID); err != nil {
		t.Fatalf("删除排班失败: %v", err)
	}
	if _, err := repo.Schedule.GetByID(ctx, schedule.ScheduleID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("软删除后应查不到，实际 %v", err)
	}
}

func TestIntegration_ExceptionSideEffects(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	_, worker := seedIntegrationTeamAndWorker(t, repo, "exc")

	day := 2
	eff := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	schedule := &model.ShiftSchedule{
		WorkerID:      worker.WorkerID,
		TeamID:        worker.TeamID,
		DayOfWeek:     &day,
		EffectiveDate: &eff,
		StartTime:     "07:00",
		EndTime:       "15:00",
		IsActive:      true,
	}
	if err := repo.Schedule.Create(ctx, schedule); err != nil {
		t.Fatalf("创建排班失败: %v", err)
	}

	exc := &model.Exception{
		WorkerID:  worker.WorkerID,
		Type:      model.ExceptionInjury,
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	deactivated, err := repo.Exception.CreateWithSideEffects(ctx, exc)
	if err != nil {
		t.Fatalf("创建例外失败: %v", err)
	}
	if deactivated != 1 {
		t.Errorf("期望停用 1 条排班，实际 %d", deactivated)
	}

	// 同一工人第二条激活例外必须被部分唯一索引拒绝
	second := &model.Exception{
		WorkerID:  worker.WorkerID,
		Type:      model.ExceptionOther,
		StartDate: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	if _, err := repo.Exception.CreateWithSideEffects(ctx, second); err == nil {
		t.Error("同一工人不应允许两条激活例外")
	}

	got, err := repo.Schedule.GetByID(ctx, schedule.ScheduleID)
	if err != nil {
		t.Fatalf("查询排班失败: %v", err)
	}
	if got.IsActive {
		t.Error("排班应已被例外停用")
	}
	if got.DeactivatedByExceptionID == nil || *got.DeactivatedByExceptionID != exc.ExceptionID {
		t.Error("排班应记录停用它的例外 ID")
	}

	reactivated, err := repo.Exception.RemoveWithSideEffects(ctx, exc.ExceptionID, worker.WorkerID)
	if err != nil {
		t.Fatalf("解除例外失败: %v", err)
	}
	if reactivated != 1 {
		t.Errorf("期望恢复 1 条排班，实际 %d", reactivated)
	}

	got, err = repo.Schedule.GetByID(ctx, schedule.ScheduleID)
	if err != nil {
		t.Fatalf("查询排班失败: %v", err)
	}
	if !got.IsActive || got.DeactivatedByExceptionID != nil {
		t.Error("解除例外后排班应恢复激活且清除标记")
	}
}

func TestIntegration_ExceptionLockGuard(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	_, worker := seedIntegrationTeamAndWorker(t, repo, "lock")

	exc := &model.Exception{
		WorkerID:  worker.WorkerID,
		Type:      model.ExceptionMedicalLeave,
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	if _, err := repo.Exception.CreateWithSideEffects(ctx, exc); err != nil {
		t.Fatalf("创建例外失败: %v", err)
	}

	_, reviewer := seedIntegrationTeamAndWorker(t, repo, "whs")
	if err := repo.Exception.Lock(ctx, exc.ExceptionID, reviewer.WorkerID); err != nil {
		t.Fatalf("首次锁定失败: %v", err)
	}

	// 重复锁定必须冲突
	if err := repo.Exception.Lock(ctx, exc.ExceptionID, reviewer.WorkerID); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("重复锁定期望冲突，实际 %v", err)
	}

	got, err := repo.Exception.GetByID(ctx, exc.ExceptionID)
	if err != nil {
		t.Fatalf("查询例外失败: %v", err)
	}
	if !got.IsLocked() || *got.WHSReviewerID != reviewer.WorkerID {
		t.Error("例外应记录锁定它的审查员")
	}
}

func TestIntegration_CheckInDuplicate(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	_, worker := seedIntegrationTeamAndWorker(t, repo, "checkin")

	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	checkIn := &model.CheckIn{
		WorkerID:           worker.WorkerID,
		TeamID:             worker.TeamID,
		CheckInDate:        date,
		PainLevel:          2,
		FatigueLevel:       3,
		StressLevel:        1,
		SleepQuality:       8,
		PredictedReadiness: "green",
		Timeliness:         "on_time",
		SubmittedAt:        time.Now(),
	}
	if err := repo.CheckIn.Create(ctx, checkIn); err != nil {
		t.Fatalf("创建打卡失败: %v", err)
	}

	dup := *checkIn
	dup.CheckInID = ""
	if err := repo.CheckIn.Create(ctx, &dup); err == nil {
		t.Error("同一工人同一天不应允许两条打卡")
	}

	got, err := repo.CheckIn.GetByWorkerAndDate(ctx, worker.WorkerID, date)
	if err != nil {
		t.Fatalf("查询打卡失败: %v", err)
	}
	if got.PredictedReadiness != "green" {
		t.Errorf("期望 green，实际 %s", got.PredictedReadiness)
	}
}
