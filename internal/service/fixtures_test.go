package service

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"physioward/backend/internal/model"
)

func testLogger() *zap.Logger { return zap.NewNop() }

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func clock(s string) time.Time {
	d, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func seedTeam(store *memStore, name string) *model.Team {
	team := &model.Team{
		TeamID:   store.nextID("team"),
		Name:     name,
		IsActive: true,
	}
	store.teams[team.TeamID] = team
	return team
}

func seedWorker(store *memStore, name, teamID, role string) *model.Worker {
	worker := &model.Worker{
		WorkerID:   store.nextID("worker"),
		Name:       name,
		EmployeeNo: "E" + name,
		Email:      name + "@example.com",
		Role:       role,
		TeamID:     teamID,
	}
	store.workers[worker.WorkerID] = worker
	return worker
}

// seedSingleSchedule 单日排班
func seedSingleSchedule(store *memStore, workerID, teamID, day, start, end string, createdAt time.Time) *model.ShiftSchedule {
	d := date(day)
	schedule := &model.ShiftSchedule{
		ScheduleID:    store.nextID("schedule"),
		WorkerID:      workerID,
		TeamID:        teamID,
		ScheduledDate: &d,
		StartTime:     start,
		EndTime:       end,
		IsActive:      true,
	}
	schedule.CreatedAt = createdAt
	store.schedules[schedule.ScheduleID] = schedule
	return schedule
}

// seedRecurringSchedule 周期排班，expiry 为空串表示无限期
func seedRecurringSchedule(store *memStore, workerID, teamID string, dayOfWeek int, effective, expiry, start, end string, createdAt time.Time) *model.ShiftSchedule {
	eff := date(effective)
	schedule := &model.ShiftSchedule{
		ScheduleID:    store.nextID("schedule"),
		WorkerID:      workerID,
		TeamID:        teamID,
		DayOfWeek:     &dayOfWeek,
		EffectiveDate: &eff,
		StartTime:     start,
		EndTime:       end,
		IsActive:      true,
	}
	if expiry != "" {
		exp := date(expiry)
		schedule.ExpiryDate = &exp
	}
	schedule.CreatedAt = createdAt
	store.schedules[schedule.ScheduleID] = schedule
	return schedule
}

func seedCheckIn(store *memStore, workerID, teamID, day, readiness string) *model.CheckIn {
	checkIn := &model.CheckIn{
		CheckInID:          store.nextID("checkin"),
		WorkerID:           workerID,
		TeamID:             teamID,
		CheckInDate:        date(day),
		PredictedReadiness: readiness,
		Timeliness:         TimelinessOnTime,
		SubmittedAt:        date(day),
	}
	store.checkIns[checkInKey(workerID, checkIn.CheckInDate)] = checkIn
	return checkIn
}

func seedException(store *memStore, workerID, excType, start, end string) *model.Exception {
	exc := &model.Exception{
		ExceptionID: store.nextID("exception"),
		WorkerID:    workerID,
		Type:        excType,
		StartDate:   date(start),
		IsActive:    true,
	}
	if end != "" {
		ed := date(end)
		exc.EndDate = &ed
	}
	store.exceptions[exc.ExceptionID] = exc
	return exc
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("预期无错误，实际: %v", err)
	}
}
