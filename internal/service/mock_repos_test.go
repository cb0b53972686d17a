package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"physioward/backend/internal/model"
	"physioward/backend/internal/repository"
	pkgerrors "physioward/backend/pkg/errors"
)

// 内存版 Repository 实现，测试专用。
// 行为与 PostgreSQL 实现保持一致：未命中返回 gorm.ErrRecordNotFound，
// 例外副作用在"同一事务"里完成（内存版即同步完成）。

type memStore struct {
	seq         int
	workers     map[string]*model.Worker
	teams       map[string]*model.Team
	memberships []*model.TeamMembership
	schedules   map[string]*model.ShiftSchedule
	exceptions  map[string]*model.Exception
	checkIns    map[string]*model.CheckIn
	sysConfig   *model.SystemConfig
}

func newMemStore() *memStore {
	return &memStore{
		workers:    make(map[string]*model.Worker),
		teams:      make(map[string]*model.Team),
		schedules:  make(map[string]*model.ShiftSchedule),
		exceptions: make(map[string]*model.Exception),
		checkIns:   make(map[string]*model.CheckIn),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%04d", prefix, m.seq)
}

func newTestRepos(store *memStore) *repository.Repository {
	return &repository.Repository{
		Worker:       &memWorkerRepo{store},
		Team:         &memTeamRepo{store},
		Membership:   &memMembershipRepo{store},
		Schedule:     &memScheduleRepo{store},
		Exception:    &memExceptionRepo{store},
		CheckIn:      &memCheckInRepo{store},
		SystemConfig: &memSystemConfigRepo{store},
	}
}

// ── Worker ──

type memWorkerRepo struct{ s *memStore }

func (r *memWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	if worker.WorkerID == "" {
		worker.WorkerID = r.s.nextID("worker")
	}
	worker.CreatedAt = time.Now()
	r.s.workers[worker.WorkerID] = worker
	return nil
}

func (r *memWorkerRepo) GetByID(_ context.Context, id string) (*model.Worker, error) {
	worker, ok := r.s.workers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *worker
	if team, ok := r.s.teams[worker.TeamID]; ok {
		teamCopy := *team
		copied.Team = &teamCopy
	}
	return &copied, nil
}

func (r *memWorkerRepo) GetByEmployeeNo(_ context.Context, employeeNo string) (*model.Worker, error) {
	for _, worker := range r.s.workers {
		if worker.EmployeeNo == employeeNo {
			copied := *worker
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memWorkerRepo) ListByTeam(_ context.Context, teamID string) ([]model.Worker, error) {
	var workers []model.Worker
	for _, worker := range r.s.workers {
		if worker.TeamID == teamID {
			workers = append(workers, *worker)
		}
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].Name < workers[j].Name })
	return workers, nil
}

func (r *memWorkerRepo) Update(_ context.Context, worker *model.Worker) error {
	existing, ok := r.s.workers[worker.WorkerID]
	if !ok || existing.Version != worker.Version {
		return pkgerrors.ErrOptimisticLock
	}
	copied := *worker
	copied.Version++
	r.s.workers[worker.WorkerID] = &copied
	worker.Version++
	return nil
}

func (r *memWorkerRepo) UpdatePassword(_ context.Context, id, passwordHash string, mustChange bool) error {
	worker, ok := r.s.workers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	worker.PasswordHash = passwordHash
	worker.MustChangePassword = mustChange
	return nil
}

func (r *memWorkerRepo) Delete(_ context.Context, id string, _ string) error {
	delete(r.s.workers, id)
	return nil
}

// ── Team ──

type memTeamRepo struct{ s *memStore }

func (r *memTeamRepo) Create(_ context.Context, team *model.Team) error {
	if team.TeamID == "" {
		team.TeamID = r.s.nextID("team")
	}
	r.s.teams[team.TeamID] = team
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id string) (*model.Team, error) {
	team, ok := r.s.teams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *memTeamRepo) List(_ context.Context, includeInactive bool) ([]model.Team, error) {
	var teams []model.Team
	for _, team := range r.s.teams {
		if includeInactive || team.IsActive {
			teams = append(teams, *team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (r *memTeamRepo) ListBySupervisor(_ context.Context, supervisorID string) ([]model.Team, error) {
	var teams []model.Team
	for _, team := range r.s.teams {
		if team.IsActive && team.SupervisorID != nil && *team.SupervisorID == supervisorID {
			teams = append(teams, *team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (r *memTeamRepo) Update(_ context.Context, team *model.Team) error {
	if _, ok := r.s.teams[team.TeamID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *team
	r.s.teams[team.TeamID] = &copied
	return nil
}

func (r *memTeamRepo) Delete(_ context.Context, id string, _ string) error {
	delete(r.s.teams, id)
	return nil
}

// ── TeamMembership ──

type memMembershipRepo struct{ s *memStore }

func (r *memMembershipRepo) Create(_ context.Context, membership *model.TeamMembership) error {
	if membership.MembershipID == "" {
		membership.MembershipID = r.s.nextID("membership")
	}
	r.s.memberships = append(r.s.memberships, membership)
	return nil
}

func (r *memMembershipRepo) GetActiveByWorker(_ context.Context, workerID string) (*model.TeamMembership, error) {
	for _, membership := range r.s.memberships {
		if membership.WorkerID == workerID && membership.IsActive {
			copied := *membership
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMembershipRepo) ListByWorker(_ context.Context, workerID string) ([]model.TeamMembership, error) {
	var memberships []model.TeamMembership
	for _, membership := range r.s.memberships {
		if membership.WorkerID == workerID {
			memberships = append(memberships, *membership)
		}
	}
	return memberships, nil
}

// ── Schedule ──

type memScheduleRepo struct{ s *memStore }

func (r *memScheduleRepo) Create(_ context.Context, schedule *model.ShiftSchedule) error {
	if schedule.ScheduleID == "" {
		schedule.ScheduleID = r.s.nextID("schedule")
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now()
	}
	r.s.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (r *memScheduleRepo) GetByID(_ context.Context, id string) (*model.ShiftSchedule, error) {
	schedule, ok := r.s.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (r *memScheduleRepo) ListActiveByWorker(_ context.Context, workerID string, _, _ *time.Time) ([]model.ShiftSchedule, error) {
	var schedules []model.ShiftSchedule
	for _, schedule := range r.s.schedules {
		if schedule.WorkerID == workerID && schedule.IsActive {
			schedules = append(schedules, *schedule)
		}
	}
	// 与 SQL 实现一致：created_at 降序、schedule_id 降序
	sort.Slice(schedules, func(i, j int) bool {
		if !schedules[i].CreatedAt.Equal(schedules[j].CreatedAt) {
			return schedules[i].CreatedAt.After(schedules[j].CreatedAt)
		}
		return schedules[i].ScheduleID > schedules[j].ScheduleID
	})
	return schedules, nil
}

func (r *memScheduleRepo) ListByTeam(_ context.Context, teamID string) ([]model.ShiftSchedule, error) {
	var schedules []model.ShiftSchedule
	for _, schedule := range r.s.schedules {
		if schedule.TeamID == teamID {
			schedules = append(schedules, *schedule)
		}
	}
	return schedules, nil
}

func (r *memScheduleRepo) Update(_ context.Context, schedule *model.ShiftSchedule) error {
	existing, ok := r.s.schedules[schedule.ScheduleID]
	if !ok || existing.Version != schedule.Version {
		return pkgerrors.ErrOptimisticLock
	}
	copied := *schedule
	copied.Version++
	r.s.schedules[schedule.ScheduleID] = &copied
	schedule.Version++
	return nil
}

func (r *memScheduleRepo) ReplaceForWorker(ctx context.Context, workerID string, schedules []model.ShiftSchedule) error {
	for id, schedule := range r.s.schedules {
		if schedule.WorkerID == workerID {
			delete(r.s.schedules, id)
		}
	}
	for i := range schedules {
		if err := r.Create(ctx, &schedules[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memScheduleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(r.s.schedules, id)
	return nil
}

// ── Exception ──

type memExceptionRepo struct{ s *memStore }

func (r *memExceptionRepo) GetByID(_ context.Context, id string) (*model.Exception, error) {
	exc, ok := r.s.exceptions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *exc
	return &copied, nil
}

func (r *memExceptionRepo) GetActiveByWorker(_ context.Context, workerID string) (*model.Exception, error) {
	for _, exc := range r.s.exceptions {
		if exc.WorkerID == workerID && exc.IsActive {
			copied := *exc
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memExceptionRepo) GetActiveByWorkerAndDate(_ context.Context, workerID string, date time.Time) (*model.Exception, error) {
	for _, exc := range r.s.exceptions {
		if exc.WorkerID == workerID && exc.CoversDate(date) {
			copied := *exc
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memExceptionRepo) ListByWorker(_ context.Context, workerID string) ([]model.Exception, error) {
	var excs []model.Exception
	for _, exc := range r.s.exceptions {
		if exc.WorkerID == workerID {
			excs = append(excs, *exc)
		}
	}
	return excs, nil
}

func (r *memExceptionRepo) ListActiveByWorkerIDs(_ context.Context, workerIDs []string) ([]model.Exception, error) {
	ids := make(map[string]bool, len(workerIDs))
	for _, id := range workerIDs {
		ids[id] = true
	}
	var excs []model.Exception
	for _, exc := range r.s.exceptions {
		if exc.IsActive && ids[exc.WorkerID] {
			excs = append(excs, *exc)
		}
	}
	return excs, nil
}

func (r *memExceptionRepo) CreateWithSideEffects(_ context.Context, exc *model.Exception) (int64, error) {
	if exc.ExceptionID == "" {
		exc.ExceptionID = r.s.nextID("exception")
	}
	stored := *exc
	r.s.exceptions[exc.ExceptionID] = &stored

	// 停用区间内的激活排班
	var deactivated int64
	for _, schedule := range r.s.schedules {
		if schedule.WorkerID != exc.WorkerID || !schedule.IsActive {
			continue
		}
		if !scheduleOverlapsRange(schedule, exc.StartDate, exc.EndDate) {
			continue
		}
		schedule.IsActive = false
		id := exc.ExceptionID
		schedule.DeactivatedByExceptionID = &id
		deactivated++
	}

	// transfer：迁移班组
	if exc.Type == model.ExceptionTransfer && exc.TargetTeamID != nil {
		now := time.Now()
		for _, membership := range r.s.memberships {
			if membership.WorkerID == exc.WorkerID && membership.IsActive {
				membership.IsActive = false
				membership.EndedAt = &now
			}
		}
		r.s.memberships = append(r.s.memberships, &model.TeamMembership{
			MembershipID: r.s.nextID("membership"),
			WorkerID:     exc.WorkerID,
			TeamID:       *exc.TargetTeamID,
			IsActive:     true,
			StartedAt:    exc.StartDate,
		})
		if worker, ok := r.s.workers[exc.WorkerID]; ok {
			worker.TeamID = *exc.TargetTeamID
		}
	}

	return deactivated, nil
}

func (r *memExceptionRepo) RemoveWithSideEffects(_ context.Context, excID string, removedBy string) (int64, error) {
	exc, ok := r.s.exceptions[excID]
	if !ok || !exc.IsActive {
		return 0, gorm.ErrRecordNotFound
	}
	exc.IsActive = false
	exc.UpdatedBy = &removedBy

	var reactivated int64
	for _, schedule := range r.s.schedules {
		if schedule.DeactivatedByExceptionID != nil && *schedule.DeactivatedByExceptionID == excID {
			schedule.IsActive = true
			schedule.DeactivatedByExceptionID = nil
			reactivated++
		}
	}
	return reactivated, nil
}

func (r *memExceptionRepo) Lock(_ context.Context, excID, reviewerID string) error {
	exc, ok := r.s.exceptions[excID]
	if !ok || !exc.IsActive || exc.WHSReviewerID != nil {
		return pkgerrors.ErrOptimisticLock
	}
	now := time.Now()
	exc.WHSReviewerID = &reviewerID
	exc.LockedAt = &now
	return nil
}

func (r *memExceptionRepo) Update(_ context.Context, exc *model.Exception) error {
	existing, ok := r.s.exceptions[exc.ExceptionID]
	if !ok || existing.Version != exc.Version {
		return pkgerrors.ErrOptimisticLock
	}
	copied := *exc
	copied.Version++
	r.s.exceptions[exc.ExceptionID] = &copied
	exc.Version++
	return nil
}

// scheduleOverlapsRange 排班与例外区间是否有交集，口径与 SQL 实现一致
func scheduleOverlapsRange(schedule *model.ShiftSchedule, start time.Time, end *time.Time) bool {
	if schedule.IsSingleDate() {
		d := dateOnly(*schedule.ScheduledDate)
		if d.Before(dateOnly(start)) {
			return false
		}
		return end == nil || !d.After(dateOnly(*end))
	}
	if schedule.IsRecurring() {
		if end != nil && schedule.EffectiveDate != nil && dateOnly(*schedule.EffectiveDate).After(dateOnly(*end)) {
			return false
		}
		if schedule.ExpiryDate != nil && dateOnly(*schedule.ExpiryDate).Before(dateOnly(start)) {
			return false
		}
		return true
	}
	return false
}

// ── CheckIn ──

type memCheckInRepo struct{ s *memStore }

func checkInKey(workerID string, date time.Time) string {
	return workerID + "@" + date.Format("2006-01-02")
}

func (r *memCheckInRepo) Create(_ context.Context, checkIn *model.CheckIn) error {
	if checkIn.CheckInID == "" {
		checkIn.CheckInID = r.s.nextID("checkin")
	}
	key := checkInKey(checkIn.WorkerID, checkIn.CheckInDate)
	if _, exists := r.s.checkIns[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.s.checkIns[key] = checkIn
	return nil
}

func (r *memCheckInRepo) GetByWorkerAndDate(_ context.Context, workerID string, date time.Time) (*model.CheckIn, error) {
	checkIn, ok := r.s.checkIns[checkInKey(workerID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *checkIn
	return &copied, nil
}

func (r *memCheckInRepo) ListByWorkerAndRange(_ context.Context, workerID string, from, to time.Time) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	for _, checkIn := range r.s.checkIns {
		if checkIn.WorkerID != workerID {
			continue
		}
		d := dateOnly(checkIn.CheckInDate)
		if !d.Before(dateOnly(from)) && !d.After(dateOnly(to)) {
			checkIns = append(checkIns, *checkIn)
		}
	}
	return checkIns, nil
}

func (r *memCheckInRepo) ListByWorkerIDsAndRange(_ context.Context, workerIDs []string, from, to time.Time) ([]model.CheckIn, error) {
	ids := make(map[string]bool, len(workerIDs))
	for _, id := range workerIDs {
		ids[id] = true
	}
	var checkIns []model.CheckIn
	for _, checkIn := range r.s.checkIns {
		if !ids[checkIn.WorkerID] {
			continue
		}
		d := dateOnly(checkIn.CheckInDate)
		if !d.Before(dateOnly(from)) && !d.After(dateOnly(to)) {
			checkIns = append(checkIns, *checkIn)
		}
	}
	return checkIns, nil
}

// ── SystemConfig ──

type memSystemConfigRepo struct{ s *memStore }

func (r *memSystemConfigRepo) Get(_ context.Context) (*model.SystemConfig, error) {
	if r.s.sysConfig == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r.s.sysConfig
	return &copied, nil
}

func (r *memSystemConfigRepo) Update(_ context.Context, cfg *model.SystemConfig) error {
	copied := *cfg
	r.s.sysConfig = &copied
	return nil
}
