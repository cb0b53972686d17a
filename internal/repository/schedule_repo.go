package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"physioward/backend/internal/model"
	pkgerrors "physioward/backend/pkg/errors"
)

// ScheduleRepository 排班数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.ShiftSchedule) error
	GetByID(ctx context.Context, id string) (*model.ShiftSchedule, error)
	// ListActiveByWorker 查询工人在 [from, to] 范围内可能生效的激活排班。
	// from/to 为空时返回全部激活排班。周期排班按生效区间与查询区间求交。
	ListActiveByWorker(ctx context.Context, workerID string, from, to *time.Time) ([]model.ShiftSchedule, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.ShiftSchedule, error)
	Update(ctx context.Context, schedule *model.ShiftSchedule) error
	// ReplaceForWorker 全量替换某工人的排班（用于 roster 导入），单事务执行
	ReplaceForWorker(ctx context.Context, workerID string, schedules []model.ShiftSchedule) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, schedule *model.ShiftSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.ShiftSchedule, error) {
	var schedule model.ShiftSchedule
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) ListActiveByWorker(ctx context.Context, workerID string, from, to *time.Time) ([]model.ShiftSchedule, error) {
	var schedules []model.ShiftSchedule
	q := r.db.WithContext(ctx).
		Where("worker_id = ? AND is_active = ?", workerID, true)

	if from != nil && to != nil {
		q = q.Where(
			"(scheduled_date IS NOT NULL AND scheduled_date BETWEEN ? AND ?)"+
				" OR (day_of_week IS NOT NULL AND effective_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?))",
			*from, *to, *to, *from,
		)
	}

	err := q.Order("created_at DESC, schedule_id DESC").Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) ListByTeam(ctx context.Context, teamID string) ([]model.ShiftSchedule, error) {
	var schedules []model.ShiftSchedule
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) Update(ctx context.Context, schedule *model.ShiftSchedule) error {
	oldVersion := schedule.Version
	result := r.db.WithContext(ctx).
		Model(schedule).
		Where("schedule_id = ? AND version = ?", schedule.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"scheduled_date":        schedule.ScheduledDate,
			"day_of_week":           schedule.DayOfWeek,
			"effective_date":        schedule.EffectiveDate,
			"expiry_date":           schedule.ExpiryDate,
			"start_time":            schedule.StartTime,
			"end_time":              schedule.EndTime,
			"custom_window_start":   schedule.CustomWindowStart,
			"custom_window_end":     schedule.CustomWindowEnd,
			"requires_daily_window": schedule.RequiresDailyWindow,
			"daily_window_start":    schedule.DailyWindowStart,
			"daily_window_end":      schedule.DailyWindowEnd,
			"is_active":             schedule.IsActive,
			"updated_by":            schedule.UpdatedBy,
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version = oldVersion + 1
	return nil
}

func (r *scheduleRepo) ReplaceForWorker(ctx context.Context, workerID string, schedules []model.ShiftSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worker_id = ?", workerID).
			Delete(&model.ShiftSchedule{}).Error; err != nil {
			return err
		}
		if len(schedules) == 0 {
			return nil
		}
		return tx.Create(&schedules).Error
	})
}

func (r *scheduleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ShiftSchedule{}).
		Where("schedule_id = ?", id).
		Update("deleted_by", deletedBy).
		Delete(&model.ShiftSchedule{}, "schedule_id = ?", id).Error
}
