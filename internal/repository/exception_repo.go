package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"physioward/backend/internal/model"
	pkgerrors "physioward/backend/pkg/errors"
)

// ExceptionRepository 例外数据访问接口
//
// 创建与解除例外的排班停用/恢复（以及 transfer 的班组关系迁移）是跨实体
// 副作用，必须对并发读取者表现为原子：全部封装在单个数据库事务内，
// Service 层不得自行拆分为多次写入。
type ExceptionRepository interface {
	GetByID(ctx context.Context, id string) (*model.Exception, error)
	// GetActiveByWorker 返回工人当前激活的例外（不限日期），无则 gorm.ErrRecordNotFound
	GetActiveByWorker(ctx context.Context, workerID string) (*model.Exception, error)
	// GetActiveByWorkerAndDate 返回指定日期生效的激活例外，无则 gorm.ErrRecordNotFound
	GetActiveByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.Exception, error)
	ListByWorker(ctx context.Context, workerID string) ([]model.Exception, error)
	ListActiveByWorkerIDs(ctx context.Context, workerIDs []string) ([]model.Exception, error)
	// CreateWithSideEffects 单事务：写入例外 + 停用其生效区间内的排班
	// （记录停用来源）+ transfer 时迁移班组关系。返回停用的排班数。
	CreateWithSideEffects(ctx context.Context, exc *model.Exception) (int64, error)
	// RemoveWithSideEffects 单事务：关闭例外 + 恢复因该例外停用的排班。
	// 返回恢复的排班数。
	RemoveWithSideEffects(ctx context.Context, excID string, removedBy string) (int64, error)
	// Lock WHS 审查员锁定例外
	Lock(ctx context.Context, excID, reviewerID string) error
	Update(ctx context.Context, exc *model.Exception) error
}

type exceptionRepo struct {
	db *gorm.DB
}

// NewExceptionRepo 创建 ExceptionRepository 实例
func NewExceptionRepo(db *gorm.DB) ExceptionRepository {
	return &exceptionRepo{db: db}
}

func (r *exceptionRepo) GetByID(ctx context.Context, id string) (*model.Exception, error) {
	var exc model.Exception
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("exception_id = ?", id).
		First(&exc).Error
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (r *exceptionRepo) GetActiveByWorker(ctx context.Context, workerID string) (*model.Exception, error) {
	var exc model.Exception
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND is_active = ?", workerID, true).
		First(&exc).Error
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (r *exceptionRepo) GetActiveByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.Exception, error) {
	var exc model.Exception
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND is_active = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			workerID, true, date, date).
		First(&exc).Error
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (r *exceptionRepo) ListByWorker(ctx context.Context, workerID string) ([]model.Exception, error) {
	var excs []model.Exception
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("start_date DESC").
		Find(&excs).Error
	return excs, err
}

func (r *exceptionRepo) ListActiveByWorkerIDs(ctx context.Context, workerIDs []string) ([]model.Exception, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}
	var excs []model.Exception
	err := r.db.WithContext(ctx).
		Where("worker_id IN ? AND is_active = ?", workerIDs, true).
		Find(&excs).Error
	return excs, err
}

func (r *exceptionRepo) CreateWithSideEffects(ctx context.Context, exc *model.Exception) (int64, error) {
	var deactivated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exc).Error; err != nil {
			return err
		}

		// 停用例外生效区间内的激活排班：
		//   单日排班：scheduled_date 落在 [start_date, end_date|∞]
		//   周期排班：生效区间与例外区间有交集
		overlap := tx.Model(&model.ShiftSchedule{}).
			Where("worker_id = ? AND is_active = ?", exc.WorkerID, true)
		if exc.EndDate != nil {
			overlap = overlap.Where(
				"(scheduled_date IS NOT NULL AND scheduled_date BETWEEN ? AND ?)"+
					" OR (day_of_week IS NOT NULL AND effective_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?))",
				exc.StartDate, *exc.EndDate, *exc.EndDate, exc.StartDate,
			)
		} else {
			overlap = overlap.Where(
				"(scheduled_date IS NOT NULL AND scheduled_date >= ?)"+
					" OR (day_of_week IS NOT NULL AND (expiry_date IS NULL OR expiry_date >= ?))",
				exc.StartDate, exc.StartDate,
			)
		}

		result := overlap.Updates(map[string]interface{}{
			"is_active":                   false,
			"deactivated_by_exception_id": exc.ExceptionID,
		})
		if result.Error != nil {
			return result.Error
		}
		deactivated = result.RowsAffected

		// transfer：迁移班组关系（旧关系停用 → 新关系生效 → 工人归属更新）
		if exc.Type == model.ExceptionTransfer && exc.TargetTeamID != nil {
			now := time.Now()
			if err := tx.Model(&model.TeamMembership{}).
				Where("worker_id = ? AND is_active = ?", exc.WorkerID, true).
				Updates(map[string]interface{}{
					"is_active": false,
					"ended_at":  now,
				}).Error; err != nil {
				return err
			}
			if err := tx.Create(&model.TeamMembership{
				WorkerID:  exc.WorkerID,
				TeamID:    *exc.TargetTeamID,
				IsActive:  true,
				StartedAt: exc.StartDate,
			}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Worker{}).
				Where("worker_id = ?", exc.WorkerID).
				Update("team_id", *exc.TargetTeamID).Error; err != nil {
				return err
			}
		}

		return nil
	})
	return deactivated, err
}

func (r *exceptionRepo) RemoveWithSideEffects(ctx context.Context, excID string, removedBy string) (int64, error) {
	var reactivated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Exception{}).
			Where("exception_id = ? AND is_active = ?", excID, true).
			Updates(map[string]interface{}{
				"is_active":  false,
				"updated_by": removedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// 仅恢复因该例外被停用的排班（其他原因停用的不受影响）
		res := tx.Model(&model.ShiftSchedule{}).
			Where("deactivated_by_exception_id = ?", excID).
			Updates(map[string]interface{}{
				"is_active":                   true,
				"deactivated_by_exception_id": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		reactivated = res.RowsAffected
		return nil
	})
	return reactivated, err
}

func (r *exceptionRepo) Lock(ctx context.Context, excID, reviewerID string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Exception{}).
		Where("exception_id = ? AND is_active = ? AND whs_reviewer_id IS NULL", excID, true).
		Updates(map[string]interface{}{
			"whs_reviewer_id": reviewerID,
			"locked_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *exceptionRepo) Update(ctx context.Context, exc *model.Exception) error {
	oldVersion := exc.Version
	result := r.db.WithContext(ctx).
		Model(exc).
		Where("exception_id = ? AND version = ?", exc.ExceptionID, oldVersion).
		Updates(map[string]interface{}{
			"type":       exc.Type,
			"reason":     exc.Reason,
			"start_date": exc.StartDate,
			"end_date":   exc.EndDate,
			"updated_by": exc.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	exc.Version = oldVersion + 1
	return nil
}
