package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"physioward/backend/internal/model"
)

// CheckInRepository 打卡数据访问接口
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *model.CheckIn) error
	// GetByWorkerAndDate 返回工人指定日期的打卡记录，无则 gorm.ErrRecordNotFound
	GetByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.CheckIn, error)
	ListByWorkerAndRange(ctx context.Context, workerID string, from, to time.Time) ([]model.CheckIn, error)
	ListByWorkerIDsAndRange(ctx context.Context, workerIDs []string, from, to time.Time) ([]model.CheckIn, error)
}

type checkInRepo struct {
	db *gorm.DB
}

// NewCheckInRepo 创建 CheckInRepository 实例
func NewCheckInRepo(db *gorm.DB) CheckInRepository {
	return &checkInRepo{db: db}
}

func (r *checkInRepo) Create(ctx context.Context, checkIn *model.CheckIn) error {
	return r.db.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepo) GetByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND check_in_date = ?", workerID, date).
		First(&checkIn).Error
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *checkInRepo) ListByWorkerAndRange(ctx context.Context, workerID string, from, to time.Time) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND check_in_date BETWEEN ? AND ?", workerID, from, to).
		Order("check_in_date DESC").
		Find(&checkIns).Error
	return checkIns, err
}

func (r *checkInRepo) ListByWorkerIDsAndRange(ctx context.Context, workerIDs []string, from, to time.Time) ([]model.CheckIn, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}
	var checkIns []model.CheckIn
	err := r.db.WithContext(ctx).
		Where("worker_id IN ? AND check_in_date BETWEEN ? AND ?", workerIDs, from, to).
		Find(&checkIns).Error
	return checkIns, err
}
