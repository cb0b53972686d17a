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
	pkgerrors "physioward/backend/pkg/errors"
)

// 例外模块业务错误
var (
	ErrExceptionNotFound           = errors.New("例外不存在")
	ErrExceptionWorkerNotFound     = errors.New("工人不存在")
	ErrExceptionAlreadyActive      = errors.New("该工人已存在激活中的例外")
	ErrExceptionLocked             = errors.New("例外已被 WHS 审查员锁定，解锁前不可修改或解除")
	ErrExceptionAlreadyLocked      = errors.New("例外已被锁定或已解除")
	ErrExceptionInactive           = errors.New("例外已解除")
	ErrExceptionDateInvalid        = errors.New("例外日期无效")
	ErrExceptionTargetTeamRequired = errors.New("transfer 例外必须指定目标班组")
	ErrExceptionTargetTeamNotFound = errors.New("目标班组不存在")
)

// ExceptionService 例外服务接口
//
// 生命周期：none → active →（可选 locked）→ none。
// 创建即生效并停用区间内排班；解除恢复恰好这些排班并汇报数量；
// 锁定后创建者的修改/解除一律拒绝，只有锁定它的审查员可以操作。
type ExceptionService interface {
	Create(ctx context.Context, req *dto.CreateExceptionRequest, operatorID string) (*dto.CreateExceptionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateExceptionRequest, operatorID string) (*dto.ExceptionResponse, error)
	// Remove 解除例外并恢复因它停用的排班
	Remove(ctx context.Context, id string, operatorID string) (*dto.RemoveExceptionResponse, error)
	// Lock WHS 审查员锁定例外
	Lock(ctx context.Context, id string, reviewerID string) (*dto.ExceptionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ExceptionResponse, error)
	// GetActiveByWorker 返回工人当前激活例外，无则 (nil, nil)
	GetActiveByWorker(ctx context.Context, workerID string) (*dto.ExceptionResponse, error)
	ListByWorker(ctx context.Context, workerID string) ([]dto.ExceptionResponse, error)
}

type exceptionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExceptionService 创建例外服务实例
func NewExceptionService(repo *repository.Repository, logger *zap.Logger) ExceptionService {
	return &exceptionService{repo: repo, logger: logger}
}

func (s *exceptionService) Create(ctx context.Context, req *dto.CreateExceptionRequest, operatorID string) (*dto.CreateExceptionResponse, error) {
	// 1. 解析并校验日期区间
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrExceptionDateInvalid
	}
	var endDate *time.Time
	if req.EndDate != nil {
		ed, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrExceptionDateInvalid
		}
		if ed.Before(startDate) {
			return nil, ErrExceptionDateInvalid
		}
		endDate = &ed
	}

	// 2. transfer 必须带有效目标班组
	if req.Type == model.ExceptionTransfer {
		if req.TargetTeamID == nil {
			return nil, ErrExceptionTargetTeamRequired
		}
		if _, err := s.repo.Team.GetByID(ctx, *req.TargetTeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrExceptionTargetTeamNotFound
			}
			return nil, err
		}
	}

	// 3. 校验工人存在
	if _, err := s.repo.Worker.GetByID(ctx, req.WorkerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExceptionWorkerNotFound
		}
		return nil, err
	}

	// 4. 每名工人同一时刻只允许一条激活例外
	if _, err := s.repo.Exception.GetActiveByWorker(ctx, req.WorkerID); err == nil {
		return nil, ErrExceptionAlreadyActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	exc := &model.Exception{
		WorkerID:     req.WorkerID,
		Type:         req.Type,
		Reason:       req.Reason,
		StartDate:    startDate,
		EndDate:      endDate,
		IsActive:     true,
		TargetTeamID: req.TargetTeamID,
	}
	exc.CreatedBy = &operatorID

	// 5. 单事务落库：例外 + 排班停用 +（transfer）班组迁移
	deactivated, err := s.repo.Exception.CreateWithSideEffects(ctx, exc)
	if err != nil {
		s.logger.Error("创建例外失败", zap.String("worker_id", req.WorkerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("例外已创建",
		zap.String("exception_id", exc.ExceptionID),
		zap.String("worker_id", exc.WorkerID),
		zap.String("type", exc.Type),
		zap.Int64("deactivated_schedules", deactivated))

	return &dto.CreateExceptionResponse{
		Exception:            toExceptionResponse(exc),
		DeactivatedSchedules: deactivated,
	}, nil
}

func (s *exceptionService) Update(ctx context.Context, id string, req *dto.UpdateExceptionRequest, operatorID string) (*dto.ExceptionResponse, error) {
	exc, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exc.IsActive {
		return nil, ErrExceptionInactive
	}
	// 锁定后仅锁定它的审查员可修改
	if exc.IsLocked() && *exc.WHSReviewerID != operatorID {
		return nil, ErrExceptionLocked
	}

	if req.Reason != nil {
		exc.Reason = *req.Reason
	}
	if req.StartDate != nil {
		sd, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, ErrExceptionDateInvalid
		}
		exc.StartDate = sd
	}
	if req.EndDate != nil {
		ed, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrExceptionDateInvalid
		}
		exc.EndDate = &ed
	}
	if exc.EndDate != nil && exc.EndDate.Before(exc.StartDate) {
		return nil, ErrExceptionDateInvalid
	}
	exc.UpdatedBy = &operatorID

	if err := s.repo.Exception.Update(ctx, exc); err != nil {
		s.logger.Error("更新例外失败", zap.String("exception_id", id), zap.Error(err))
		return nil, err
	}

	resp := toExceptionResponse(exc)
	return &resp, nil
}

func (s *exceptionService) Remove(ctx context.Context, id string, operatorID string) (*dto.RemoveExceptionResponse, error) {
	exc, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exc.IsActive {
		return nil, ErrExceptionInactive
	}
	if exc.IsLocked() && *exc.WHSReviewerID != operatorID {
		return nil, ErrExceptionLocked
	}

	reactivated, err := s.repo.Exception.RemoveWithSideEffects(ctx, id, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExceptionInactive
		}
		s.logger.Error("解除例外失败", zap.String("exception_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("例外已解除",
		zap.String("exception_id", id),
		zap.String("worker_id", exc.WorkerID),
		zap.Int64("reactivated_schedules", reactivated))

	return &dto.RemoveExceptionResponse{ReactivatedSchedules: reactivated}, nil
}

func (s *exceptionService) Lock(ctx context.Context, id string, reviewerID string) (*dto.ExceptionResponse, error) {
	if _, err := s.getExisting(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Exception.Lock(ctx, id, reviewerID); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrExceptionAlreadyLocked
		}
		s.logger.Error("锁定例外失败", zap.String("exception_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("例外已锁定",
		zap.String("exception_id", id),
		zap.String("reviewer_id", reviewerID))

	exc, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toExceptionResponse(exc)
	return &resp, nil
}

func (s *exceptionService) GetByID(ctx context.Context, id string) (*dto.ExceptionResponse, error) {
	exc, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toExceptionResponse(exc)
	return &resp, nil
}

func (s *exceptionService) GetActiveByWorker(ctx context.Context, workerID string) (*dto.ExceptionResponse, error) {
	exc, err := s.repo.Exception.GetActiveByWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := toExceptionResponse(exc)
	return &resp, nil
}

func (s *exceptionService) ListByWorker(ctx context.Context, workerID string) ([]dto.ExceptionResponse, error) {
	excs, err := s.repo.Exception.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.ExceptionResponse, 0, len(excs))
	for i := range excs {
		resps = append(resps, toExceptionResponse(&excs[i]))
	}
	return resps, nil
}

func (s *exceptionService) getExisting(ctx context.Context, id string) (*model.Exception, error) {
	exc, err := s.repo.Exception.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExceptionNotFound
		}
		return nil, err
	}
	return exc, nil
}

func toExceptionResponse(exc *model.Exception) dto.ExceptionResponse {
	resp := dto.ExceptionResponse{
		ID:            exc.ExceptionID,
		WorkerID:      exc.WorkerID,
		Type:          exc.Type,
		Reason:        exc.Reason,
		StartDate:     exc.StartDate,
		EndDate:       exc.EndDate,
		IsActive:      exc.IsActive,
		Locked:        exc.IsLocked(),
		WHSReviewerID: exc.WHSReviewerID,
		TargetTeamID:  exc.TargetTeamID,
	}
	if exc.Worker != nil {
		resp.WorkerName = exc.Worker.Name
	}
	return resp
}
