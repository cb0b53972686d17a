package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/model"
	"physioward/backend/internal/repository"
)

// 工人模块业务错误
var (
	ErrWorkerNotFound        = errors.New("工人不存在")
	ErrWorkerEmployeeNoTaken = errors.New("工号已被占用")
	ErrWorkerTeamNotFound    = errors.New("班组不存在")
)

// WorkerService 工人服务接口
type WorkerService interface {
	Create(ctx context.Context, req *dto.CreateWorkerRequest, operatorID string) (*dto.WorkerResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkerResponse, error)
	ListByTeam(ctx context.Context, teamID string) ([]dto.WorkerResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateWorkerRequest, operatorID string) (*dto.WorkerResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	// Memberships 班组归属历史（transfer 例外留下的轨迹）
	Memberships(ctx context.Context, workerID string) ([]model.TeamMembership, error)
}

type workerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkerService 创建工人服务实例
func NewWorkerService(repo *repository.Repository, logger *zap.Logger) WorkerService {
	return &workerService{repo: repo, logger: logger}
}

func (s *workerService) Create(ctx context.Context, req *dto.CreateWorkerRequest, operatorID string) (*dto.WorkerResponse, error) {
	// 1. 工号唯一
	if _, err := s.repo.Worker.GetByEmployeeNo(ctx, req.EmployeeNo); err == nil {
		return nil, ErrWorkerEmployeeNoTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. 班组存在
	if _, err := s.repo.Team.GetByID(ctx, req.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerTeamNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "worker"
	}
	worker := &model.Worker{
		Name:         req.Name,
		EmployeeNo:   req.EmployeeNo,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		TeamID:       req.TeamID,
		// 初始密码由管理端下发，首次登录强制修改
		MustChangePassword: true,
	}
	worker.CreatedBy = &operatorID

	if err := s.repo.Worker.Create(ctx, worker); err != nil {
		s.logger.Error("创建工人失败", zap.String("employee_no", req.EmployeeNo), zap.Error(err))
		return nil, err
	}

	// 初始班组归属入历史
	if err := s.repo.Membership.Create(ctx, &model.TeamMembership{
		WorkerID:  worker.WorkerID,
		TeamID:    worker.TeamID,
		IsActive:  true,
		StartedAt: dateOnly(worker.CreatedAt),
	}); err != nil {
		s.logger.Warn("写入班组归属历史失败", zap.String("worker_id", worker.WorkerID), zap.Error(err))
	}

	s.logger.Info("工人已创建",
		zap.String("worker_id", worker.WorkerID),
		zap.String("employee_no", worker.EmployeeNo),
		zap.String("role", worker.Role))

	resp := toWorkerResponse(worker)
	return &resp, nil
}

func (s *workerService) GetByID(ctx context.Context, id string) (*dto.WorkerResponse, error) {
	worker, err := s.repo.Worker.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	resp := toWorkerResponse(worker)
	return &resp, nil
}

func (s *workerService) ListByTeam(ctx context.Context, teamID string) ([]dto.WorkerResponse, error) {
	workers, err := s.repo.Worker.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		resps = append(resps, toWorkerResponse(&workers[i]))
	}
	return resps, nil
}

func (s *workerService) Update(ctx context.Context, id string, req *dto.UpdateWorkerRequest, operatorID string) (*dto.WorkerResponse, error) {
	worker, err := s.repo.Worker.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.Email != nil {
		worker.Email = *req.Email
	}
	if req.Role != nil {
		worker.Role = *req.Role
	}
	worker.UpdatedBy = &operatorID

	if err := s.repo.Worker.Update(ctx, worker); err != nil {
		s.logger.Error("更新工人失败", zap.String("worker_id", id), zap.Error(err))
		return nil, err
	}

	resp := toWorkerResponse(worker)
	return &resp, nil
}

func (s *workerService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Worker.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkerNotFound
		}
		return err
	}
	return s.repo.Worker.Delete(ctx, id, operatorID)
}

func (s *workerService) Memberships(ctx context.Context, workerID string) ([]model.TeamMembership, error) {
	return s.repo.Membership.ListByWorker(ctx, workerID)
}

func toWorkerResponse(w *model.Worker) dto.WorkerResponse {
	resp := dto.WorkerResponse{
		ID:                 w.WorkerID,
		Name:               w.Name,
		EmployeeNo:         w.EmployeeNo,
		Email:              w.Email,
		Role:               w.Role,
		MustChangePassword: w.MustChangePassword,
	}
	if w.Team != nil {
		tr := toTeamResponse(w.Team)
		resp.Team = &tr
	}
	return resp
}
