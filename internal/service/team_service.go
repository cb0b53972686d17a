package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/model"
	"physioward/backend/internal/repository"
)

// 班组模块业务错误
var (
	ErrTeamNotFound           = errors.New("班组不存在")
	ErrTeamSupervisorNotFound = errors.New("指定的主管不存在")
	ErrTeamSupervisorRole     = errors.New("指定的工人不是主管角色")
)

// TeamService 班组服务接口
type TeamService interface {
	Create(ctx context.Context, req *dto.CreateTeamRequest, operatorID string) (*dto.TeamResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TeamResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.TeamResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTeamRequest, operatorID string) (*dto.TeamResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
}

type teamService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeamService 创建班组服务实例
func NewTeamService(repo *repository.Repository, logger *zap.Logger) TeamService {
	return &teamService{repo: repo, logger: logger}
}

func (s *teamService) Create(ctx context.Context, req *dto.CreateTeamRequest, operatorID string) (*dto.TeamResponse, error) {
	if req.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, *req.SupervisorID); err != nil {
			return nil, err
		}
	}

	team := &model.Team{
		Name:         req.Name,
		Description:  req.Description,
		SupervisorID: req.SupervisorID,
		IsActive:     true,
	}
	team.CreatedBy = &operatorID

	if err := s.repo.Team.Create(ctx, team); err != nil {
		s.logger.Error("创建班组失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("班组已创建", zap.String("team_id", team.TeamID), zap.String("name", team.Name))
	resp := toTeamResponse(team)
	return &resp, nil
}

func (s *teamService) GetByID(ctx context.Context, id string) (*dto.TeamResponse, error) {
	team, err := s.repo.Team.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	resp := toTeamResponse(team)
	return &resp, nil
}

func (s *teamService) List(ctx context.Context, includeInactive bool) ([]dto.TeamResponse, error) {
	teams, err := s.repo.Team.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resps := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		resps = append(resps, toTeamResponse(&teams[i]))
	}
	return resps, nil
}

func (s *teamService) Update(ctx context.Context, id string, req *dto.UpdateTeamRequest, operatorID string) (*dto.TeamResponse, error) {
	team, err := s.repo.Team.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, *req.SupervisorID); err != nil {
			return nil, err
		}
		team.SupervisorID = req.SupervisorID
	}
	if req.IsActive != nil {
		team.IsActive = *req.IsActive
	}
	team.UpdatedBy = &operatorID

	if err := s.repo.Team.Update(ctx, team); err != nil {
		s.logger.Error("更新班组失败", zap.String("team_id", id), zap.Error(err))
		return nil, err
	}

	resp := toTeamResponse(team)
	return &resp, nil
}

func (s *teamService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Team.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return s.repo.Team.Delete(ctx, id, operatorID)
}

func (s *teamService) checkSupervisor(ctx context.Context, supervisorID string) error {
	worker, err := s.repo.Worker.GetByID(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamSupervisorNotFound
		}
		return err
	}
	if worker.Role != "supervisor" {
		return ErrTeamSupervisorRole
	}
	return nil
}

func toTeamResponse(t *model.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:           t.TeamID,
		Name:         t.Name,
		Description:  t.Description,
		SupervisorID: t.SupervisorID,
		IsActive:     t.IsActive,
	}
}
