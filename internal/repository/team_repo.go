package repository

import (
	"context"

	"gorm.io/gorm"

	"physioward/backend/internal/model"
)

// TeamRepository 班组数据访问接口
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, id string) (*model.Team, error)
	List(ctx context.Context, includeInactive bool) ([]model.Team, error)
	ListBySupervisor(ctx context.Context, supervisorID string) ([]model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// TeamMembershipRepository 班组成员关系数据访问接口
type TeamMembershipRepository interface {
	Create(ctx context.Context, membership *model.TeamMembership) error
	GetActiveByWorker(ctx context.Context, workerID string) (*model.TeamMembership, error)
	ListByWorker(ctx context.Context, workerID string) ([]model.TeamMembership, error)
}

// ── Team Repository 实现 ──

type teamRepo struct {
	db *gorm.DB
}

// NewTeamRepo 创建 TeamRepository 实例
func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db: db}
}

func (r *teamRepo) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Where("team_id = ?", id).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) List(ctx context.Context, includeInactive bool) ([]model.Team, error) {
	var teams []model.Team
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&teams).Error
	return teams, err
}

func (r *teamRepo) ListBySupervisor(ctx context.Context, supervisorID string) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Where("supervisor_id = ? AND is_active = ?", supervisorID, true).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

func (r *teamRepo) Update(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).
		Model(team).
		Where("team_id = ?", team.TeamID).
		Updates(map[string]interface{}{
			"name":          team.Name,
			"description":   team.Description,
			"supervisor_id": team.SupervisorID,
			"is_active":     team.IsActive,
			"updated_by":    team.UpdatedBy,
		}).Error
}

func (r *teamRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Team{}).
		Where("team_id = ?", id).
		Update("deleted_by", deletedBy).
		Delete(&model.Team{}, "team_id = ?", id).Error
}

// ── TeamMembership Repository 实现 ──

type teamMembershipRepo struct {
	db *gorm.DB
}

// NewTeamMembershipRepo 创建 TeamMembershipRepository 实例
func NewTeamMembershipRepo(db *gorm.DB) TeamMembershipRepository {
	return &teamMembershipRepo{db: db}
}

func (r *teamMembershipRepo) Create(ctx context.Context, membership *model.TeamMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *teamMembershipRepo) GetActiveByWorker(ctx context.Context, workerID string) (*model.TeamMembership, error) {
	var membership model.TeamMembership
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("worker_id = ? AND is_active = ?", workerID, true).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *teamMembershipRepo) ListByWorker(ctx context.Context, workerID string) ([]model.TeamMembership, error) {
	var memberships []model.TeamMembership
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("worker_id = ?", workerID).
		Order("started_at DESC").
		Find(&memberships).Error
	return memberships, err
}
