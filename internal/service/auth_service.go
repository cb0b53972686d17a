package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/repository"
	"physioward/backend/pkg/jwt"
	"physioward/backend/pkg/redis"
)

// 认证模块业务错误
var (
	ErrAuthInvalidCredentials = errors.New("工号或密码错误")
	ErrAuthInvalidRefresh     = errors.New("refresh token 无效")
	ErrAuthTokenRevoked       = errors.New("token 已失效")
	ErrAuthWorkerNotFound     = errors.New("工人不存在")
	ErrAuthPasswordMismatch   = errors.New("原密码错误")
)

// AuthService 认证服务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh 以 refresh token 换取新 token 对，旧 refresh token 立即作废
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout 将 access token 加入黑名单（TTL 与剩余有效期一致）
	Logout(ctx context.Context, accessToken string) error
	GetCurrent(ctx context.Context, workerID string) (*dto.WorkerResponse, error)
	ChangePassword(ctx context.Context, workerID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client // 可为 nil：Redis 不可用时黑名单降级为不生效
	logger *zap.Logger
}

// NewAuthService 创建认证服务实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	worker, err := s.repo.Worker.GetByEmployeeNo(ctx, req.EmployeeNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 工号不存在与密码错误返回同一错误，不泄露账号存在性
			return nil, ErrAuthInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录密码校验失败", zap.String("employee_no", req.EmployeeNo))
		return nil, ErrAuthInvalidCredentials
	}

	resp, err := s.issueTokens(worker.WorkerID, worker.Role, worker.TeamID)
	if err != nil {
		return nil, err
	}
	resp.Worker = toWorkerResponse(worker)

	s.logger.Info("登录成功",
		zap.String("worker_id", worker.WorkerID),
		zap.String("role", worker.Role))
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrAuthInvalidRefresh
	}
	if claims.TokenType != "refresh" {
		return nil, ErrAuthInvalidRefresh
	}

	if revoked, err := s.isRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, ErrAuthTokenRevoked
	}

	// 取最新的角色与班组，transfer 后旧 token 换出的新 token 立即反映新归属
	worker, err := s.repo.Worker.GetByID(ctx, claims.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthWorkerNotFound
		}
		return nil, err
	}

	// 旧 refresh token 一次性使用
	s.revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))

	resp, err := s.issueTokens(worker.WorkerID, worker.Role, worker.TeamID)
	if err != nil {
		return nil, err
	}
	resp.Worker = toWorkerResponse(worker)
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtMgr.ParseToken(accessToken)
	if err != nil {
		// 已过期或无效的 token 直接视为登出成功
		return nil
	}
	s.revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	s.logger.Info("登出成功", zap.String("worker_id", claims.WorkerID))
	return nil
}

func (s *authService) GetCurrent(ctx context.Context, workerID string) (*dto.WorkerResponse, error) {
	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthWorkerNotFound
		}
		return nil, err
	}
	resp := toWorkerResponse(worker)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, workerID string, req *dto.ChangePasswordRequest) error {
	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthWorkerNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrAuthPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Worker.UpdatePassword(ctx, workerID, string(hash), false); err != nil {
		s.logger.Error("修改密码失败", zap.String("worker_id", workerID), zap.Error(err))
		return err
	}

	s.logger.Info("密码已修改", zap.String("worker_id", workerID))
	return nil
}

func (s *authService) issueTokens(workerID, role, teamID string) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(workerID, role, teamID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(workerID, role, teamID)
	if err != nil {
		return nil, err
	}

	// expires_in 从 token 本身读取，与签发参数保持一致
	claims, err := s.jwtMgr.ParseToken(accessToken)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(time.Until(claims.ExpiresAt.Time).Seconds()),
	}, nil
}

func (s *authService) isRevoked(ctx context.Context, jti string) (bool, error) {
	if s.rdb == nil {
		return false, nil
	}
	return s.rdb.IsBlacklisted(ctx, jti)
}

func (s *authService) revoke(ctx context.Context, jti string, ttl time.Duration) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Warn("token 加入黑名单失败", zap.Error(err))
	}
}
