package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"physioward/backend/internal/model"
	"physioward/backend/internal/repository"
)

// ErrConfigInvalid 系统配置参数非法
var ErrConfigInvalid = errors.New("系统配置参数非法")

// ConfigService 系统配置服务接口（窗口时段与分级阈值的运营调参入口）
type ConfigService interface {
	Get(ctx context.Context) (*model.SystemConfig, error)
	Update(ctx context.Context, cfg *model.SystemConfig, operatorID string) (*model.SystemConfig, error)
}

type configService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConfigService 创建系统配置服务实例
func NewConfigService(repo *repository.Repository, logger *zap.Logger) ConfigService {
	return &configService{repo: repo, logger: logger}
}

func (s *configService) Get(ctx context.Context) (*model.SystemConfig, error) {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 单例缺失时返回内置默认值（只读视图，不落库）
			return defaultSystemConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func (s *configService) Update(ctx context.Context, cfg *model.SystemConfig, operatorID string) (*model.SystemConfig, error) {
	// 1. 阈值必须保持单调：amber < red
	if cfg.AmberScoreMin < 0 || cfg.RedScoreMin <= cfg.AmberScoreMin {
		return nil, ErrConfigInvalid
	}

	// 2. 所有窗口时刻必须可解析
	clocks := []string{
		cfg.FlexibleWindowStart, cfg.FlexibleWindowEnd,
		cfg.MorningRecStart, cfg.MorningRecEnd, cfg.MorningLateStart, cfg.MorningLateEnd,
		cfg.AfternoonRecStart, cfg.AfternoonRecEnd, cfg.AfternoonLateStart, cfg.AfternoonLateEnd,
		cfg.NightRecStart, cfg.NightRecEnd, cfg.NightLateStart, cfg.NightLateEnd,
	}
	for _, clock := range clocks {
		if _, err := minuteOfDay(clock); err != nil {
			return nil, ErrConfigInvalid
		}
	}

	cfg.UpdatedBy = &operatorID
	if err := s.repo.SystemConfig.Update(ctx, cfg); err != nil {
		s.logger.Error("更新系统配置失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("系统配置已更新",
		zap.String("operator", operatorID),
		zap.Int("amber_score_min", cfg.AmberScoreMin),
		zap.Int("red_score_min", cfg.RedScoreMin))
	return cfg, nil
}

// defaultSystemConfig 内置默认配置
func defaultSystemConfig() *model.SystemConfig {
	bands := DefaultWindowBands()
	th := DefaultClassifierThresholds()
	return &model.SystemConfig{
		Singleton:           true,
		FlexibleWindowStart: bands.FlexibleStart,
		FlexibleWindowEnd:   bands.FlexibleEnd,
		MorningRecStart:     bands.Morning.RecommendedStart,
		MorningRecEnd:       bands.Morning.RecommendedEnd,
		MorningLateStart:    bands.Morning.LateStart,
		MorningLateEnd:      bands.Morning.LateEnd,
		AfternoonRecStart:   bands.Afternoon.RecommendedStart,
		AfternoonRecEnd:     bands.Afternoon.RecommendedEnd,
		AfternoonLateStart:  bands.Afternoon.LateStart,
		AfternoonLateEnd:    bands.Afternoon.LateEnd,
		NightRecStart:       bands.Night.RecommendedStart,
		NightRecEnd:         bands.Night.RecommendedEnd,
		NightLateStart:      bands.Night.LateStart,
		NightLateEnd:        bands.Night.LateEnd,
		AmberScoreMin:       th.AmberScoreMin,
		RedScoreMin:         th.RedScoreMin,
	}
}

// loadWindowBands 读取窗口配置，单例缺失或读取失败时退回内置默认值
func loadWindowBands(ctx context.Context, repo *repository.Repository, logger *zap.Logger) WindowBands {
	cfg, err := repo.SystemConfig.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("读取系统配置失败，使用默认窗口参数", zap.Error(err))
		}
		return DefaultWindowBands()
	}
	return WindowBandsFromConfig(cfg)
}

// loadClassifierThresholds 读取分级阈值，单例缺失或读取失败时退回内置默认值
func loadClassifierThresholds(ctx context.Context, repo *repository.Repository, logger *zap.Logger) ClassifierThresholds {
	cfg, err := repo.SystemConfig.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("读取系统配置失败，使用默认分级阈值", zap.Error(err))
		}
		return DefaultClassifierThresholds()
	}
	return ThresholdsFromConfig(cfg)
}
