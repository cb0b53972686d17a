package service

import "physioward/backend/internal/model"

// ── 就绪度颜色 ──

const (
	ReadinessGreen = "green"
	ReadinessAmber = "amber"
	ReadinessRed   = "red"
)

// HealthMetrics 打卡健康指标
type HealthMetrics struct {
	Pain    int // 0-10
	Fatigue int // 0-10
	Stress  int // 0-10
	Sleep   int // 0-12，分值越高睡眠越好
}

// ClassifierThresholds 就绪度分级阈值。
// 负担分 < AmberScoreMin → green；< RedScoreMin → amber；否则 red。
type ClassifierThresholds struct {
	AmberScoreMin int
	RedScoreMin   int
}

// DefaultClassifierThresholds 内置默认阈值（system_config 缺失时的兜底）
func DefaultClassifierThresholds() ClassifierThresholds {
	return ClassifierThresholds{AmberScoreMin: 16, RedScoreMin: 26}
}

// ThresholdsFromConfig 从系统配置构造阈值
func ThresholdsFromConfig(cfg *model.SystemConfig) ClassifierThresholds {
	return ClassifierThresholds{
		AmberScoreMin: cfg.AmberScoreMin,
		RedScoreMin:   cfg.RedScoreMin,
	}
}

// BurdenScore 负担分 = pain + fatigue + stress + (12 − sleep)，取值 0..42。
// 每个指标都以"越差分越高"的方向进入求和，因此分类对指标逐轴单调：
// 任一指标变差绝不会得到更好的颜色。
func BurdenScore(m HealthMetrics) int {
	return m.Pain + m.Fatigue + m.Stress + (12 - m.Sleep)
}

// Classify 纯函数：指标 → green | amber | red。
// 同样的指标永远得到同样的颜色（落库的 predicted_readiness 可随时复核）。
func Classify(m HealthMetrics, th ClassifierThresholds) string {
	score := BurdenScore(m)
	switch {
	case score >= th.RedScoreMin:
		return ReadinessRed
	case score >= th.AmberScoreMin:
		return ReadinessAmber
	default:
		return ReadinessGreen
	}
}
