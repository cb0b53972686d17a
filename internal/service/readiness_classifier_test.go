package service

import "testing"

func TestBurdenScoreBounds(t *testing.T) {
	best := HealthMetrics{Pain: 0, Fatigue: 0, Stress: 0, Sleep: 12}
	worst := HealthMetrics{Pain: 10, Fatigue: 10, Stress: 10, Sleep: 0}
	if got := BurdenScore(best); got != 0 {
		t.Errorf("最优指标负担分应为 0，实际 %d", got)
	}
	if got := BurdenScore(worst); got != 42 {
		t.Errorf("最差指标负担分应为 42，实际 %d", got)
	}
}

func TestClassifyThresholdBoundaries(t *testing.T) {
	th := DefaultClassifierThresholds()
	cases := []struct {
		m    HealthMetrics
		want string
	}{
		{HealthMetrics{0, 0, 0, 12}, ReadinessGreen},  // 分 0
		{HealthMetrics{5, 5, 5, 12}, ReadinessGreen},  // 分 15，green 上边界
		{HealthMetrics{5, 5, 5, 11}, ReadinessAmber},  // 分 16，恰好进入 amber
		{HealthMetrics{8, 8, 8, 11}, ReadinessAmber},  // 分 25，amber 上边界
		{HealthMetrics{8, 8, 8, 10}, ReadinessRed},    // 分 26，恰好进入 red
		{HealthMetrics{10, 10, 10, 0}, ReadinessRed},  // 分 42
	}
	for _, c := range cases {
		if got := Classify(c.m, th); got != c.want {
			t.Errorf("Classify(%+v) = %q, 期望 %q（分 %d）", c.m, got, c.want, BurdenScore(c.m))
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	th := DefaultClassifierThresholds()
	m := HealthMetrics{Pain: 4, Fatigue: 6, Stress: 3, Sleep: 7}
	first := Classify(m, th)
	for i := 0; i < 10; i++ {
		if got := Classify(m, th); got != first {
			t.Fatalf("同样指标分类结果不一致: %q vs %q", first, got)
		}
	}
}

// 单调性：任一指标变差，颜色绝不变好
func TestClassifyMonotonic(t *testing.T) {
	th := DefaultClassifierThresholds()
	rank := map[string]int{ReadinessGreen: 0, ReadinessAmber: 1, ReadinessRed: 2}

	base := HealthMetrics{Pain: 3, Fatigue: 3, Stress: 3, Sleep: 8}

	// 疼痛逐级上升
	prev := rank[Classify(base, th)]
	for pain := base.Pain; pain <= 10; pain++ {
		m := base
		m.Pain = pain
		cur := rank[Classify(m, th)]
		if cur < prev {
			t.Fatalf("疼痛从 %d 升高后颜色反而变好", pain)
		}
		prev = cur
	}

	// 睡眠逐级下降
	prev = rank[Classify(base, th)]
	for sleep := base.Sleep; sleep >= 0; sleep-- {
		m := base
		m.Sleep = sleep
		cur := rank[Classify(m, th)]
		if cur < prev {
			t.Fatalf("睡眠降到 %d 后颜色反而变好", sleep)
		}
		prev = cur
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	th := ClassifierThresholds{AmberScoreMin: 5, RedScoreMin: 10}
	if got := Classify(HealthMetrics{Pain: 2, Fatigue: 2, Stress: 2, Sleep: 12}, th); got != ReadinessAmber {
		t.Errorf("自定义阈值下分 6 应为 amber，实际 %q", got)
	}
	if got := Classify(HealthMetrics{Pain: 4, Fatigue: 4, Stress: 4, Sleep: 12}, th); got != ReadinessRed {
		t.Errorf("自定义阈值下分 12 应为 red，实际 %q", got)
	}
}
