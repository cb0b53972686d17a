package service

import (
	"fmt"
	"strconv"
	"strings"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/model"
)

// ── 班次类型与打卡及时性 ──

const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
	ShiftFlexible  = "flexible"
)

const (
	TimelinessOnTime        = "on_time"
	TimelinessLate          = "late"
	TimelinessOutsideWindow = "outside_window"
)

// WindowBand 单一班次的打卡窗口：推荐窗口 + 更宽的迟到容忍窗口
type WindowBand struct {
	RecommendedStart string
	RecommendedEnd   string
	LateStart        string
	LateEnd          string
}

// WindowBands 全部班次的窗口配置。时段是运营参数而非业务硬规则，
// 默认值可被 system_config 覆盖。
type WindowBands struct {
	Morning       WindowBand
	Afternoon     WindowBand
	Night         WindowBand
	FlexibleStart string
	FlexibleEnd   string
}

// DefaultWindowBands 内置默认窗口（system_config 缺失时的兜底）
func DefaultWindowBands() WindowBands {
	return WindowBands{
		Morning:       WindowBand{"06:00", "10:00", "04:00", "11:00"},
		Afternoon:     WindowBand{"13:00", "16:00", "11:00", "17:00"},
		Night:         WindowBand{"18:00", "22:00", "16:00", "23:59"},
		FlexibleStart: "05:00",
		FlexibleEnd:   "23:00",
	}
}

// WindowBandsFromConfig 从系统配置构造窗口参数
func WindowBandsFromConfig(cfg *model.SystemConfig) WindowBands {
	return WindowBands{
		Morning: WindowBand{
			cfg.MorningRecStart, cfg.MorningRecEnd,
			cfg.MorningLateStart, cfg.MorningLateEnd,
		},
		Afternoon: WindowBand{
			cfg.AfternoonRecStart, cfg.AfternoonRecEnd,
			cfg.AfternoonLateStart, cfg.AfternoonLateEnd,
		},
		Night: WindowBand{
			cfg.NightRecStart, cfg.NightRecEnd,
			cfg.NightLateStart, cfg.NightLateEnd,
		},
		FlexibleStart: cfg.FlexibleWindowStart,
		FlexibleEnd:   cfg.FlexibleWindowEnd,
	}
}

// ClassifyShiftType 按班次开始小时分类：[05,12) 早班、[12,17) 午班、其余夜班
func ClassifyShiftType(startTime string) string {
	minutes, err := minuteOfDay(startTime)
	if err != nil {
		return ShiftFlexible
	}
	hour := minutes / 60
	switch {
	case hour >= 5 && hour < 12:
		return ShiftMorning
	case hour >= 12 && hour < 17:
		return ShiftAfternoon
	default:
		return ShiftNight
	}
}

// ComputeWindow 由排班推导打卡窗口。纯函数，不触达存储。
//
// 优先级：
//  1. schedule 为空 → 弹性模式，全天窗口，无迟到区分
//  2. RequiresDailyWindow 且每日窗口齐全 → 使用每日固定窗口
//  3. 自定义窗口齐全 → 整体覆盖推导窗口
//  4. 按班次类型取配置时段
//
// 窗口校验是软性的：这里只产出分类依据，绝不拦截提交。
func ComputeWindow(schedule *model.ShiftSchedule, bands WindowBands) dto.WindowResponse {
	if schedule == nil {
		return dto.WindowResponse{
			ShiftType:        ShiftFlexible,
			RecommendedStart: bands.FlexibleStart,
			RecommendedEnd:   bands.FlexibleEnd,
		}
	}

	shiftType := ClassifyShiftType(schedule.StartTime)

	if schedule.RequiresDailyWindow && schedule.DailyWindowStart != nil && schedule.DailyWindowEnd != nil {
		return dto.WindowResponse{
			ShiftType:        shiftType,
			RecommendedStart: normalizeClock(*schedule.DailyWindowStart),
			RecommendedEnd:   normalizeClock(*schedule.DailyWindowEnd),
			Custom:           true,
		}
	}

	if schedule.CustomWindowStart != nil && schedule.CustomWindowEnd != nil {
		return dto.WindowResponse{
			ShiftType:        shiftType,
			RecommendedStart: normalizeClock(*schedule.CustomWindowStart),
			RecommendedEnd:   normalizeClock(*schedule.CustomWindowEnd),
			Custom:           true,
		}
	}

	var band WindowBand
	switch shiftType {
	case ShiftMorning:
		band = bands.Morning
	case ShiftAfternoon:
		band = bands.Afternoon
	default:
		band = bands.Night
	}

	return dto.WindowResponse{
		ShiftType:        shiftType,
		RecommendedStart: band.RecommendedStart,
		RecommendedEnd:   band.RecommendedEnd,
		LateStart:        band.LateStart,
		LateEnd:          band.LateEnd,
	}
}

// ClassifyTimeliness 判定打卡时刻相对窗口的及时性。
// 推荐窗口内 → on_time；迟到容忍窗口内 → late；其余 → outside_window。
// 自定义/弹性窗口没有迟到区分，窗口外直接 outside_window。
func ClassifyTimeliness(window dto.WindowResponse, clock string) string {
	if withinWindow(clock, window.RecommendedStart, window.RecommendedEnd) {
		return TimelinessOnTime
	}
	if window.LateStart != "" && window.LateEnd != "" &&
		withinWindow(clock, window.LateStart, window.LateEnd) {
		return TimelinessLate
	}
	return TimelinessOutsideWindow
}

// withinWindow 判断 clock 是否落在 [start, end]（闭区间）。
// start > end 表示窗口跨午夜（夜班场景）。
func withinWindow(clock, start, end string) bool {
	c, err := minuteOfDay(clock)
	if err != nil {
		return false
	}
	s, err := minuteOfDay(start)
	if err != nil {
		return false
	}
	e, err := minuteOfDay(end)
	if err != nil {
		return false
	}

	if s <= e {
		return c >= s && c <= e
	}
	// 跨午夜
	return c >= s || c <= e
}

// minuteOfDay 将 "HH:MM" 或 "HH:MM:SS" 解析为当日分钟数
func minuteOfDay(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("无效的时间格式: %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("无效的小时: %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的分钟: %q", clock)
	}
	return h*60 + m, nil
}

// normalizeClock 将数据库返回的 "HH:MM:SS" 规整为 "HH:MM"
func normalizeClock(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}
