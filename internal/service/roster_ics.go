package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"physioward/backend/internal/model"
)

// ErrRosterParseFailed roster 日历无法解析
var ErrRosterParseFailed = errors.New("roster 日历解析失败")

// BYDAY 代码 → 星期（周日=0）
var icsWeekdays = map[string]int{
	"SU": 0, "MO": 1, "TU": 2, "WE": 3, "TH": 4, "FR": 5, "SA": 6,
}

// ParseRosterICS 将 ICS roster 日历解析为排班列表。
//
// 事件映射规则：
//   - 带 FREQ=WEEKLY 的事件 → 周期排班：BYDAY 每个代码产出一条，
//     无 BYDAY 时取 DTSTART 的星期；DTSTART → 生效日期，UNTIL → 失效日期
//   - 其余事件 → 单日排班，日期取 DTSTART
//
// 归属字段（worker/team）由调用方补齐，这里只产出排班模板。
func ParseRosterICS(data []byte) ([]model.ShiftSchedule, error) {
	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterParseFailed, err)
	}

	var schedules []model.ShiftSchedule
	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		if err != nil {
			// 缺少 DTSTART 的事件无法定位，跳过
			continue
		}
		end, err := event.GetEndAt()
		if err != nil {
			end = start
		}

		startClock := start.Format("15:04")
		endClock := end.Format("15:04")
		startDate := dateOnly(start)

		rrule := eventRRule(event)
		if rrule == "" || !strings.Contains(rrule, "FREQ=WEEKLY") {
			d := startDate
			schedules = append(schedules, model.ShiftSchedule{
				ScheduledDate: &d,
				StartTime:     startClock,
				EndTime:       endClock,
			})
			continue
		}

		days := rruleByDays(rrule)
		if len(days) == 0 {
			days = []int{int(start.Weekday())}
		}
		expiry := rruleUntil(rrule)

		for _, day := range days {
			dow := day
			eff := startDate
			sc := model.ShiftSchedule{
				DayOfWeek:     &dow,
				EffectiveDate: &eff,
				StartTime:     startClock,
				EndTime:       endClock,
			}
			if expiry != nil {
				exp := *expiry
				sc.ExpiryDate = &exp
			}
			schedules = append(schedules, sc)
		}
	}

	return schedules, nil
}

// eventRRule 取事件的 RRULE 原文，无则返回空串
func eventRRule(event *ics.VEvent) string {
	prop := event.GetProperty(ics.ComponentPropertyRrule)
	if prop == nil {
		return ""
	}
	return prop.Value
}

// rruleByDays 解析 RRULE 的 BYDAY 部分
func rruleByDays(rrule string) []int {
	var days []int
	for _, part := range strings.Split(rrule, ";") {
		if !strings.HasPrefix(part, "BYDAY=") {
			continue
		}
		for _, code := range strings.Split(strings.TrimPrefix(part, "BYDAY="), ",") {
			if day, ok := icsWeekdays[strings.TrimSpace(code)]; ok {
				days = append(days, day)
			}
		}
	}
	return days
}

// rruleUntil 解析 RRULE 的 UNTIL 部分（日期或 UTC 时间戳两种写法）
func rruleUntil(rrule string) *time.Time {
	for _, part := range strings.Split(rrule, ";") {
		if !strings.HasPrefix(part, "UNTIL=") {
			continue
		}
		raw := strings.TrimPrefix(part, "UNTIL=")
		for _, layout := range []string{"20060102T150405Z", "20060102"} {
			if t, err := time.Parse(layout, raw); err == nil {
				d := dateOnly(t)
				return &d
			}
		}
	}
	return nil
}
