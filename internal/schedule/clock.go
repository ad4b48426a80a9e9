package schedule

import (
	"fmt"
	"time"
)

// 日期与时刻的统一文本格式。全引擎的比较都定义在文本形式上：
// ISO 日期与 24 小时制时刻的字典序即时间序，无需做时区敏感的换算。
const (
	DateLayout = "2006-01-02" // YYYY-MM-DD
	TimeLayout = "15:04"      // HH:MM
)

// FormatDate 取时间戳的日历日期文本
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatTime 取时间戳的时刻文本
func FormatTime(t time.Time) string { return t.Format(TimeLayout) }

// ParseDate 解析 YYYY-MM-DD 文本
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("非法日期 %q: %w", s, err)
	}
	return t, nil
}

// ValidDate 判断是否为合法 YYYY-MM-DD 文本
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime 判断是否为合法 HH:MM 文本
func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// WeekStart 返回 t 所在周的周日零点（周起始约定：周日）
func WeekStart(t time.Time) time.Time {
	d := t.AddDate(0, 0, -int(t.Weekday()))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// CandidateDate 计算模板在 now 之后第 weekOffset 周的候选日期。
// 先取 now 所在周的周日，前进 weekOffset 周，再加上模板的星期几偏移。
func CandidateDate(now time.Time, weekOffset, dayOfWeek int) string {
	target := WeekStart(now).AddDate(0, 0, 7*weekOffset+dayOfWeek)
	return FormatDate(target)
}

// AddDays 对日期文本做天数偏移
func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// AddHours 对时刻文本加小时数，不做跨日回卷：23:30 + 3 = "26:30"。
// 真实时钟读数不超过 "23:59"，因此晚间事件在当日始终早于计算出的
// 结束时刻，状态要到日历日期翻过之后才会变为已完成。
// t 必须是合法 HH:MM 文本（调用方先经 ValidTime 校验）。
func AddHours(t string, hours int) string {
	parsed, err := time.Parse(TimeLayout, t)
	if err != nil {
		return t
	}
	return fmt.Sprintf("%02d:%02d", parsed.Hour()+hours, parsed.Minute())
}
