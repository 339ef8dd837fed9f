package util

import (
	"fmt"
	"time"
)

// ParseTimeOfDay 解析 HH:MM（分钟精度），返回当天零点起的偏移
func ParseTimeOfDay(s string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// ValidateWindow 校验签到窗口，跨午夜窗口（start > end）不支持
func ValidateWindow(start, end string) error {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return err
	}
	if s > e {
		return ErrInvalidWindow
	}
	return nil
}

// WindowContains 判断 now 是否落在 [today@start, today@end] 闭区间内
// start/end 必须已通过 ValidateWindow
func WindowContains(now time.Time, start, end string) bool {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return false
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return false
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := midnight.Add(s)
	to := midnight.Add(e)
	return !now.Before(from) && !now.After(to)
}

// DateString 固定时区下的日历日期（2006-01-02）
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}
