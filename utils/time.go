package utils

import "time"

// DateLayout 业务统一的日期格式
const DateLayout = "2006-01-02"

// date 列经驱动扫描回字符串字段时可能带上时间部分
var scannedDateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

// ParseDate 解析 YYYY-MM-DD 格式的日期，兼容带时间部分的驱动回读格式
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range scannedDateLayouts {
		if t, e := time.Parse(layout, s); e == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// NormalizeDate 将任一兼容格式的日期统一为 YYYY-MM-DD，无法解析时原样返回
func NormalizeDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return FormatDate(t)
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today 返回当天零点（UTC）
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
