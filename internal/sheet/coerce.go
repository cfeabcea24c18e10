package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// dateLayouts 文本日期的常见写法，按顺序尝试
var dateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"02/01/2006",
	"02.01.06",
}

// IsEmpty nil 或仅含空白的文本视为空
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

// AsDate 将单元格值转换为日期（UTC 零点）
func AsDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return truncateDay(x), nil
	case float64:
		t, err := excelize.ExcelDateToTime(x, false)
		if err != nil {
			return time.Time{}, err
		}
		return truncateDay(t), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateDay(t), nil
			}
		}
		t, err := cast.ToTimeE(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("无法解析日期 %q", s)
		}
		return truncateDay(t), nil
	default:
		return time.Time{}, fmt.Errorf("无法解析日期 %v (%T)", v, v)
	}
}

// AsFloat 将单元格值转换为数值，文本允许逗号作为小数点
func AsFloat(v any) (float64, error) {
	if s, ok := v.(string); ok {
		v = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("无法解析数值 %v", v)
	}
	return f, nil
}

// AsString 转换为可空文本；空值返回 nil
func AsString(v any) *string {
	if IsEmpty(v) {
		return nil
	}
	var s string
	switch x := v.(type) {
	case time.Time:
		s = x.Format("2006-01-02")
	default:
		s = cast.ToString(x)
	}
	return &s
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
