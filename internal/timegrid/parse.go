package timegrid

import (
	"regexp"
	"strconv"
	"strings"
)

// 把各种全角或日文输入法下的变体统一成半角形式
var normalizeReplacer = strings.NewReplacer(
	"：", ":",
	"～", "-",
	"〜", "-",
	"~", "-",
	"－", "-",
	"−", "-",
	"ー", "-",
	"―", "-",
	"–", "-",
	"—", "-",
	"時", "",
	"时", "",
)

var (
	bareNumbersRegexp = regexp.MustCompile(`^\s*(\d{1,2}(?::\d{1,2})?)\s+(\d{1,2}(?::\d{1,2})?)\s*$`)
	timeRangeRegexp   = regexp.MustCompile(`^\s*(\d{1,2})(?::(\d{1,2}))?\s*-\s*(\d{1,2})(?::(\d{1,2}))?\s*$`)
)

// ParseTimeRange 把用户随手输入的时间段文本规整成一对补零后的 HH:MM 時刻，
// 支持 "10-18"、"10:00-18:00"、"10時-18時"、"10 18" 等写法。
// 解析失败时 ok 为 false，调用方应当提示用户重新输入，而不是当作致命错误处理
func ParseTimeRange(raw string) (start string, end string, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return "", "", false
	}

	normalized := normalizeReplacer.Replace(raw)

	// 如果没有分隔符，尝试在两个用空白分开的数字之间插入一个
	if !strings.Contains(normalized, "-") {
		normalized = bareNumbersRegexp.ReplaceAllString(normalized, "$1-$2")
	}

	matches := timeRangeRegexp.FindStringSubmatch(normalized)
	if matches == nil {
		return "", "", false
	}

	startHour, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", "", false
	}
	startMinute := 0
	if matches[2] != "" {
		if startMinute, err = strconv.Atoi(matches[2]); err != nil {
			return "", "", false
		}
	}
	endHour, err := strconv.Atoi(matches[3])
	if err != nil {
		return "", "", false
	}
	endMinute := 0
	if matches[4] != "" {
		if endMinute, err = strconv.Atoi(matches[4]); err != nil {
			return "", "", false
		}
	}

	// 超出范围的数字静默钳制而不是拒绝：
	// 开始时刻的小时越界时压到 23:00，结束时刻的小时越界时压到 23:59，
	// 这样 "25-26" 这类输入仍然能落在一天之内
	if startHour > 23 {
		startHour = 23
		startMinute = 0
	}
	if startMinute > 59 {
		startMinute = 59
	}
	if endHour > 23 {
		endHour = 23
		endMinute = 59
	}
	if endMinute > 59 {
		endMinute = 59
	}

	start = MinutesToClock(startHour*60 + startMinute)
	end = MinutesToClock(endHour*60 + endMinute)

	if start >= end {
		return "", "", false
	}

	return start, end, true
}
