package timegrid

import "fmt"

// MinutesPerDay 一天的总分钟数
const MinutesPerDay = 1440

// DefaultStepMinutes 默认的时间格子宽度
const DefaultStepMinutes = 30

// ClockToMinutes 将补零后的 HH:MM 字符串转换为从 0 点开始的分钟数
// 入参保证是合法的 HH:MM（由 ParseTimeRange 或校验层产生），因此这里不做错误处理
func ClockToMinutes(clock string) int {
	var h, m int
	fmt.Sscanf(clock, "%d:%d", &h, &m)
	return h*60 + m
}

// MinutesToClock 将分钟数转换为补零后的 HH:MM 字符串
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
