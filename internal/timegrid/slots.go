package timegrid

import (
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

// Slot 是一天的时间网格中的一个定宽格子，StoreID 为空字符串表示未分配。
// Slot 只在一次编辑会话中短暂存在，涂抹结束后会被折叠回排班区间列表
type Slot struct {
	Index   int    `json:"index"`
	Start   string `json:"start"`
	End     string `json:"end"`
	StoreID string `json:"storeID,omitempty"`
}

// BuildSlots 构建一个覆盖 [startMinutes, endMinutes) 的空白时间网格，
// 每个格子的宽度为 stepMinutes 分钟。
// 窗口长度不能被步长整除时多余的部分会被直接截断，不做显式校验
func BuildSlots(stepMinutes, startMinutes, endMinutes int) []Slot {
	slots := make([]Slot, 0)
	if stepMinutes <= 0 {
		return slots
	}

	count := (endMinutes - startMinutes) / stepMinutes
	for i := 0; i < count; i++ {
		slotStart := startMinutes + i*stepMinutes
		slots = append(slots, Slot{
			Index: i,
			Start: MinutesToClock(slotStart),
			End:   MinutesToClock(slotStart + stepMinutes),
		})
	}

	return slots
}

// ApplyBrush 把 [from, to]（含两端，顺序无关）范围内的格子涂成指定门店，
// storeID 为空字符串时表示擦除。返回新的切片，不修改入参
func ApplyBrush(slots []Slot, from, to int, storeID string) []Slot {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}

	painted := make([]Slot, len(slots))
	copy(painted, slots)

	for i := range painted {
		if painted[i].Index >= lo && painted[i].Index <= hi {
			painted[i].StoreID = storeID
		}
	}

	return painted
}

// SlotsToEntries 把时间网格折叠成排班区间列表：
// 连续的同门店格子构成一段区间，遇到门店变化（包括变成未分配）时断开。
// 结果会再过一遍 MergeEntries，保证输出满足合并后的不变量
func SlotsToEntries(slots []Slot) []domain.ShiftEntry {
	entries := make([]domain.ShiftEntry, 0)

	var current *domain.ShiftEntry
	for i := range slots {
		slot := &slots[i]

		if current != nil && current.StoreID == slot.StoreID {
			current.EndTime = slot.End
			continue
		}

		if current != nil && current.StoreID != "" {
			entries = append(entries, *current)
		}
		current = &domain.ShiftEntry{
			StoreID:   slot.StoreID,
			StartTime: slot.Start,
			EndTime:   slot.End,
		}
	}
	if current != nil && current.StoreID != "" {
		entries = append(entries, *current)
	}

	return MergeEntries(entries)
}

// EntriesToSlots 把排班区间列表展开到一张覆盖全天的时间网格上。
// 只要格子和区间有任何非零长度的重叠就会被涂上该区间的门店；
// 多个区间覆盖同一个格子时，后处理的区间覆盖先处理的（入参默认已经合并过）。
// 没有对齐到步长的区间边界会被吸附到格子边界上，这个有损的取整是把
// 自由文本时间段规整到界面网格上的既定手段
func EntriesToSlots(entries []domain.ShiftEntry, stepMinutes int) []Slot {
	slots := BuildSlots(stepMinutes, 0, MinutesPerDay)

	for _, entry := range entries {
		entryStart := ClockToMinutes(entry.StartTime)
		entryEnd := ClockToMinutes(entry.EndTime)

		for i := range slots {
			slotStart := ClockToMinutes(slots[i].Start)
			slotEnd := ClockToMinutes(slots[i].End)

			if slotEnd <= entryStart || slotStart >= entryEnd {
				continue
			}
			slots[i].StoreID = entry.StoreID
		}
	}

	return slots
}
