package timegrid

import (
	"sort"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

// canCombine 判断两个排班区间是否属于同一个合并组：
// 门店和备注都必须完全一致，缺失的备注按空字符串处理
func canCombine(a, b *domain.ShiftEntry) bool {
	return a.StoreID == b.StoreID && a.Note == b.Note
}

// MergeEntries 把同一门店内相互重叠或者首尾相接的排班区间合并成最小覆盖集。
// 入参不会被修改，结果与入参顺序无关，最终按 (门店, 开始时间) 升序排列。
// 首尾相接（前一段的结束时间恰好等于后一段的开始时间）的区间会被合并成一段连续的班次，
// 这是有意为之：连上的两个班在界面上应该显示为一个班
func MergeEntries(entries []domain.ShiftEntry) []domain.ShiftEntry {
	merged := make([]domain.ShiftEntry, 0, len(entries))
	if len(entries) == 0 {
		return merged
	}

	// 按门店分组，注意这里要复制区间，防止后面延长 current 的时候改到入参
	groups := make(map[string][]domain.ShiftEntry)
	for _, entry := range entries {
		groups[entry.StoreID] = append(groups[entry.StoreID], entry)
	}

	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].StartTime < group[j].StartTime
		})

		current := group[0]
		for i := 1; i < len(group); i++ {
			next := group[i]

			if !canCombine(&current, &next) {
				merged = append(merged, current)
				current = next
				continue
			}

			currentEnd := ClockToMinutes(current.EndTime)
			nextStart := ClockToMinutes(next.StartTime)
			nextEnd := ClockToMinutes(next.EndTime)

			switch {
			case nextStart < currentEnd:
				// 重叠或者包含，结束时间取较大者
				if nextEnd > currentEnd {
					current.EndTime = next.EndTime
				}
			case nextStart == currentEnd:
				// 首尾相接，直接延长
				if nextEnd > currentEnd {
					current.EndTime = next.EndTime
				}
			default:
				// 中间有真正的空档，结算当前区间
				merged = append(merged, current)
				current = next
			}
		}
		merged = append(merged, current)
	}

	// map 的遍历顺序是不确定的，所以必须在最后统一重排，
	// 保证输出顺序只取决于输入的值而不是分组的遍历顺序
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].StoreID != merged[j].StoreID {
			return merged[i].StoreID < merged[j].StoreID
		}
		return merged[i].StartTime < merged[j].StartTime
	})

	return merged
}
