package timegrid

import (
	"reflect"
	"testing"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func TestBuildSlots(t *testing.T) {
	got := BuildSlots(60, 0, 120)

	want := []Slot{
		{Index: 0, Start: "00:00", End: "01:00"},
		{Index: 1, Start: "01:00", End: "02:00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildSlots(60, 0, 120) = %v, 期望 %v", got, want)
	}
}

func TestBuildSlotsFullDay(t *testing.T) {
	got := BuildSlots(30, 0, MinutesPerDay)
	if len(got) != 48 {
		t.Fatalf("默认全天网格应当有 48 个格子, got %d", len(got))
	}
	if got[47].Start != "23:30" || got[47].End != "24:00" {
		t.Fatalf("最后一个格子应当是 23:30-24:00, got %v", got[47])
	}
}

func TestBuildSlotsTruncatesUnevenWindow(t *testing.T) {
	// 窗口不能被步长整除，多余的 10 分钟直接截断
	got := BuildSlots(60, 0, 130)
	if len(got) != 2 {
		t.Fatalf("不整除的窗口应当被截断成 2 个格子, got %d", len(got))
	}
}

func TestBuildSlotsDegenerateInput(t *testing.T) {
	if got := BuildSlots(0, 0, 120); len(got) != 0 {
		t.Fatalf("步长为 0 应当返回空网格, got %v", got)
	}
	if got := BuildSlots(30, 120, 120); len(got) != 0 {
		t.Fatalf("零长度窗口应当返回空网格, got %v", got)
	}
}

func TestApplyBrush(t *testing.T) {
	slots := BuildSlots(30, 0, MinutesPerDay)
	painted := ApplyBrush(slots, 4, 7, "S1")

	for i, slot := range painted {
		if i >= 4 && i <= 7 {
			if slot.StoreID != "S1" {
				t.Fatalf("第 %d 个格子应当被涂成 S1, got %q", i, slot.StoreID)
			}
			continue
		}
		if slot.StoreID != "" {
			t.Fatalf("第 %d 个格子不应当被涂抹, got %q", i, slot.StoreID)
		}
	}

	// 入参不允许被修改
	for i, slot := range slots {
		if slot.StoreID != "" {
			t.Fatalf("ApplyBrush 不应当修改入参（第 %d 个格子）", i)
		}
	}
}

func TestApplyBrushReversedRange(t *testing.T) {
	slots := BuildSlots(30, 0, MinutesPerDay)

	forward := ApplyBrush(slots, 4, 7, "S1")
	backward := ApplyBrush(slots, 7, 4, "S1")
	if !reflect.DeepEqual(forward, backward) {
		t.Fatalf("涂抹范围应当与方向无关")
	}
}

func TestApplyBrushClears(t *testing.T) {
	slots := ApplyBrush(BuildSlots(30, 0, MinutesPerDay), 0, 47, "S1")
	cleared := ApplyBrush(slots, 10, 12, "")

	for i := 10; i <= 12; i++ {
		if cleared[i].StoreID != "" {
			t.Fatalf("第 %d 个格子应当被擦除, got %q", i, cleared[i].StoreID)
		}
	}
	if cleared[9].StoreID != "S1" || cleared[13].StoreID != "S1" {
		t.Fatalf("擦除范围外的格子不应当受影响")
	}
}

func TestSlotsToEntries(t *testing.T) {
	slots := BuildSlots(30, 0, MinutesPerDay)
	slots = ApplyBrush(slots, 18, 23, "A") // 09:00-12:00
	slots = ApplyBrush(slots, 24, 29, "B") // 12:00-15:00
	slots = ApplyBrush(slots, 32, 35, "A") // 16:00-18:00

	got := SlotsToEntries(slots)

	want := []domain.ShiftEntry{
		entry("A", "09:00", "12:00"),
		entry("A", "16:00", "18:00"),
		entry("B", "12:00", "15:00"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SlotsToEntries = %v, 期望 %v", got, want)
	}
}

func TestSlotsToEntriesEmptyGrid(t *testing.T) {
	got := SlotsToEntries(BuildSlots(30, 0, MinutesPerDay))
	if len(got) != 0 {
		t.Fatalf("空白网格应当折叠成空列表, got %v", got)
	}
}

func TestEntriesToSlots(t *testing.T) {
	slots := EntriesToSlots([]domain.ShiftEntry{entry("A", "09:00", "10:30")}, 30)

	if len(slots) != 48 {
		t.Fatalf("应当展开到全天的 48 个格子, got %d", len(slots))
	}
	for i, slot := range slots {
		if i >= 18 && i <= 20 {
			if slot.StoreID != "A" {
				t.Fatalf("第 %d 个格子应当属于门店 A, got %q", i, slot.StoreID)
			}
			continue
		}
		if slot.StoreID != "" {
			t.Fatalf("第 %d 个格子应当是未分配, got %q", i, slot.StoreID)
		}
	}
}

func TestEntriesToSlotsLastWriteWins(t *testing.T) {
	slots := EntriesToSlots([]domain.ShiftEntry{
		entry("A", "09:00", "11:00"),
		entry("B", "10:00", "12:00"),
	}, 30)

	// 10:00-11:00 被两个区间覆盖，后处理的 B 胜出
	if slots[20].StoreID != "B" || slots[21].StoreID != "B" {
		t.Fatalf("重叠格子应当由后处理的区间覆盖, got %q %q", slots[20].StoreID, slots[21].StoreID)
	}
	if slots[18].StoreID != "A" || slots[19].StoreID != "A" {
		t.Fatalf("未被覆盖的部分应当保持门店 A")
	}
}

func TestEntriesToSlotsRoundsToSlotBoundary(t *testing.T) {
	// 没有对齐到步长的边界被吸附到格子边界，这是有意的有损取整
	slots := EntriesToSlots([]domain.ShiftEntry{entry("A", "09:10", "09:50")}, 30)

	got := SlotsToEntries(slots)
	want := []domain.ShiftEntry{entry("A", "09:00", "10:00")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("未对齐的区间应当被吸附到格子边界, got %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.ShiftEntry
	}{
		{"单个区间", []domain.ShiftEntry{entry("A", "09:00", "10:30")}},
		{"多个门店", []domain.ShiftEntry{
			entry("A", "09:00", "12:00"),
			entry("B", "13:00", "18:00"),
		}},
		{"同门店有空档", []domain.ShiftEntry{
			entry("A", "09:00", "10:00"),
			entry("A", "11:30", "14:00"),
		}},
		{"跨越全天边界", []domain.ShiftEntry{
			entry("A", "00:00", "01:00"),
			entry("B", "23:00", "23:30"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlotsToEntries(EntriesToSlots(tt.entries, 30))
			if !reflect.DeepEqual(got, tt.entries) {
				t.Fatalf("对齐到步长的区间往返后应当保持不变: got %v, 期望 %v", got, tt.entries)
			}
		})
	}
}
