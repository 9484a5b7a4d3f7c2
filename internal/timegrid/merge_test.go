package timegrid

import (
	"reflect"
	"testing"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func entry(storeID, start, end string) domain.ShiftEntry {
	return domain.ShiftEntry{StoreID: storeID, StartTime: start, EndTime: end}
}

func TestMergeEntriesCoalescesTouchingIntervals(t *testing.T) {
	got := MergeEntries([]domain.ShiftEntry{
		entry("A", "09:00", "12:00"),
		entry("A", "12:00", "15:00"),
	})

	want := []domain.ShiftEntry{entry("A", "09:00", "15:00")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("首尾相接的区间应当被合并, got %v", got)
	}
}

func TestMergeEntriesKeepsGaps(t *testing.T) {
	got := MergeEntries([]domain.ShiftEntry{
		entry("A", "09:00", "10:00"),
		entry("A", "11:00", "12:00"),
	})

	want := []domain.ShiftEntry{
		entry("A", "09:00", "10:00"),
		entry("A", "11:00", "12:00"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("中间有空档的区间不应当被合并, got %v", got)
	}
}

func TestMergeEntriesOverlapTakesLargerEnd(t *testing.T) {
	got := MergeEntries([]domain.ShiftEntry{
		entry("A", "09:00", "14:00"),
		entry("A", "10:00", "12:00"),
		entry("A", "13:00", "16:00"),
	})

	want := []domain.ShiftEntry{entry("A", "09:00", "16:00")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("重叠区间的结束时间应当取较大者, got %v", got)
	}
}

func TestMergeEntriesSameStartDifferentEnd(t *testing.T) {
	got := MergeEntries([]domain.ShiftEntry{
		entry("A", "09:00", "10:00"),
		entry("A", "09:00", "13:00"),
	})

	want := []domain.ShiftEntry{entry("A", "09:00", "13:00")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("开始时间相同时较长的区间应当胜出, got %v", got)
	}
}

func TestMergeEntriesSeparatesStores(t *testing.T) {
	got := MergeEntries([]domain.ShiftEntry{
		entry("B", "09:00", "12:00"),
		entry("A", "12:00", "15:00"),
		entry("A", "09:00", "12:00"),
	})

	want := []domain.ShiftEntry{
		entry("A", "09:00", "15:00"),
		entry("B", "09:00", "12:00"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("不同门店的区间不应当合并，且输出按门店排序, got %v", got)
	}
}

func TestMergeEntriesSeparatesNotes(t *testing.T) {
	a := entry("A", "09:00", "12:00")
	a.Note = "收银"
	b := entry("A", "12:00", "15:00")
	b.Note = "理货"

	got := MergeEntries([]domain.ShiftEntry{a, b})
	if len(got) != 2 {
		t.Fatalf("备注不同的区间不应当合并, got %v", got)
	}
}

func TestMergeEntriesOrderIndependent(t *testing.T) {
	forward := []domain.ShiftEntry{
		entry("A", "09:00", "10:00"),
		entry("B", "08:00", "09:30"),
		entry("A", "10:00", "12:00"),
	}
	backward := []domain.ShiftEntry{forward[2], forward[0], forward[1]}

	if !reflect.DeepEqual(MergeEntries(forward), MergeEntries(backward)) {
		t.Fatalf("合并结果应当与输入顺序无关")
	}
}

func TestMergeEntriesIdempotent(t *testing.T) {
	input := []domain.ShiftEntry{
		entry("A", "09:00", "11:00"),
		entry("A", "10:00", "12:00"),
		entry("B", "13:00", "14:00"),
		entry("B", "14:00", "15:00"),
	}

	once := MergeEntries(input)
	twice := MergeEntries(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("合并应当是幂等的: %v != %v", once, twice)
	}

	// 输出中同一门店的区间不允许再有重叠或者首尾相接
	for i := 0; i < len(once); i++ {
		for j := i + 1; j < len(once); j++ {
			if once[i].StoreID != once[j].StoreID || once[i].Note != once[j].Note {
				continue
			}
			if once[i].EndTime >= once[j].StartTime && once[j].EndTime >= once[i].StartTime {
				t.Fatalf("输出中仍然存在可合并的区间: %v 和 %v", once[i], once[j])
			}
		}
	}
}

func TestMergeEntriesEmptyInput(t *testing.T) {
	got := MergeEntries(nil)
	if len(got) != 0 {
		t.Fatalf("空输入应当返回空输出, got %v", got)
	}
}

func TestMergeEntriesSingleEntryCopied(t *testing.T) {
	input := []domain.ShiftEntry{entry("A", "09:00", "12:00")}
	got := MergeEntries(input)

	if !reflect.DeepEqual(got, input) {
		t.Fatalf("单个区间应当原样通过, got %v", got)
	}

	got[0].EndTime = "23:00"
	if input[0].EndTime != "12:00" {
		t.Fatalf("修改输出不应当影响输入")
	}
}

func TestMergeEntriesDoesNotMutateInput(t *testing.T) {
	input := []domain.ShiftEntry{
		entry("A", "09:00", "11:00"),
		entry("A", "10:00", "12:00"),
	}
	snapshot := make([]domain.ShiftEntry, len(input))
	copy(snapshot, input)

	MergeEntries(input)
	if !reflect.DeepEqual(input, snapshot) {
		t.Fatalf("MergeEntries 不应当修改入参, got %v", input)
	}
}
