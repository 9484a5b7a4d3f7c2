package scheduler

import (
	"testing"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func testUser(id int64, role domain.Role, active bool) *domain.User {
	storeID := "gz-001"
	return &domain.User{
		ID:       id,
		Role:     role,
		StoreID:  &storeID,
		IsActive: active,
	}
}

func testParameters() *Parameters {
	return &Parameters{
		PopulationSize: 20,
		MaxGenerations: 10,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		EliteCount:     2,
		FairnessWeight: 0.5,
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	users := []*domain.User{testUser(1, domain.RoleStaff, true)}

	if _, err := New(testParameters(), users, []CoverageShift{
		{StartTime: "18:00", EndTime: "09:00", RequiredStaff: 2, Days: []int32{1}},
	}); err == nil {
		t.Error("开始时间晚于结束时间的值守时段应该被拒绝")
	}

	if _, err := New(testParameters(), users, []CoverageShift{
		{StartTime: "09:00", EndTime: "18:00", RequiredStaff: 0, Days: []int32{1}},
	}); err == nil {
		t.Error("人数为 0 的值守时段应该被拒绝")
	}

	if _, err := New(testParameters(), users, []CoverageShift{
		{StartTime: "09:00", EndTime: "18:00", RequiredStaff: 2, Days: []int32{8}},
	}); err == nil {
		t.Error("适用日超出 1~7 的值守时段应该被拒绝")
	}

	inactive := []*domain.User{testUser(1, domain.RoleStaff, false)}
	if _, err := New(testParameters(), inactive, []CoverageShift{
		{StartTime: "09:00", EndTime: "18:00", RequiredStaff: 2, Days: []int32{1}},
	}); err == nil {
		t.Error("没有在职员工时应该返回错误")
	}
}

func TestScheduleCoversEveryShiftAndDay(t *testing.T) {
	users := []*domain.User{
		testUser(1, domain.RoleStoreManager, true),
		testUser(2, domain.RoleStaff, true),
		testUser(3, domain.RoleStaff, true),
		testUser(4, domain.RoleStaff, true),
	}
	shifts := []CoverageShift{
		{StartTime: "09:00", EndTime: "15:00", RequiredStaff: 2, Days: []int32{1, 2, 3}},
		{StartTime: "15:00", EndTime: "21:00", RequiredStaff: 2, Days: []int32{1, 2}},
	}

	s, err := New(testParameters(), users, shifts)
	if err != nil {
		t.Fatalf("创建调度器失败: %v", err)
	}

	assignments, err := s.Schedule()
	if err != nil {
		t.Fatalf("排班失败: %v", err)
	}

	if len(assignments) != 5 {
		t.Fatalf("应该为每个 (值守时段, 适用日) 生成一条分配，期望 5 条，实际 %d 条", len(assignments))
	}

	type key struct {
		shiftIndex int
		day        int32
	}
	seen := make(map[key]bool)
	for _, assignment := range assignments {
		k := key{shiftIndex: assignment.ShiftIndex, day: assignment.Day}
		if seen[k] {
			t.Errorf("(%d, %d) 被分配了两次", assignment.ShiftIndex, assignment.Day)
		}
		seen[k] = true

		// 只有一个店长，有负责人时必须是他
		if assignment.ManagerID != nil && *assignment.ManagerID != 1 {
			t.Errorf("当班负责人应该是店长，实际为 %d", *assignment.ManagerID)
		}

		total := len(assignment.StaffIDs)
		if assignment.ManagerID != nil {
			total++
		}
		if total > 2 {
			t.Errorf("分配人数 %d 超出了时段要求的 2 人", total)
		}

		members := make(map[int64]bool)
		if assignment.ManagerID != nil {
			members[*assignment.ManagerID] = true
		}
		for _, staffID := range assignment.StaffIDs {
			if members[staffID] {
				t.Errorf("员工 %d 在同一时段中被重复分配", staffID)
			}
			members[staffID] = true
		}
	}

	for shiftIndex, shift := range shifts {
		for _, day := range shift.Days {
			if !seen[key{shiftIndex: shiftIndex, day: day}] {
				t.Errorf("(%d, %d) 没有生成分配", shiftIndex, day)
			}
		}
	}
}
