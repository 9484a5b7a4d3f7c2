package utils

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func testStores() map[string]*domain.Store {
	return map[string]*domain.Store{
		"gz-001": {ID: "gz-001", Name: "天河店", OpenTime: "09:00", CloseTime: "22:00"},
	}
}

func TestValidateShiftEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.ShiftEntry
		wantErr bool
	}{
		{"营业时间内", []domain.ShiftEntry{{StoreID: "gz-001", StartTime: "09:00", EndTime: "18:00"}}, false},
		{"贴着营业边界", []domain.ShiftEntry{{StoreID: "gz-001", StartTime: "09:00", EndTime: "22:00"}}, false},
		{"早于开门时间", []domain.ShiftEntry{{StoreID: "gz-001", StartTime: "08:00", EndTime: "12:00"}}, true},
		{"晚于关门时间", []domain.ShiftEntry{{StoreID: "gz-001", StartTime: "20:00", EndTime: "23:00"}}, true},
		{"门店不存在", []domain.ShiftEntry{{StoreID: "sz-999", StartTime: "09:00", EndTime: "12:00"}}, true},
		{"开始不早于结束", []domain.ShiftEntry{{StoreID: "gz-001", StartTime: "12:00", EndTime: "12:00"}}, true},
		{"格式错误", []domain.ShiftEntry{{StoreID: "gz-001", StartTime: "9:00", EndTime: "12:00"}}, true},
		{"分钟越界", []domain.ShiftEntry{{StoreID: "gz-001", StartTime: "09:60", EndTime: "12:00"}}, true},
		{"空列表", []domain.ShiftEntry{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShiftEntries(tt.entries, testStores())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateShiftEntries() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAttendanceFixPayload(t *testing.T) {
	now := time.Now()

	valid := &domain.AttendanceFixPayload{ClockInTime: now, ClockOutTime: now.Add(8 * time.Hour)}
	if err := ValidateAttendanceFixPayload(valid); err != nil {
		t.Fatalf("合法的补卡申请不应当报错: %v", err)
	}

	reversed := &domain.AttendanceFixPayload{ClockInTime: now, ClockOutTime: now.Add(-time.Hour)}
	if err := ValidateAttendanceFixPayload(reversed); err == nil {
		t.Fatalf("下班时间早于上班时间应当报错")
	}

	missing := &domain.AttendanceFixPayload{ClockInTime: now}
	if err := ValidateAttendanceFixPayload(missing); err == nil {
		t.Fatalf("缺少下班时间应当报错")
	}
}

func TestValidateAllowanceClaimPayload(t *testing.T) {
	if err := ValidateAllowanceClaimPayload(&domain.AllowanceClaimPayload{AmountCents: 5000}); err != nil {
		t.Fatalf("合法的津贴金额不应当报错: %v", err)
	}
	if err := ValidateAllowanceClaimPayload(&domain.AllowanceClaimPayload{AmountCents: 0}); err == nil {
		t.Fatalf("金额为 0 应当报错")
	}
}
