package utils

import (
	"fmt"
	"regexp"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
)

// 补零后的 HH:MM，分钟部分必须在 00~59 之间
var clockRegexp = regexp.MustCompile(`^\d{2}:[0-5]\d$`)

// ValidateShiftEntry 校验单个排班区间的格式和范围。
// 结束时间允许取到 24:00，因为从时间网格折叠回来的最后一个格子以 24:00 结束
func ValidateShiftEntry(entry *domain.ShiftEntry) error {
	if !clockRegexp.MatchString(entry.StartTime) {
		return fmt.Errorf("开始时间 %s 的格式错误", entry.StartTime)
	}
	if !clockRegexp.MatchString(entry.EndTime) {
		return fmt.Errorf("结束时间 %s 的格式错误", entry.EndTime)
	}

	startMin := timegrid.ClockToMinutes(entry.StartTime)
	endMin := timegrid.ClockToMinutes(entry.EndTime)

	if startMin >= timegrid.MinutesPerDay {
		return fmt.Errorf("开始时间 %s 超出了一天的范围", entry.StartTime)
	}
	if endMin > timegrid.MinutesPerDay {
		return fmt.Errorf("结束时间 %s 超出了一天的范围", entry.EndTime)
	}
	if startMin >= endMin {
		return fmt.Errorf("开始时间 %s 必须早于结束时间 %s", entry.StartTime, entry.EndTime)
	}

	return nil
}

// ValidateShiftEntries 校验一组排班区间：每个区间自身合法、门店存在、
// 并且落在对应门店的营业时间之内
func ValidateShiftEntries(entries []domain.ShiftEntry, stores map[string]*domain.Store) error {
	for i := range entries {
		if err := ValidateShiftEntry(&entries[i]); err != nil {
			return fmt.Errorf("第 %d 个排班区间不合法: %w", i+1, err)
		}

		store, exists := stores[entries[i].StoreID]
		if !exists {
			return fmt.Errorf("第 %d 个排班区间的门店 %s 不存在", i+1, entries[i].StoreID)
		}

		openMin := timegrid.ClockToMinutes(store.OpenTime)
		closeMin := timegrid.ClockToMinutes(store.CloseTime)
		if timegrid.ClockToMinutes(entries[i].StartTime) < openMin || timegrid.ClockToMinutes(entries[i].EndTime) > closeMin {
			return fmt.Errorf("第 %d 个排班区间超出了门店 %s 的营业时间 %s-%s", i+1, store.Name, store.OpenTime, store.CloseTime)
		}
	}

	return nil
}

// ValidateBusinessHours 校验门店的营业时间段
func ValidateBusinessHours(openTime, closeTime string) error {
	if !clockRegexp.MatchString(openTime) {
		return fmt.Errorf("营业开始时间 %s 的格式错误", openTime)
	}
	if !clockRegexp.MatchString(closeTime) {
		return fmt.Errorf("营业结束时间 %s 的格式错误", closeTime)
	}
	if timegrid.ClockToMinutes(openTime) >= timegrid.ClockToMinutes(closeTime) {
		return fmt.Errorf("营业开始时间 %s 必须早于营业结束时间 %s", openTime, closeTime)
	}
	return nil
}

// ValidateAttendanceFixPayload 校验补卡申请携带的打卡时间
func ValidateAttendanceFixPayload(payload *domain.AttendanceFixPayload) error {
	if payload.ClockInTime.IsZero() || payload.ClockOutTime.IsZero() {
		return fmt.Errorf("补卡申请必须同时包含上班和下班打卡时间")
	}
	if !payload.ClockOutTime.After(payload.ClockInTime) {
		return fmt.Errorf("下班打卡时间必须晚于上班打卡时间")
	}
	return nil
}

// ValidateAllowanceClaimPayload 校验津贴申请的金额
func ValidateAllowanceClaimPayload(payload *domain.AllowanceClaimPayload) error {
	if payload.AmountCents <= 0 {
		return fmt.Errorf("津贴金额必须大于 0")
	}
	return nil
}
