package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
	"github.com/xuri/excelize/v2"
)

// ExportMonthlyAttendanceReport 导出某个门店某个月的考勤汇总表（xlsx）。
// 每个员工一行：排班时长、实际打卡时长、打卡次数、津贴合计。
// 查询参数：storeID、month（YYYY-MM），店长只能导出本门店的报表
func (h *Handler) ExportMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	storeID := r.URL.Query().Get("storeID")
	if storeID == "" {
		h.badRequest(w, r, errors.New("必须指定门店编号"))
		return
	}
	if myInfo.Role == domain.RoleStoreManager {
		if myInfo.StoreID == nil || *myInfo.StoreID != storeID {
			h.errorResponse(w, r, "店长只能导出本门店的报表")
			return
		}
	}

	month, err := time.ParseInLocation("2006-01", r.URL.Query().Get("month"), time.Local)
	if err != nil {
		h.badRequest(w, r, errors.New("月份格式无效，应为 YYYY-MM"))
		return
	}
	from := month
	to := month.AddDate(0, 1, -1)

	store, err := h.repository.GetStoreByID(storeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	users, err := h.repository.GetUsersByStore(storeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	schedules, err := h.repository.GetShiftSchedulesByStoreAndRange(storeID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	records, err := h.repository.GetAttendanceRecordsByStoreInRange(storeID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	allowances, err := h.repository.GetAllowancesByStoreInRange(storeID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	summary := summarizeMonthly(storeID, users, schedules, records, allowances)

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := "考勤汇总"
	index, err := f.NewSheet(sheet)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"工号", "姓名", "排班时长（小时）", "打卡时长（小时）", "打卡次数", "津贴合计（元）"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}
	_ = f.SetColWidth(sheet, "A", "F", 18)

	for i, user := range users {
		row := i + 2
		stat := summary[user.ID]
		values := []any{
			user.Username,
			user.FullName,
			float64(stat.scheduledMinutes) / 60,
			float64(stat.workedMinutes) / 60,
			stat.clockCount,
			float64(stat.allowanceCents) / 100,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}
	}

	filename := fmt.Sprintf("%s-%s-考勤汇总.xlsx", store.ID, month.Format("2006-01"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

type monthlyStat struct {
	scheduledMinutes int
	workedMinutes    int
	clockCount       int
	allowanceCents   int64
}

// summarizeMonthly 把排班、打卡和津贴记录折叠成按员工汇总的统计。
// 排班时长只统计属于该门店的区间，统计前会先合并，
// 避免重叠的区间被重复计入
func summarizeMonthly(
	storeID string,
	users []*domain.User,
	schedules []*domain.ShiftSchedule,
	records []*domain.AttendanceRecord,
	allowances []*domain.Allowance,
) map[int64]*monthlyStat {
	summary := make(map[int64]*monthlyStat, len(users))
	for _, user := range users {
		summary[user.ID] = &monthlyStat{}
	}

	for _, schedule := range schedules {
		stat, exists := summary[schedule.UserID]
		if !exists {
			continue
		}
		for _, entry := range timegrid.MergeEntries(schedule.Entries) {
			if entry.StoreID != storeID {
				continue
			}
			stat.scheduledMinutes += timegrid.ClockToMinutes(entry.EndTime) - timegrid.ClockToMinutes(entry.StartTime)
		}
	}

	for _, record := range records {
		stat, exists := summary[record.UserID]
		if !exists {
			continue
		}
		stat.clockCount++
		if record.ClockOutTime != nil {
			stat.workedMinutes += int(record.ClockOutTime.Sub(record.ClockInTime).Minutes())
		}
	}

	for _, allowance := range allowances {
		stat, exists := summary[allowance.UserID]
		if !exists {
			continue
		}
		stat.allowanceCents += allowance.AmountCents
	}

	return summary
}
