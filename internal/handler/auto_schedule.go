package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/utils"
)

// AutoScheduleStore 为门店自动生成一周的排班。
// 请求中给出从 weekStart 开始的一周内各个值守时段的人数要求，
// 算法在门店的在职员工中做分配，兼顾覆盖率和工作量的均衡，
// 生成的排班会整体替换这一周已有的排班
func (h *Handler) AutoScheduleStore(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if myInfo.Role == domain.RoleStoreManager {
		if myInfo.StoreID == nil || *myInfo.StoreID != store.ID {
			h.errorResponse(w, r, "店长只能为本门店排班")
			return
		}
	}

	var req struct {
		WeekStart string                    `json:"weekStart" validate:"required"`
		Shifts    []scheduler.CoverageShift `json:"shifts" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := time.ParseInLocation("2006-01-02", req.WeekStart, time.Local)
	if err != nil {
		h.badRequest(w, r, errors.New("周起始日期格式无效，应为 YYYY-MM-DD"))
		return
	}

	// 值守时段必须落在营业时间内
	openMin := timegrid.ClockToMinutes(store.OpenTime)
	closeMin := timegrid.ClockToMinutes(store.CloseTime)
	for i := range req.Shifts {
		if err := utils.ValidateShiftEntry(&domain.ShiftEntry{
			StoreID:   store.ID,
			StartTime: req.Shifts[i].StartTime,
			EndTime:   req.Shifts[i].EndTime,
		}); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if timegrid.ClockToMinutes(req.Shifts[i].StartTime) < openMin || timegrid.ClockToMinutes(req.Shifts[i].EndTime) > closeMin {
			h.badRequest(w, r, errors.New("值守时段超出了门店的营业时间"))
			return
		}
	}

	users, err := h.repository.GetUsersByStore(store.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	parameters := &scheduler.Parameters{
		PopulationSize: h.config.Scheduler.PopulationSize,
		MaxGenerations: h.config.Scheduler.MaxGenerations,
		CrossoverRate:  h.config.Scheduler.CrossoverRate,
		MutationRate:   h.config.Scheduler.MutationRate,
		EliteCount:     h.config.Scheduler.EliteCount,
		FairnessWeight: h.config.Scheduler.FairnessWeight,
	}

	s, err := scheduler.New(parameters, users, req.Shifts)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignments, err := s.Schedule()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 把分配结果按 (员工, 日期) 归拢成排班区间
	type scheduleKey struct {
		userID int64
		day    int32
	}
	entriesByKey := make(map[scheduleKey][]domain.ShiftEntry)

	for _, assignment := range assignments {
		shift := req.Shifts[assignment.ShiftIndex]
		entry := domain.ShiftEntry{
			StoreID:   store.ID,
			StartTime: shift.StartTime,
			EndTime:   shift.EndTime,
		}

		userIDs := make([]int64, 0, len(assignment.StaffIDs)+1)
		if assignment.ManagerID != nil {
			userIDs = append(userIDs, *assignment.ManagerID)
		}
		userIDs = append(userIDs, assignment.StaffIDs...)

		for _, userID := range userIDs {
			key := scheduleKey{userID: userID, day: assignment.Day}
			entriesByKey[key] = append(entriesByKey[key], entry)
		}
	}

	// 逐人逐天落库，整体替换这一周已有的排班
	count := 0
	for key, entries := range entriesByKey {
		scheduleDate := weekStart.AddDate(0, 0, int(key.day)-1)
		merged := timegrid.MergeEntries(entries)

		schedule, err := h.repository.GetShiftScheduleByUserAndDate(key.userID, scheduleDate)
		switch {
		case err == nil:
			schedule.Entries = merged
			if err := h.repository.UpdateShiftSchedule(schedule); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		case errors.Is(err, sql.ErrNoRows):
			schedule = &domain.ShiftSchedule{
				UserID:       key.userID,
				ScheduleDate: scheduleDate,
				Entries:      merged,
			}
			if err := h.repository.CreateShiftSchedule(schedule); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		default:
			h.internalServerError(w, r, err)
			return
		}

		count++
	}

	h.successResponse(w, r, "自动排班完成", map[string]any{
		"assignments":   assignments,
		"scheduleCount": count,
	})
}
