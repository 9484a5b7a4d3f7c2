package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/utils"
)

// parseScheduleDate 解析路径参数中的排班日期（YYYY-MM-DD）
func parseScheduleDate(r *http.Request) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, "date"), time.Local)
	if err != nil {
		return time.Time{}, errors.New("排班日期格式无效，应为 YYYY-MM-DD")
	}
	return date, nil
}

func (h *Handler) GetMyShiftSchedules(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	from, to, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedules, err := h.repository.GetShiftSchedulesByUserInRange(myInfo.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班列表成功", schedules)
}

// GetMyShiftSchedule 查询某一天的排班。
// 带上 ?view=slots 时把区间展开成时间网格返回，供前端编辑器涂抹使用，
// 格子宽度可以用 ?step= 指定（分钟），缺省取配置中的步长
func (h *Handler) GetMyShiftSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	date, err := parseScheduleDate(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.repository.GetShiftScheduleByUserAndDate(myInfo.ID, date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 这一天还没有排班，返回一条空的排班记录而不是 404，
			// 前端据此直接渲染空白网格
			schedule = &domain.ShiftSchedule{
				UserID:       myInfo.ID,
				ScheduleDate: date,
				Entries:      make([]domain.ShiftEntry, 0),
			}
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	if r.URL.Query().Get("view") != "slots" {
		h.successResponse(w, r, "获取排班成功", schedule)
		return
	}

	stepMinutes := h.config.Schedule.StepMinutes
	if stepStr := r.URL.Query().Get("step"); stepStr != "" {
		step, err := strconv.Atoi(stepStr)
		if err != nil || step <= 0 {
			h.badRequest(w, r, errors.New("步长必须是正整数"))
			return
		}
		stepMinutes = step
	}

	h.successResponse(w, r, "获取排班成功", map[string]any{
		"schedule": schedule,
		"slots":    timegrid.EntriesToSlots(schedule.Entries, stepMinutes),
	})
}

// PutMyShiftSchedule 整体替换某一天的排班。
// 请求体三选一：
//   - rangeText：一段自由文本时间段（例如 "10-18"、"10:00～18:00"），配合 storeID 使用
//   - entries：完整的排班区间列表
//   - slots：编辑器涂抹后的时间网格，服务端负责折叠成区间
//
// 三种来源最终都会合并、校验后落库
func (h *Handler) PutMyShiftSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	date, err := parseScheduleDate(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var req struct {
		RangeText *string  `json:"rangeText"`
		StoreID   *string  `json:"storeID"`
		Note      string   `json:"note"`
		Entries   []domain.ShiftEntry `json:"entries"`
		Slots     []timegrid.Slot     `json:"slots"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var entries []domain.ShiftEntry
	switch {
	case req.RangeText != nil:
		if req.StoreID == nil {
			h.badRequest(w, r, errors.New("使用文本时间段排班时必须指定门店"))
			return
		}
		start, end, ok := timegrid.ParseTimeRange(*req.RangeText)
		if !ok {
			h.errorResponse(w, r, "时间段格式无效，请重新输入")
			return
		}
		entries = []domain.ShiftEntry{{
			StoreID:   *req.StoreID,
			StartTime: start,
			EndTime:   end,
			Note:      req.Note,
		}}
	case req.Slots != nil:
		entries = timegrid.SlotsToEntries(req.Slots)
	case req.Entries != nil:
		entries = req.Entries
	default:
		h.badRequest(w, r, errors.New("请求体必须包含 rangeText、entries 或 slots 之一"))
		return
	}

	entries = timegrid.MergeEntries(entries)

	stores, err := h.repository.GetStoreMap()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateShiftEntries(entries, stores); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.repository.GetShiftScheduleByUserAndDate(myInfo.ID, date)
	switch {
	case err == nil:
		schedule.Entries = entries
		if err := h.repository.UpdateShiftSchedule(schedule); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "排班已被其他请求修改，请刷新后重试")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	case errors.Is(err, sql.ErrNoRows):
		schedule = &domain.ShiftSchedule{
			UserID:       myInfo.ID,
			ScheduleDate: date,
			Entries:      entries,
		}
		if err := h.repository.CreateShiftSchedule(schedule); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	default:
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存排班成功", schedule)
}
