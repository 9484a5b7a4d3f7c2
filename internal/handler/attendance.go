package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

// ClockIn 上班打卡。同一员工同时只允许存在一条未下班的打卡记录
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		StoreID string `json:"storeID" validate:"required"`
		Note    string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 店员只能在自己所属的门店打卡
	if myInfo.Role == domain.RoleStaff {
		if myInfo.StoreID == nil || *myInfo.StoreID != req.StoreID {
			h.errorResponse(w, r, "只能在所属门店打卡")
			return
		}
	}

	if _, err := h.repository.GetStoreByID(req.StoreID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, errors.New("门店不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 检查是否有尚未下班的打卡记录
	if _, err := h.repository.GetOpenAttendanceRecord(myInfo.ID); err == nil {
		h.errorResponse(w, r, "还有未下班的打卡记录，请先下班打卡")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now()
	record := &domain.AttendanceRecord{
		UserID:      myInfo.ID,
		StoreID:     req.StoreID,
		WorkDate:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
		ClockInTime: now,
		Note:        req.Note,
	}

	if err := h.repository.CreateAttendanceRecord(record); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "上班打卡成功", record)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	record, err := h.repository.GetOpenAttendanceRecord(myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "没有未下班的打卡记录，请先上班打卡")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	now := time.Now()
	record.ClockOutTime = &now

	if err := h.repository.UpdateAttendanceRecord(record); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "下班打卡失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "下班打卡成功", record)
}

func (h *Handler) GetMyAttendanceRecords(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	from, to, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	records, err := h.repository.GetAttendanceRecordsByUserInRange(myInfo.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取打卡记录成功", records)
}
