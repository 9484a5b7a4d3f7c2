package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/utils"
)

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id" validate:"required"`
		Name      string `json:"name" validate:"required"`
		Address   string `json:"address" validate:"required"`
		OpenTime  string `json:"openTime" validate:"required"`
		CloseTime string `json:"closeTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateBusinessHours(req.OpenTime, req.CloseTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	store := &domain.Store{
		ID:        req.ID,
		Name:      req.Name,
		Address:   req.Address,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
	}

	if err := h.repository.CreateStore(store); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "stores_pkey":
			h.badRequest(w, r, errors.New("门店编号已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "门店创建成功", store)
}

func (h *Handler) GetAllStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.repository.GetAllStores()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店列表成功", stores)
}

func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	h.successResponse(w, r, "获取门店信息成功", store)
}

func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string `json:"name"`
		Address   *string `json:"address"`
		OpenTime  *string `json:"openTime"`
		CloseTime *string `json:"closeTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	store := r.Context().Value(StoreCtx).(*domain.Store)

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.OpenTime != nil {
		store.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		store.CloseTime = *req.CloseTime
	}

	if err := utils.ValidateBusinessHours(store.OpenTime, store.CloseTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateStore(store); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新门店信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新门店信息成功", store)
}

func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)

	if err := h.repository.DeleteStore(store.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_store_id_fkey":
			h.badRequest(w, r, errors.New("门店下仍有在职员工，无法删除"))
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_schedule_entries_store_id_fkey":
			h.badRequest(w, r, errors.New("门店下仍有排班记录，无法删除"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除门店成功", nil)
}

// GetStoreShiftSchedules 查询某个门店在指定日期范围内的全部排班，
// 店长只能查询自己所在的门店
func (h *Handler) GetStoreShiftSchedules(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if myInfo.Role == domain.RoleStoreManager {
		if myInfo.StoreID == nil || *myInfo.StoreID != store.ID {
			h.errorResponse(w, r, "店长只能查看本门店的排班")
			return
		}
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedules, err := h.repository.GetShiftSchedulesByStoreAndRange(store.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店排班成功", schedules)
}

// parseDateRange 解析查询参数中的 from 和 to（YYYY-MM-DD），
// 缺省时取本周一到本周日
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	if fromStr == "" && toStr == "" {
		now := time.Now()
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1-weekday)
		return monday, monday.AddDate(0, 0, 6), nil
	}

	from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("查询起始日期格式无效，应为 YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("查询结束日期格式无效，应为 YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("查询结束日期不能早于起始日期")
	}

	return from, to, nil
}
