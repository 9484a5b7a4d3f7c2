package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func (h *Handler) GetMyAllowances(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	from, to, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	allowances, err := h.repository.GetAllowancesByUserInRange(myInfo.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取津贴记录成功", allowances)
}

// CreateAllowance 管理员直接发放津贴，不经过审批流程
func (h *Handler) CreateAllowance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        int64  `json:"userID" validate:"required"`
		StoreID       string `json:"storeID" validate:"required"`
		AllowanceDate string `json:"allowanceDate" validate:"required"`
		AmountCents   int64  `json:"amountCents" validate:"required,gt=0"`
		Reason        string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	allowanceDate, err := time.ParseInLocation("2006-01-02", req.AllowanceDate, time.Local)
	if err != nil {
		h.badRequest(w, r, errors.New("发放日期格式无效，应为 YYYY-MM-DD"))
		return
	}

	allowance := &domain.Allowance{
		UserID:        req.UserID,
		StoreID:       req.StoreID,
		AllowanceDate: allowanceDate,
		AmountCents:   req.AmountCents,
		Reason:        req.Reason,
	}

	if err := h.repository.CreateAllowance(allowance); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "allowances_user_id_fkey":
			h.badRequest(w, r, errors.New("员工不存在"))
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "allowances_store_id_fkey":
			h.badRequest(w, r, errors.New("门店不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "发放津贴成功", allowance)
}
