package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/utils"
)

// CreateApprovalRequest 提交一条审批申请。
// 不同类型的附加数据放在 payload 中，提交时按类型做一次校验，
// 避免审批通过后才发现附加数据不合法
func (h *Handler) CreateApprovalRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Type       string          `json:"type" validate:"required,oneof=补卡 调班 津贴"`
		TargetDate string          `json:"targetDate" validate:"required"`
		Reason     string          `json:"reason" validate:"required"`
		Payload    json.RawMessage `json:"payload" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if myInfo.StoreID == nil {
		h.errorResponse(w, r, "没有所属门店，无法提交申请")
		return
	}

	targetDate, err := time.ParseInLocation("2006-01-02", req.TargetDate, time.Local)
	if err != nil {
		h.badRequest(w, r, errors.New("申请日期格式无效，应为 YYYY-MM-DD"))
		return
	}

	if err := h.validateApprovalPayload(domain.ApprovalType(req.Type), req.Payload); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request := &domain.ApprovalRequest{
		SerialNumber: uuid.NewString(),
		UserID:       myInfo.ID,
		StoreID:      *myInfo.StoreID,
		Type:         domain.ApprovalType(req.Type),
		TargetDate:   targetDate,
		Reason:       req.Reason,
		Payload:      req.Payload,
		Status:       domain.ApprovalStatusPending,
	}

	if err := h.repository.CreateApprovalRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交申请成功", request)
}

func (h *Handler) validateApprovalPayload(approvalType domain.ApprovalType, raw json.RawMessage) error {
	switch approvalType {
	case domain.ApprovalTypeAttendanceFix:
		var payload domain.AttendanceFixPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errors.New("补卡申请的附加数据格式错误")
		}
		return utils.ValidateAttendanceFixPayload(&payload)
	case domain.ApprovalTypeScheduleChange:
		var payload domain.ScheduleChangePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errors.New("调班申请的附加数据格式错误")
		}
		stores, err := h.repository.GetStoreMap()
		if err != nil {
			return err
		}
		return utils.ValidateShiftEntries(timegrid.MergeEntries(payload.Entries), stores)
	case domain.ApprovalTypeAllowanceClaim:
		var payload domain.AllowanceClaimPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errors.New("津贴申请的附加数据格式错误")
		}
		return utils.ValidateAllowanceClaimPayload(&payload)
	default:
		return errors.New("不支持的申请类型")
	}
}

// GetApprovalRequests 按角色返回可见的申请列表：
// 店员看自己的，店长看本门店的，管理员看全部
func (h *Handler) GetApprovalRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var (
		requests []*domain.ApprovalRequest
		err      error
	)

	switch myInfo.Role {
	case domain.RoleAdmin:
		requests, err = h.repository.GetAllApprovalRequests()
	case domain.RoleStoreManager:
		if myInfo.StoreID == nil {
			h.errorResponse(w, r, "没有所属门店，无法查看申请")
			return
		}
		requests, err = h.repository.GetApprovalRequestsByStore(*myInfo.StoreID)
	default:
		requests, err = h.repository.GetApprovalRequestsByUser(myInfo.ID)
	}

	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请列表成功", requests)
}

func (h *Handler) GetApprovalRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(ApprovalRequestCtx).(*domain.ApprovalRequest)

	// 店员只能查看自己的申请，店长只能查看本门店的申请
	switch myInfo.Role {
	case domain.RoleStaff:
		if request.UserID != myInfo.ID {
			h.errorResponse(w, r, "只能查看本人的申请")
			return
		}
	case domain.RoleStoreManager:
		if myInfo.StoreID == nil || request.StoreID != *myInfo.StoreID {
			h.errorResponse(w, r, "只能查看本门店的申请")
			return
		}
	}

	h.successResponse(w, r, "获取申请成功", request)
}

// ReviewApprovalRequest 审批一条申请。
// 审批通过时按申请类型落实对应的变更：补卡申请补写打卡记录，
// 调班申请整体替换当天排班，津贴申请生成一条津贴发放记录。
// 审批结果会通过邮件通知申请人
func (h *Handler) ReviewApprovalRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(ApprovalRequestCtx).(*domain.ApprovalRequest)

	var req struct {
		Approved bool   `json:"approved"`
		Comment  string `json:"comment"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if request.Status != domain.ApprovalStatusPending {
		h.errorResponse(w, r, "该申请已被审批过")
		return
	}

	// 店长只能审批本门店的申请，且不能审批自己提交的申请
	if myInfo.Role == domain.RoleStoreManager {
		if myInfo.StoreID == nil || request.StoreID != *myInfo.StoreID {
			h.errorResponse(w, r, "只能审批本门店的申请")
			return
		}
	}
	if request.UserID == myInfo.ID {
		h.errorResponse(w, r, "不能审批本人提交的申请")
		return
	}

	if req.Approved {
		if err := h.applyApprovedRequest(request); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		request.Status = domain.ApprovalStatusApproved
	} else {
		request.Status = domain.ApprovalStatusRejected
	}

	now := time.Now()
	request.ReviewerID = &myInfo.ID
	request.ReviewComment = req.Comment
	request.ReviewedAt = &now

	if err := h.repository.UpdateApprovalRequest(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该申请已被其他人审批，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 通知申请人审批结果
	applicant, err := h.repository.GetUserByID(request.UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	err = h.publishMailMessage(domain.MailMessage{
		Type: "approval_result",
		To:   applicant.Email,
		Data: domain.ApprovalResultMailData{
			FullName:      applicant.FullName,
			SerialNumber:  request.SerialNumber,
			Type:          string(request.Type),
			Status:        string(request.Status),
			ReviewComment: request.ReviewComment,
		},
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "审批完成", request)
}

func (h *Handler) applyApprovedRequest(request *domain.ApprovalRequest) error {
	switch request.Type {
	case domain.ApprovalTypeAttendanceFix:
		var payload domain.AttendanceFixPayload
		if err := json.Unmarshal(request.Payload, &payload); err != nil {
			return err
		}
		record := &domain.AttendanceRecord{
			UserID:       request.UserID,
			StoreID:      request.StoreID,
			WorkDate:     request.TargetDate,
			ClockInTime:  payload.ClockInTime,
			ClockOutTime: &payload.ClockOutTime,
			Note:         payload.Note,
		}
		return h.repository.CreateAttendanceRecord(record)

	case domain.ApprovalTypeScheduleChange:
		var payload domain.ScheduleChangePayload
		if err := json.Unmarshal(request.Payload, &payload); err != nil {
			return err
		}
		entries := timegrid.MergeEntries(payload.Entries)

		schedule, err := h.repository.GetShiftScheduleByUserAndDate(request.UserID, request.TargetDate)
		switch {
		case err == nil:
			schedule.Entries = entries
			return h.repository.UpdateShiftSchedule(schedule)
		case errors.Is(err, sql.ErrNoRows):
			schedule = &domain.ShiftSchedule{
				UserID:       request.UserID,
				ScheduleDate: request.TargetDate,
				Entries:      entries,
			}
			return h.repository.CreateShiftSchedule(schedule)
		default:
			return err
		}

	case domain.ApprovalTypeAllowanceClaim:
		var payload domain.AllowanceClaimPayload
		if err := json.Unmarshal(request.Payload, &payload); err != nil {
			return err
		}
		allowance := &domain.Allowance{
			UserID:            request.UserID,
			StoreID:           request.StoreID,
			AllowanceDate:     request.TargetDate,
			AmountCents:       payload.AmountCents,
			Reason:            request.Reason,
			ApprovalRequestID: &request.ID,
		}
		return h.repository.CreateAllowance(allowance)

	default:
		return errors.New("不支持的申请类型")
	}
}
