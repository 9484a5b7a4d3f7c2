package domain

import (
	"encoding/json"
	"time"
)

type ApprovalType string

const (
	ApprovalTypeAttendanceFix  ApprovalType = "补卡"
	ApprovalTypeScheduleChange ApprovalType = "调班"
	ApprovalTypeAllowanceClaim ApprovalType = "津贴"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "待审批"
	ApprovalStatusApproved ApprovalStatus = "已通过"
	ApprovalStatusRejected ApprovalStatus = "已驳回"
)

type ApprovalRequest struct {
	ID            int64           `json:"id"`
	SerialNumber  string          `json:"serialNumber"` // uuid，用于员工查询和邮件通知
	UserID        int64           `json:"userID"`
	StoreID       string          `json:"storeID"`
	Type          ApprovalType    `json:"type"`
	TargetDate    time.Time       `json:"targetDate"`
	Reason        string          `json:"reason"`
	Payload       json.RawMessage `json:"payload"` // 不同类型的申请携带不同的附加数据
	Status        ApprovalStatus  `json:"status"`
	ReviewerID    *int64          `json:"reviewerID"`
	ReviewComment string          `json:"reviewComment"`
	CreatedAt     time.Time       `json:"createdAt"`
	ReviewedAt    *time.Time      `json:"reviewedAt"`
	Version       int32           `json:"-"`
}

// AttendanceFixPayload 补卡申请的附加数据
type AttendanceFixPayload struct {
	ClockInTime  time.Time `json:"clockInTime"`
	ClockOutTime time.Time `json:"clockOutTime"`
	Note         string    `json:"note"`
}

// ScheduleChangePayload 调班申请的附加数据，Entries 为期望的当天完整排班
type ScheduleChangePayload struct {
	Entries []ShiftEntry `json:"entries"`
}

// AllowanceClaimPayload 津贴申请的附加数据
type AllowanceClaimPayload struct {
	AmountCents int64 `json:"amountCents"`
}
