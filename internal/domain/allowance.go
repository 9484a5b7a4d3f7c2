package domain

import "time"

type Allowance struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"userID"`
	StoreID           string    `json:"storeID"`
	AllowanceDate     time.Time `json:"allowanceDate"`
	AmountCents       int64     `json:"amountCents"` // 金额以分为单位，避免浮点误差
	Reason            string    `json:"reason"`
	ApprovalRequestID *int64    `json:"approvalRequestID"` // 管理员直接发放时为 nil
	CreatedAt         time.Time `json:"createdAt"`
	Version           int32     `json:"-"`
}
