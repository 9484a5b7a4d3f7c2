package domain

import "time"

type AttendanceRecord struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userID"`
	StoreID      string     `json:"storeID"`
	WorkDate     time.Time  `json:"workDate"`
	ClockInTime  time.Time  `json:"clockInTime"`
	ClockOutTime *time.Time `json:"clockOutTime"` // 未下班打卡时为 nil
	Note         string     `json:"note"`
	CreatedAt    time.Time  `json:"createdAt"`
	Version      int32      `json:"-"`
}
