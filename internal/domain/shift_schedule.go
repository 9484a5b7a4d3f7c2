package domain

import "time"

// ShiftEntry 表示某个门店的一段排班时间，start 和 end 均为补零后的 HH:MM 字符串，
// 且 start < end（按字典序比较，等价于按分钟数比较）
type ShiftEntry struct {
	StoreID   string `json:"storeID"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Note      string `json:"note,omitempty"`
}

// ShiftSchedule 表示某个员工某一天的完整排班，Entries 持久化前必须经过合并
type ShiftSchedule struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"userID"`
	ScheduleDate time.Time    `json:"scheduleDate"`
	Entries      []ShiftEntry `json:"entries"`
	CreatedAt    time.Time    `json:"createdAt"`
	Version      int32        `json:"-"`
}
