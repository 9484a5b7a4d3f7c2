package scheduler

// CoverageShift 表示门店某个需要有人值守的时间段，
// Days 中的 1~7 表示周一到周日
type CoverageShift struct {
	StartTime     string  `json:"startTime"` // HH:MM
	EndTime       string  `json:"endTime"`   // HH:MM
	RequiredStaff int32   `json:"requiredStaff"`
	Days          []int32 `json:"days"`
}

// Assignment 表示对某个 (coverageShift, 星期几) 的人员分配结果
type Assignment struct {
	ShiftIndex int     `json:"shiftIndex"`
	Day        int32   `json:"day"`
	ManagerID  *int64  `json:"managerID"` // 当班负责人，可能缺位
	StaffIDs   []int64 `json:"staffIDs"`
}

// Gene: 表示对某个 (coverageShift, 星期几) 的排班决策
type Gene struct {
	shiftIndex   int
	day          int32
	managerID    *int64  // 如果 managerID 为 nil，则表示这个 (shift, day) 没有当班负责人
	staffIDs     []int64 // 如果 staffIDs 为空，则表示这个 (shift, day) 没有店员
	requiredNum  int32
	workDuration float64
}

// Chromosome: 整个排班表
type Chromosome struct {
	genes   []*Gene
	fitness float64
}

// 遗传算法参数
type Parameters struct {
	PopulationSize int32   // 种群大小
	MaxGenerations int32   // 最大迭代次数
	CrossoverRate  float64 // 交叉概率
	MutationRate   float64 // 变异概率
	EliteCount     int32   // 精英数量
	FairnessWeight float64 // 公平性权重
}
