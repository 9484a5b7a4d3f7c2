package scheduler

import (
	"math"
	"math/rand"
	"slices"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
)

// randomInitChromosome 随机初始化一个染色体
func (s *Scheduler) randomInitChromosome() *Chromosome {
	var genes []*Gene

	for shiftIndex, shift := range s.shifts {
		for _, day := range shift.Days {
			var managerID *int64 = nil

			// 选出可以担当此 (shift, day) 的当班负责人候选
			var managerCandidatesIDs []int64 = []int64{}
			for _, user := range s.users {
				if isManager(user) {
					managerCandidatesIDs = append(managerCandidatesIDs, user.ID)
				}
			}

			// 随机选出一个当班负责人
			if len(managerCandidatesIDs) > 0 {
				managerID = &managerCandidatesIDs[rand.Intn(len(managerCandidatesIDs))]
			}

			// 找出可以在 (shift, day) 中值班的剩余店员候选
			var staffCandidatesIDs []int64 = []int64{}
			for _, user := range s.users {
				if managerID != nil && *managerID == user.ID {
					// 确保已经被选为当班负责人的员工，不会在这一轮中被选中
					continue
				}
				staffCandidatesIDs = append(staffCandidatesIDs, user.ID)
			}

			// 随机选择店员
			chosenNum := min(int(shift.RequiredStaff-1), len(staffCandidatesIDs))
			// 打乱店员候选顺序
			rand.Shuffle(len(staffCandidatesIDs), func(i, j int) {
				staffCandidatesIDs[i], staffCandidatesIDs[j] = staffCandidatesIDs[j], staffCandidatesIDs[i]
			})
			chosenStaffIDs := staffCandidatesIDs[:chosenNum]

			// 计算工作时长
			workDuration := float64(timegrid.ClockToMinutes(shift.EndTime)-timegrid.ClockToMinutes(shift.StartTime)) / 60

			// 生成基因
			genes = append(genes, &Gene{
				shiftIndex:   shiftIndex,
				day:          day,
				managerID:    managerID,
				staffIDs:     chosenStaffIDs,
				requiredNum:  shift.RequiredStaff,
				workDuration: workDuration,
			})
		}
	}

	return &Chromosome{
		genes: genes,
	}
}

/**
 * 计算染色体的适应度
 * fitness = - notWorkPenalty - FairnessWeight * fairnessPenalty
 * 其中:
 * 		1. notWorkPenalty 为未工作惩罚（用于确保每个员工都尽可能被排到班）
 * 		2. fairnessPenalty 为公平性惩罚（用于确保每个员工的工作量尽可能均衡）
 * 		3. FairnessWeight 为公平性权重，用于平衡覆盖率和公平性（由输入参数决定）
 */
func (s *Scheduler) calcFitness(ch *Chromosome) {

	// 计算每个员工的工作时长
	userWorkCnt := make(map[int64]float64)

	for _, gene := range ch.genes {
		if gene.managerID != nil {
			if _, exists := userWorkCnt[*gene.managerID]; !exists {
				userWorkCnt[*gene.managerID] = 0
			}
			userWorkCnt[*gene.managerID] += gene.workDuration
		}
		for _, staffID := range gene.staffIDs {
			if _, exists := userWorkCnt[staffID]; !exists {
				userWorkCnt[staffID] = 0
			}
			userWorkCnt[staffID] += gene.workDuration
		}
	}

	// 计算 notWorkPenalty
	notWorkPenalty := 0.0
	for _, user := range s.users {
		if userWorkCnt[user.ID] == 0 {
			notWorkPenalty += 1
		}
	}

	// 计算 fairnessPenalty（即方差）
	variance := 0.0
	avgWorkCnt := 0.0

	for _, workCnt := range userWorkCnt {
		avgWorkCnt += workCnt
	}
	avgWorkCnt /= float64(len(s.users))

	for _, user := range s.users {
		variance += math.Pow(userWorkCnt[user.ID]-avgWorkCnt, 2)
	}
	variance /= float64(len(s.users))

	// 计算 fitness 并赋值给染色体
	fitness := -notWorkPenalty - s.parameters.FairnessWeight*variance
	ch.fitness = fitness
}

// 使用轮盘赌来进行选择
func (s *Scheduler) selectByRoulette(pop []*Chromosome) *Chromosome {
	sumFit := 0.0
	for _, ch := range pop {
		sumFit += ch.fitness
	}
	pick := rand.Float64() * sumFit
	partial := 0.0

	for _, ch := range pop {
		partial += ch.fitness
		if partial >= pick {
			return ch
		}
	}

	// 理论上不会运行到这个地方
	return pop[len(pop)-1]
}

// 单点交叉
func (s *Scheduler) singlePointCrossover(ch1 *Chromosome, ch2 *Chromosome) {
	length1 := len(ch1.genes)
	length2 := len(ch2.genes)

	if length1 != length2 {
		// 按理来说两个染色体的长度应该能保证是相等的
		// 这里只是以防万一
		return
	}

	length := length1

	// 随机选择一个位置
	point := rand.Intn(length)

	// 交换两个染色体在 point 位置之后的基因
	for i := point; i < length; i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// 变异
// 随机选择新的当班负责人或店员
func (s *Scheduler) mutate(ch *Chromosome) {
	for i := range ch.genes {
		// 一定概率选择新的当班负责人
		if rand.Float64() > s.parameters.MutationRate {
			continue
		}

		var managerCandidatesIDs []int64 = []int64{}
		for _, user := range s.users {
			if isManager(user) {
				if ch.genes[i].managerID != nil && *ch.genes[i].managerID == user.ID {
					// 如果这个员工已经是当班负责人，那么就不要把他放入候选中了
					continue
				}
				if slices.Contains(ch.genes[i].staffIDs, user.ID) {
					// 如果这个员工已经被选到这个时段中值班了，那么就不要把他放入候选了
					continue
				}

				managerCandidatesIDs = append(managerCandidatesIDs, user.ID)
			}
		}

		if len(managerCandidatesIDs) > 0 {
			ch.genes[i].managerID = &managerCandidatesIDs[rand.Intn(len(managerCandidatesIDs))]
		}

		// 一定概率选择新的店员
		for j := range ch.genes[i].staffIDs {
			// 每个店员都有一定概率被替换
			if rand.Float64() > s.parameters.MutationRate {
				continue
			}

			var staffCandidatesIDs []int64 = []int64{}

			for _, user := range s.users {
				if ch.genes[i].managerID != nil && *ch.genes[i].managerID == user.ID {
					// 如果这个员工是当班负责人，那么就不要把他放入候选中了
					continue
				}
				if slices.Contains(ch.genes[i].staffIDs, user.ID) {
					// 如果这个员工已经被选到这个时段中值班了，那么就不要把他放入候选了
					continue
				}

				staffCandidatesIDs = append(staffCandidatesIDs, user.ID)
			}

			if len(staffCandidatesIDs) > 0 {
				ch.genes[i].staffIDs[j] = staffCandidatesIDs[rand.Intn(len(staffCandidatesIDs))]
			}
		}
	}
}
