package scheduler

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
)

type Scheduler struct {
	parameters *Parameters
	users      []*domain.User // 注意这里应该只传入该门店的在职员工
	shifts     []CoverageShift
}

func New(parameters *Parameters, users []*domain.User, shifts []CoverageShift) (*Scheduler, error) {
	s := &Scheduler{
		parameters: parameters,
		users:      make([]*domain.User, 0, len(users)),
		shifts:     shifts,
	}

	for _, user := range users {
		if !user.IsActive {
			continue
		}
		s.users = append(s.users, user)
	}

	if len(s.users) == 0 {
		return nil, fmt.Errorf("门店没有在职员工，无法自动排班")
	}

	for i := range shifts {
		start := timegrid.ClockToMinutes(shifts[i].StartTime)
		end := timegrid.ClockToMinutes(shifts[i].EndTime)
		if start >= end {
			return nil, fmt.Errorf("第 %d 个值守时段的开始时间必须早于结束时间", i+1)
		}
		if shifts[i].RequiredStaff <= 0 {
			return nil, fmt.Errorf("第 %d 个值守时段的人数必须大于 0", i+1)
		}
		for _, day := range shifts[i].Days {
			if day < 1 || day > 7 {
				return nil, fmt.Errorf("第 %d 个值守时段的适用日 %d 非法", i+1, day)
			}
		}
	}

	return s, nil
}

func (s *Scheduler) Schedule() ([]Assignment, error) {
	// 生成初始种群
	pop := make([]*Chromosome, s.parameters.PopulationSize)
	for i := 0; i < int(s.parameters.PopulationSize); i++ {
		pop[i] = s.randomInitChromosome()
		s.calcFitness(pop[i])
	}

	// 迭代
	bestChromosomeEver := &Chromosome{
		genes:   nil,
		fitness: -math.MaxFloat64,
	}

	for gen := 0; gen < int(s.parameters.MaxGenerations); gen++ {
		// 找到本代最佳样本
		genBestFit := pop[0].fitness
		genBestIndex := 0

		for i := 1; i < int(s.parameters.PopulationSize); i++ {
			if pop[i].fitness > genBestFit {
				genBestFit = pop[i].fitness
				genBestIndex = i
			}
		}

		if genBestFit > bestChromosomeEver.fitness {
			bestChromosomeEver.fitness = genBestFit
			// 这里需要使用深拷贝，防止后续繁殖的过程中导致指向的基因被修改
			bestChromosomeEver.genes = make([]*Gene, len(pop[genBestIndex].genes))
			for i := 0; i < len(pop[genBestIndex].genes); i++ {
				bestChromosomeEver.genes[i] = &Gene{
					shiftIndex:   pop[genBestIndex].genes[i].shiftIndex,
					day:          pop[genBestIndex].genes[i].day,
					managerID:    pop[genBestIndex].genes[i].managerID,
					staffIDs:     make([]int64, len(pop[genBestIndex].genes[i].staffIDs)),
					requiredNum:  pop[genBestIndex].genes[i].requiredNum,
					workDuration: pop[genBestIndex].genes[i].workDuration,
				}
				copy(bestChromosomeEver.genes[i].staffIDs, pop[genBestIndex].genes[i].staffIDs)
			}
		}

		// 繁殖
		newPop := make([]*Chromosome, 0, s.parameters.PopulationSize)

		// 保留精英
		sort.Slice(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})
		newPop = append(newPop, pop[:int(s.parameters.EliteCount)]...)

		// 在剩余的染色体中进行交叉和变异
		for len(newPop) < int(s.parameters.PopulationSize) {
			// 选择两个父本
			p1 := s.selectByRoulette(pop)
			p2 := s.selectByRoulette(pop)

			if rand.Float64() < s.parameters.CrossoverRate {
				s.singlePointCrossover(p1, p2)
			}

			s.mutate(p1)
			s.mutate(p2)

			newPop = append(newPop, p1)

			if len(newPop) < int(s.parameters.PopulationSize) {
				newPop = append(newPop, p2)
			}
		}

		for i := 0; i < int(s.parameters.PopulationSize); i++ {
			pop[i] = newPop[i]
			s.calcFitness(pop[i])
		}
	}

	// 返回结果
	result := make([]Assignment, 0, len(bestChromosomeEver.genes))
	for _, gene := range bestChromosomeEver.genes {
		result = append(result, Assignment{
			ShiftIndex: gene.shiftIndex,
			Day:        gene.day,
			ManagerID:  gene.managerID,
			StaffIDs:   gene.staffIDs,
		})
	}

	// 最后检查一下没有人被同时分配到同一个 (shift, day) 的两个位置上
	if err := validateAssignments(result); err != nil {
		return nil, err
	}

	return result, nil
}

func validateAssignments(assignments []Assignment) error {
	for _, assignment := range assignments {
		seen := make(map[int64]bool)
		if assignment.ManagerID != nil {
			seen[*assignment.ManagerID] = true
		}
		for _, staffID := range assignment.StaffIDs {
			if seen[staffID] {
				return fmt.Errorf("员工 %d 在同一个值守时段中被重复分配", staffID)
			}
			seen[staffID] = true
		}
	}
	return nil
}
