package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机门店, 2: 插入随机员工, 3: 插入随机排班, 4: 插入随机打卡记录, 5: 导入花名册)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的门店数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				store := utils.GenerateRandomStore()
				if err := repo.CreateStore(store); err != nil {
					slog.Error("无法插入门店", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入门店成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			// 先获取所有门店，随机员工会被分配到其中一个门店
			stores, err := repo.GetAllStores()
			if err != nil {
				slog.Error("无法获取门店列表", slog.String("error", err.Error()))
				return
			}
			storeIDs := make([]string, 0, len(stores))
			for _, store := range stores {
				storeIDs = append(storeIDs, store.ID)
			}

			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, storeIDs)
				if err != nil {
					slog.Error("无法生成随机员工", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 3:
		// 为每个有所属门店的员工生成未来 n 天的随机排班
		if n <= 0 {
			slog.Error("请输入合法的天数")
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

		cnt := 0
		for _, user := range users {
			if user.StoreID == nil {
				continue
			}

			store, err := repo.GetStoreByID(*user.StoreID)
			if err != nil {
				slog.Error("无法获取门店", slog.String("error", err.Error()))
				continue
			}

			for day := 0; day < n; day++ {
				entries := utils.GenerateRandomShiftEntries(store, cfg.Schedule.StepMinutes)
				if len(entries) == 0 {
					continue
				}

				schedule := &domain.ShiftSchedule{
					UserID:       user.ID,
					ScheduleDate: today.AddDate(0, 0, day),
					Entries:      entries,
				}
				if err := repo.CreateShiftSchedule(schedule); err != nil {
					slog.Error("无法插入排班", slog.String("error", err.Error()))
					continue
				}

				cnt++
			}
		}

		slog.Info("插入排班成功", slog.Int("count", cnt))
	case 4:
		// 根据过去 n 天的排班生成随机打卡记录
		if n <= 0 {
			slog.Error("请输入合法的天数")
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

		cnt := 0
		for _, user := range users {
			if user.StoreID == nil {
				continue
			}

			schedules, err := repo.GetShiftSchedulesByUserInRange(user.ID, today.AddDate(0, 0, -n), today.AddDate(0, 0, -1))
			if err != nil {
				slog.Error("无法获取排班", slog.String("error", err.Error()))
				continue
			}

			for _, schedule := range schedules {
				for i := range schedule.Entries {
					// 模拟偶尔的缺勤
					if rand.Intn(10) == 0 {
						continue
					}

					record := utils.GenerateRandomAttendanceRecord(user.ID, schedule.Entries[i].StoreID, schedule.ScheduleDate, &schedule.Entries[i])
					if err := repo.CreateAttendanceRecord(record); err != nil {
						slog.Error("无法插入打卡记录", slog.String("error", err.Error()))
						continue
					}

					cnt++
				}
			}
		}

		slog.Info("插入打卡记录成功", slog.Int("count", cnt))
	case 5:
		seed.SeedRosterData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
