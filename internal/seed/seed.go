package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
)

// 花名册中排班列的表头，列里填的是自由文本时间段（例如 "10-18"、"13:30～18:00"），
// 空白表示当天不排班
var weekdayHeaders = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

var infoHeaders = []string{"门店编号", "门店名称", "门店地址", "营业开始", "营业结束", "用户名", "姓名", "邮箱", "角色"}

// SeedRosterData 从花名册 CSV 导入门店、员工和下周的排班。
// 每行是一个员工：门店不存在时先建门店，员工不存在时先建员工，
// 然后把周一到周日各列的自由文本时间段解析成排班区间写入下周对应的日期
func SeedRosterData(r *repository.Repository) {
	file, err := os.Open("./internal/seed/data/roster.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	headerIndex := make(map[string]int, len(headers))
	for i, header := range headers {
		headerIndex[header] = i
	}
	for _, header := range append(append([]string{}, infoHeaders...), weekdayHeaders...) {
		if _, exists := headerIndex[header]; !exists {
			slog.Error("花名册缺少必要的列", "header", header)
			return
		}
	}

	// 下周一，排班写入下周一到下周日
	now := time.Now()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	nextMonday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 8-weekday)

	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		record := make(map[string]string)
		for i, value := range row {
			record[headers[i]] = value
		}

		storeID := record["门店编号"]
		if storeID == "" {
			slog.Error("没有找到门店编号", "record", record)
			continue
		}

		// 门店不存在时先建门店
		store, err := r.GetStoreByID(storeID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				store = &domain.Store{
					ID:        storeID,
					Name:      record["门店名称"],
					Address:   record["门店地址"],
					OpenTime:  record["营业开始"],
					CloseTime: record["营业结束"],
				}
				if err := r.CreateStore(store); err != nil {
					slog.Error("插入门店失败", "error", err)
					continue
				}
			default:
				slog.Error("获取门店失败", "error", err)
				continue
			}
		}

		username := record["用户名"]
		if username == "" {
			slog.Error("没有找到用户名", "record", record)
			continue
		}

		// 员工不存在时先建员工
		user, err := r.GetUserByUsername(username)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				user = &domain.User{
					Username:     username,
					PasswordHash: "$2a$10$aUTaWl3vmXuQFocBkb9Qx.YJPAzNoaAcj2VC5tI45l1Roh24meCgO", // store@test8403
					FullName:     record["姓名"],
					Email:        record["邮箱"],
					Role:         domain.Role(record["角色"]),
					StoreID:      &storeID,
					IsActive:     true,
				}
				if err := r.CreateUser(user); err != nil {
					slog.Error("插入员工失败", "error", err)
					continue
				}
			default:
				slog.Error("获取员工失败", "error", err)
				continue
			}
		}

		// 解析各天的排班并写入
		for i, header := range weekdayHeaders {
			rangeText := record[header]
			if rangeText == "" {
				continue
			}

			start, end, ok := timegrid.ParseTimeRange(rangeText)
			if !ok {
				slog.Error("时间段解析失败", "username", username, "day", header, "text", rangeText)
				continue
			}

			schedule := &domain.ShiftSchedule{
				UserID:       user.ID,
				ScheduleDate: nextMonday.AddDate(0, 0, i),
				Entries: timegrid.MergeEntries([]domain.ShiftEntry{{
					StoreID:   storeID,
					StartTime: start,
					EndTime:   end,
				}}),
			}

			if err := r.CreateShiftSchedule(schedule); err != nil {
				slog.Error("插入排班失败", "error", err)
				continue
			}
		}
	}

	slog.Info("导入花名册完成")
}
