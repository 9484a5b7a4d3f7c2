package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/timegrid"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleStaff,
	domain.RoleStoreManager,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomUser 生成一个随机员工，storeIDs 非空时会随机分配一个所属门店
func GenerateRandomUser(password string, emailDomainName string, storeIDs []string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	// 管理员不属于任何门店
	if user.Role != domain.RoleAdmin && len(storeIDs) > 0 {
		storeID := storeIDs[rand.Intn(len(storeIDs))]
		user.StoreID = &storeID
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var cityCodes = []string{"gz", "sz", "fs", "dg", "zh"}
var storeNameParts = []string{"天河", "越秀", "南山", "宝安", "禅城", "松山湖", "香洲", "荔湾"}

// GenerateRandomStore 生成一个随机门店，营业时间对齐到整点
func GenerateRandomStore() *domain.Store {
	city := cityCodes[rand.Intn(len(cityCodes))]
	openHour := rand.Intn(4) + 7   // 7~10 点开门
	closeHour := rand.Intn(4) + 20 // 20~23 点关门

	return &domain.Store{
		ID:        fmt.Sprintf("%s-%03d", city, rand.Intn(1000)),
		Name:      storeNameParts[rand.Intn(len(storeNameParts))] + "店",
		Address:   storeNameParts[rand.Intn(len(storeNameParts))] + "路" + fmt.Sprintf("%d", rand.Intn(200)+1) + "号",
		OpenTime:  timegrid.MinutesToClock(openHour * 60),
		CloseTime: timegrid.MinutesToClock(closeHour * 60),
	}
}

// GenerateRandomShiftEntries 在门店的营业时间内随机生成若干段排班，
// 区间边界对齐到网格步长，生成结果已经过合并
func GenerateRandomShiftEntries(store *domain.Store, stepMinutes int) []domain.ShiftEntry {
	openMin := timegrid.ClockToMinutes(store.OpenTime)
	closeMin := timegrid.ClockToMinutes(store.CloseTime)

	stepsInWindow := (closeMin - openMin) / stepMinutes
	if stepsInWindow < 2 {
		return []domain.ShiftEntry{}
	}

	entries := make([]domain.ShiftEntry, 0)
	segments := rand.Intn(3) + 1
	for i := 0; i < segments; i++ {
		startStep := rand.Intn(stepsInWindow - 1)
		endStep := startStep + rand.Intn(stepsInWindow-startStep-1) + 1

		entries = append(entries, domain.ShiftEntry{
			StoreID:   store.ID,
			StartTime: timegrid.MinutesToClock(openMin + startStep*stepMinutes),
			EndTime:   timegrid.MinutesToClock(openMin + endStep*stepMinutes),
		})
	}

	return timegrid.MergeEntries(entries)
}

// GenerateRandomAttendanceRecord 根据某天的排班生成一条打卡记录，
// 上下班时间在排班边界附近随机偏移几分钟，模拟真实的打卡行为
func GenerateRandomAttendanceRecord(userID int64, storeID string, workDate time.Time, entry *domain.ShiftEntry) *domain.AttendanceRecord {
	dayStart := time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 0, 0, 0, 0, workDate.Location())

	clockIn := dayStart.Add(time.Duration(timegrid.ClockToMinutes(entry.StartTime)+rand.Intn(11)-5) * time.Minute)
	clockOut := dayStart.Add(time.Duration(timegrid.ClockToMinutes(entry.EndTime)+rand.Intn(11)-5) * time.Minute)

	return &domain.AttendanceRecord{
		UserID:       userID,
		StoreID:      storeID,
		WorkDate:     dayStart,
		ClockInTime:  clockIn,
		ClockOutTime: &clockOut,
	}
}
