package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func (r *Repository) GetShiftScheduleByUserAndDate(userID int64, date time.Time) (*domain.ShiftSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ss.id,
			ss.created_at,
			ss.version,
			sse.store_id,
			sse.start_time,
			sse.end_time,
			sse.note
		FROM shift_schedules ss
		LEFT JOIN shift_schedule_entries sse ON ss.id = sse.schedule_id
		WHERE ss.user_id = $1 AND ss.schedule_date = $2
		ORDER BY sse.store_id, sse.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule := &domain.ShiftSchedule{
		UserID:       userID,
		ScheduleDate: date,
		Entries:      make([]domain.ShiftEntry, 0),
	}
	found := false

	for rows.Next() {
		found = true

		var row struct {
			ID        int64
			CreatedAt time.Time
			Version   int32

			StoreID   sql.NullString
			StartTime sql.NullString
			EndTime   sql.NullString
			Note      sql.NullString
		}

		dst := []any{&row.ID, &row.CreatedAt, &row.Version, &row.StoreID, &row.StartTime, &row.EndTime, &row.Note}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		schedule.ID = row.ID
		schedule.CreatedAt = row.CreatedAt
		schedule.Version = row.Version

		// store_id 为空表示这一天的排班是空的（所有区间都被擦掉了）
		if !row.StoreID.Valid {
			continue
		}

		schedule.Entries = append(schedule.Entries, domain.ShiftEntry{
			StoreID:   row.StoreID.String,
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			Note:      row.Note.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return schedule, nil
}

func (r *Repository) CreateShiftSchedule(schedule *domain.ShiftSchedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shift_schedules (user_id, schedule_date)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, schedule.UserID, schedule.ScheduleDate).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	for i := range schedule.Entries {
		query = `
			INSERT INTO shift_schedule_entries (schedule_id, store_id, start_time, end_time, note)
			VALUES ($1, $2, $3, $4, $5)
		`
		params := []any{schedule.ID, schedule.Entries[i].StoreID, schedule.Entries[i].StartTime, schedule.Entries[i].EndTime, schedule.Entries[i].Note}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateShiftSchedule 用新的区间列表整体替换某天的排班，
// 通过 version 列做乐观锁，并发更新时后提交的一方会拿到 sql.ErrNoRows
func (r *Repository) UpdateShiftSchedule(schedule *domain.ShiftSchedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE shift_schedules
		SET version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, schedule.ID, schedule.Version).Scan(&schedule.Version); err != nil {
		return err
	}

	query = `
		DELETE FROM shift_schedule_entries WHERE schedule_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, schedule.ID); err != nil {
		return err
	}

	for i := range schedule.Entries {
		query = `
			INSERT INTO shift_schedule_entries (schedule_id, store_id, start_time, end_time, note)
			VALUES ($1, $2, $3, $4, $5)
		`
		params := []any{schedule.ID, schedule.Entries[i].StoreID, schedule.Entries[i].StartTime, schedule.Entries[i].EndTime, schedule.Entries[i].Note}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftSchedulesByUserInRange(userID int64, from, to time.Time) ([]*domain.ShiftSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ss.id,
			ss.schedule_date,
			ss.created_at,
			ss.version,
			sse.store_id,
			sse.start_time,
			sse.end_time,
			sse.note
		FROM shift_schedules ss
		LEFT JOIN shift_schedule_entries sse ON ss.id = sse.schedule_id
		WHERE ss.user_id = $1 AND ss.schedule_date >= $2 AND ss.schedule_date <= $3
		ORDER BY ss.schedule_date, sse.store_id, sse.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.ShiftSchedule, 0)
	var current *domain.ShiftSchedule

	for rows.Next() {
		var row struct {
			ID           int64
			ScheduleDate time.Time
			CreatedAt    time.Time
			Version      int32

			StoreID   sql.NullString
			StartTime sql.NullString
			EndTime   sql.NullString
			Note      sql.NullString
		}

		dst := []any{&row.ID, &row.ScheduleDate, &row.CreatedAt, &row.Version, &row.StoreID, &row.StartTime, &row.EndTime, &row.Note}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		// 行已经按日期排序，遇到新的 schedule_id 时开启一条新的排班记录
		if current == nil || current.ID != row.ID {
			current = &domain.ShiftSchedule{
				ID:           row.ID,
				UserID:       userID,
				ScheduleDate: row.ScheduleDate,
				Entries:      make([]domain.ShiftEntry, 0),
				CreatedAt:    row.CreatedAt,
				Version:      row.Version,
			}
			schedules = append(schedules, current)
		}

		if !row.StoreID.Valid {
			continue
		}

		current.Entries = append(current.Entries, domain.ShiftEntry{
			StoreID:   row.StoreID.String,
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			Note:      row.Note.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// GetShiftSchedulesByStoreAndDate 查出某个门店某一天的所有排班（含其他人），
// 店长排班和月度报表都会用到
func (r *Repository) GetShiftSchedulesByStoreAndRange(storeID string, from, to time.Time) ([]*domain.ShiftSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ss.id,
			ss.user_id,
			ss.schedule_date,
			ss.created_at,
			ss.version,
			sse.store_id,
			sse.start_time,
			sse.end_time,
			sse.note
		FROM shift_schedules ss
		JOIN shift_schedule_entries sse ON ss.id = sse.schedule_id
		WHERE sse.store_id = $1 AND ss.schedule_date >= $2 AND ss.schedule_date <= $3
		ORDER BY ss.schedule_date, ss.user_id, sse.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.ShiftSchedule, 0)
	var current *domain.ShiftSchedule

	for rows.Next() {
		var row struct {
			ID           int64
			UserID       int64
			ScheduleDate time.Time
			CreatedAt    time.Time
			Version      int32

			StoreID   string
			StartTime string
			EndTime   string
			Note      string
		}

		dst := []any{&row.ID, &row.UserID, &row.ScheduleDate, &row.CreatedAt, &row.Version, &row.StoreID, &row.StartTime, &row.EndTime, &row.Note}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if current == nil || current.ID != row.ID {
			current = &domain.ShiftSchedule{
				ID:           row.ID,
				UserID:       row.UserID,
				ScheduleDate: row.ScheduleDate,
				Entries:      make([]domain.ShiftEntry, 0),
				CreatedAt:    row.CreatedAt,
				Version:      row.Version,
			}
			schedules = append(schedules, current)
		}

		current.Entries = append(current.Entries, domain.ShiftEntry{
			StoreID:   row.StoreID,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Note:      row.Note,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}
