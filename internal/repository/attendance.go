package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func (r *Repository) CreateAttendanceRecord(record *domain.AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO attendance_records (user_id, store_id, work_date, clock_in_time, clock_out_time, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{record.UserID, record.StoreID, record.WorkDate, record.ClockInTime, record.ClockOutTime, record.Note}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CreatedAt, &record.Version); err != nil {
		return err
	}

	return nil
}

// GetOpenAttendanceRecord 查出某个员工还没有下班打卡的记录，
// 不存在时返回 sql.ErrNoRows
func (r *Repository) GetOpenAttendanceRecord(userID int64) (*domain.AttendanceRecord, error) {
	query := `
		SELECT id, store_id, work_date, clock_in_time, note, created_at, version
		FROM attendance_records
		WHERE user_id = $1 AND clock_out_time IS NULL
		ORDER BY clock_in_time DESC
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	record := &domain.AttendanceRecord{
		UserID: userID,
	}

	dst := []any{&record.ID, &record.StoreID, &record.WorkDate, &record.ClockInTime, &record.Note, &record.CreatedAt, &record.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) UpdateAttendanceRecord(record *domain.AttendanceRecord) error {
	query := `
		UPDATE attendance_records
		SET
			clock_in_time = $1,
			clock_out_time = $2,
			note = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{record.ClockInTime, record.ClockOutTime, record.Note, record.ID, record.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAttendanceRecordByUserAndDate(userID int64, workDate time.Time) (*domain.AttendanceRecord, error) {
	query := `
		SELECT id, store_id, clock_in_time, clock_out_time, note, created_at, version
		FROM attendance_records
		WHERE user_id = $1 AND work_date = $2
		ORDER BY clock_in_time DESC
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	record := &domain.AttendanceRecord{
		UserID:   userID,
		WorkDate: workDate,
	}

	dst := []any{&record.ID, &record.StoreID, &record.ClockInTime, &record.ClockOutTime, &record.Note, &record.CreatedAt, &record.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, workDate).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) GetAttendanceRecordsByUserInRange(userID int64, from, to time.Time) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT id, store_id, work_date, clock_in_time, clock_out_time, note, created_at, version
		FROM attendance_records
		WHERE user_id = $1 AND work_date >= $2 AND work_date <= $3
		ORDER BY work_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		record := &domain.AttendanceRecord{UserID: userID}
		dst := []any{&record.ID, &record.StoreID, &record.WorkDate, &record.ClockInTime, &record.ClockOutTime, &record.Note, &record.CreatedAt, &record.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) GetAttendanceRecordsByStoreInRange(storeID string, from, to time.Time) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT id, user_id, work_date, clock_in_time, clock_out_time, note, created_at, version
		FROM attendance_records
		WHERE store_id = $1 AND work_date >= $2 AND work_date <= $3
		ORDER BY work_date, user_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		record := &domain.AttendanceRecord{StoreID: storeID}
		dst := []any{&record.ID, &record.UserID, &record.WorkDate, &record.ClockInTime, &record.ClockOutTime, &record.Note, &record.CreatedAt, &record.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
