package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func (r *Repository) CreateAllowance(allowance *domain.Allowance) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO allowances (user_id, store_id, allowance_date, amount_cents, reason, approval_request_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{allowance.UserID, allowance.StoreID, allowance.AllowanceDate, allowance.AmountCents, allowance.Reason, allowance.ApprovalRequestID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&allowance.ID, &allowance.CreatedAt, &allowance.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllowancesByUserInRange(userID int64, from, to time.Time) ([]*domain.Allowance, error) {
	query := `
		SELECT id, store_id, allowance_date, amount_cents, reason, approval_request_id, created_at, version
		FROM allowances
		WHERE user_id = $1 AND allowance_date >= $2 AND allowance_date <= $3
		ORDER BY allowance_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allowances := make([]*domain.Allowance, 0)
	for rows.Next() {
		allowance := &domain.Allowance{UserID: userID}
		dst := []any{&allowance.ID, &allowance.StoreID, &allowance.AllowanceDate, &allowance.AmountCents, &allowance.Reason, &allowance.ApprovalRequestID, &allowance.CreatedAt, &allowance.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		allowances = append(allowances, allowance)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return allowances, nil
}

func (r *Repository) GetAllowancesByStoreInRange(storeID string, from, to time.Time) ([]*domain.Allowance, error) {
	query := `
		SELECT id, user_id, allowance_date, amount_cents, reason, approval_request_id, created_at, version
		FROM allowances
		WHERE store_id = $1 AND allowance_date >= $2 AND allowance_date <= $3
		ORDER BY allowance_date, user_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allowances := make([]*domain.Allowance, 0)
	for rows.Next() {
		allowance := &domain.Allowance{StoreID: storeID}
		dst := []any{&allowance.ID, &allowance.UserID, &allowance.AllowanceDate, &allowance.AmountCents, &allowance.Reason, &allowance.ApprovalRequestID, &allowance.CreatedAt, &allowance.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		allowances = append(allowances, allowance)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return allowances, nil
}
