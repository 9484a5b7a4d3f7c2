package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func (r *Repository) CreateApprovalRequest(request *domain.ApprovalRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO approval_requests (serial_number, user_id, store_id, type, target_date, reason, payload, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	args := []any{request.SerialNumber, request.UserID, request.StoreID, request.Type, request.TargetDate, request.Reason, request.Payload, request.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.CreatedAt, &request.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetApprovalRequestByID(id int64) (*domain.ApprovalRequest, error) {
	query := `
		SELECT serial_number, user_id, store_id, type, target_date, reason, payload, status, reviewer_id, review_comment, created_at, reviewed_at, version
		FROM approval_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.ApprovalRequest{
		ID: id,
	}

	dst := []any{
		&request.SerialNumber,
		&request.UserID,
		&request.StoreID,
		&request.Type,
		&request.TargetDate,
		&request.Reason,
		&request.Payload,
		&request.Status,
		&request.ReviewerID,
		&request.ReviewComment,
		&request.CreatedAt,
		&request.ReviewedAt,
		&request.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) getApprovalRequests(query string, args ...any) ([]*domain.ApprovalRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.ApprovalRequest, 0)
	for rows.Next() {
		request := &domain.ApprovalRequest{}
		dst := []any{
			&request.ID,
			&request.SerialNumber,
			&request.UserID,
			&request.StoreID,
			&request.Type,
			&request.TargetDate,
			&request.Reason,
			&request.Payload,
			&request.Status,
			&request.ReviewerID,
			&request.ReviewComment,
			&request.CreatedAt,
			&request.ReviewedAt,
			&request.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) GetApprovalRequestsByUser(userID int64) ([]*domain.ApprovalRequest, error) {
	query := `
		SELECT id, serial_number, user_id, store_id, type, target_date, reason, payload, status, reviewer_id, review_comment, created_at, reviewed_at, version
		FROM approval_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.getApprovalRequests(query, userID)
}

func (r *Repository) GetApprovalRequestsByStore(storeID string) ([]*domain.ApprovalRequest, error) {
	query := `
		SELECT id, serial_number, user_id, store_id, type, target_date, reason, payload, status, reviewer_id, review_comment, created_at, reviewed_at, version
		FROM approval_requests
		WHERE store_id = $1
		ORDER BY created_at DESC
	`
	return r.getApprovalRequests(query, storeID)
}

func (r *Repository) GetAllApprovalRequests() ([]*domain.ApprovalRequest, error) {
	query := `
		SELECT id, serial_number, user_id, store_id, type, target_date, reason, payload, status, reviewer_id, review_comment, created_at, reviewed_at, version
		FROM approval_requests
		ORDER BY created_at DESC
	`
	return r.getApprovalRequests(query)
}

// UpdateApprovalRequest 写入审批结果，
// 只有还处于待审批状态的申请才能被更新，避免重复审批
func (r *Repository) UpdateApprovalRequest(request *domain.ApprovalRequest) error {
	query := `
		UPDATE approval_requests
		SET
			status = $1,
			reviewer_id = $2,
			review_comment = $3,
			reviewed_at = $4,
			version = version + 1
		WHERE id = $5 AND version = $6 AND status = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{request.Status, request.ReviewerID, request.ReviewComment, request.ReviewedAt, request.ID, request.Version, domain.ApprovalStatusPending}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.Version); err != nil {
		return err
	}

	return nil
}
