package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
)

func (r *Repository) CreateStore(store *domain.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO stores (id, name, address, open_time, close_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, version
	`

	args := []any{store.ID, store.Name, store.Address, store.OpenTime, store.CloseTime}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&store.CreatedAt, &store.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStoreByID(id string) (*domain.Store, error) {
	query := `
		SELECT name, address, open_time, close_time, created_at, version
		FROM stores WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	store := &domain.Store{
		ID: id,
	}

	dst := []any{&store.Name, &store.Address, &store.OpenTime, &store.CloseTime, &store.CreatedAt, &store.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return store, nil
}

func (r *Repository) GetAllStores() ([]*domain.Store, error) {
	query := `
		SELECT id, name, address, open_time, close_time, created_at, version FROM stores
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		store := &domain.Store{}
		dst := []any{&store.ID, &store.Name, &store.Address, &store.OpenTime, &store.CloseTime, &store.CreatedAt, &store.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stores, nil
}

// GetStoreMap 返回以门店编号为键的门店表，方便排班校验时按编号查找
func (r *Repository) GetStoreMap() (map[string]*domain.Store, error) {
	stores, err := r.GetAllStores()
	if err != nil {
		return nil, err
	}

	storeMap := make(map[string]*domain.Store, len(stores))
	for _, store := range stores {
		storeMap[store.ID] = store
	}

	return storeMap, nil
}

func (r *Repository) UpdateStore(store *domain.Store) error {
	query := `
		UPDATE stores
		SET
			name = $1,
			address = $2,
			open_time = $3,
			close_time = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{store.Name, store.Address, store.OpenTime, store.CloseTime, store.ID, store.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&store.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStore(id string) error {
	query := `
		DELETE FROM stores WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
