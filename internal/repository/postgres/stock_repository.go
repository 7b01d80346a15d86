package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/omnistore/stock-ledger/internal/domain"
)

type stockRepository struct {
	db *DB
}

func NewStockRepository(db *DB) *stockRepository {
	return &stockRepository{db: db}
}

const stockColumns = `id, store_id, variation_id, quantity, created_at, updated_at`

func (r *stockRepository) Get(ctx context.Context, storeID, variationID int64) (*domain.StockEntry, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_entries
		WHERE store_id = $1 AND variation_id = $2
	`

	var entry domain.StockEntry
	err := r.db.GetContext(ctx, &entry, query, storeID, variationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock entry: %w", err)
	}

	return &entry, nil
}

func (r *stockRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, storeID, variationID int64) (*domain.StockEntry, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_entries
		WHERE store_id = $1 AND variation_id = $2
		FOR UPDATE
	`

	var entry domain.StockEntry
	err := tx.QueryRowContext(ctx, query, storeID, variationID).Scan(
		&entry.ID, &entry.StoreID, &entry.VariationID, &entry.Quantity, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock entry: %w", err)
	}

	return &entry, nil
}

func (r *stockRepository) Upsert(ctx context.Context, tx *sql.Tx, storeID, variationID int64, quantity int) error {
	query := `
		INSERT INTO stock_entries (store_id, variation_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (store_id, variation_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			updated_at = NOW()
	`

	if _, err := tx.ExecContext(ctx, query, storeID, variationID, quantity); err != nil {
		return fmt.Errorf("failed to upsert stock entry: %w", err)
	}

	return nil
}

func (r *stockRepository) ListByStore(ctx context.Context, tx *sql.Tx, storeID int64) ([]domain.StockEntry, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_entries
		WHERE store_id = $1
		ORDER BY variation_id
	`

	rows, err := tx.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.StockEntry
	for rows.Next() {
		var entry domain.StockEntry
		if err := rows.Scan(&entry.ID, &entry.StoreID, &entry.VariationID, &entry.Quantity, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) *storeRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Get(ctx context.Context, id int64) (*domain.Store, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var store domain.Store
	err := r.db.GetContext(ctx, &store, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return &store, nil
}
