package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/omnistore/stock-ledger/internal/domain"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Get(ctx context.Context, id int64) (*domain.InventorySession, error) {
	query := `
		SELECT id, store_id, status, created_at, completed_at
		FROM inventory_sessions
		WHERE id = $1
	`

	var session domain.InventorySession
	err := r.db.GetContext(ctx, &session, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory session: %w", err)
	}

	itemsQuery := `
		SELECT id, session_id, variation_id, theoretical_quantity, counted_quantity
		FROM inventory_count_items
		WHERE session_id = $1
		ORDER BY variation_id
	`
	if err := r.db.SelectContext(ctx, &session.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get inventory count items: %w", err)
	}

	return &session, nil
}

func (r *inventoryRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.InventorySession, error) {
	query := `
		SELECT id, store_id, status, created_at, completed_at
		FROM inventory_sessions
		WHERE id = $1
		FOR UPDATE
	`

	var session domain.InventorySession
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.StoreID, &session.Status, &session.CreatedAt, &session.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory session: %w", err)
	}

	itemsQuery := `
		SELECT id, session_id, variation_id, theoretical_quantity, counted_quantity
		FROM inventory_count_items
		WHERE session_id = $1
		ORDER BY variation_id
		FOR UPDATE
	`
	rows, err := tx.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory count items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.InventoryCountItem
		if err := rows.Scan(&item.ID, &item.SessionID, &item.VariationID, &item.TheoreticalQuantity, &item.CountedQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory count item: %w", err)
		}
		session.Items = append(session.Items, item)
	}

	return &session, rows.Err()
}

func (r *inventoryRepository) Create(ctx context.Context, tx *sql.Tx, session *domain.InventorySession) (int64, error) {
	var id int64
	query := `
		INSERT INTO inventory_sessions (store_id, status, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, session.StoreID, session.Status).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create inventory session: %w", err)
	}

	itemQuery := `
		INSERT INTO inventory_count_items (session_id, variation_id, theoretical_quantity, counted_quantity)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range session.Items {
		if _, err := stmt.ExecContext(ctx, id, item.VariationID, item.TheoreticalQuantity, item.CountedQuantity); err != nil {
			return 0, fmt.Errorf("failed to insert inventory count item: %w", err)
		}
	}

	return id, nil
}

func (r *inventoryRepository) SetCount(ctx context.Context, tx *sql.Tx, sessionID, variationID int64, counted int) error {
	query := `
		UPDATE inventory_count_items
		SET counted_quantity = $1
		WHERE session_id = $2 AND variation_id = $3
	`
	res, err := tx.ExecContext(ctx, query, counted, sessionID, variationID)
	if err != nil {
		return fmt.Errorf("failed to update counted quantity: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("variation %d is not part of session %d", variationID, sessionID)
	}

	return nil
}

func (r *inventoryRepository) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.SessionStatus, completedAt *time.Time) error {
	query := `UPDATE inventory_sessions SET status = $1, completed_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, status, completedAt, id); err != nil {
		return fmt.Errorf("failed to update inventory session status: %w", err)
	}
	return nil
}
