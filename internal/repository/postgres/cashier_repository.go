package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/omnistore/stock-ledger/internal/domain"
)

type cashierRepository struct {
	db *DB
}

func NewCashierRepository(db *DB) *cashierRepository {
	return &cashierRepository{db: db}
}

const cashierColumns = `id, user_id, store_id, started_at, ended_at, opening_balance,
	closing_balance, cash_total, card_total, mobile_total, difference`

func (r *cashierRepository) Get(ctx context.Context, id int64) (*domain.CashierSession, error) {
	query := `
		SELECT ` + cashierColumns + `
		FROM cashier_sessions
		WHERE id = $1
	`

	var session domain.CashierSession
	err := r.db.GetContext(ctx, &session, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cashier session: %w", err)
	}

	return &session, nil
}

func (r *cashierRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.CashierSession, error) {
	query := `
		SELECT ` + cashierColumns + `
		FROM cashier_sessions
		WHERE id = $1
		FOR UPDATE
	`

	var session domain.CashierSession
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.StoreID, &session.StartedAt, &session.EndedAt,
		&session.OpeningBalance, &session.ClosingBalance, &session.CashTotal,
		&session.CardTotal, &session.MobileTotal, &session.Difference,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock cashier session: %w", err)
	}

	return &session, nil
}

func (r *cashierRepository) Create(ctx context.Context, tx *sql.Tx, session *domain.CashierSession) (int64, error) {
	var id int64
	query := `
		INSERT INTO cashier_sessions (user_id, store_id, started_at, opening_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := tx.QueryRowContext(ctx, query, session.UserID, session.StoreID, session.StartedAt, session.OpeningBalance).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create cashier session: %w", err)
	}

	return id, nil
}

func (r *cashierRepository) Close(ctx context.Context, tx *sql.Tx, session *domain.CashierSession) error {
	query := `
		UPDATE cashier_sessions
		SET ended_at = $1,
			closing_balance = $2,
			cash_total = $3,
			card_total = $4,
			mobile_total = $5,
			difference = $6
		WHERE id = $7 AND ended_at IS NULL
	`
	res, err := tx.ExecContext(ctx, query,
		session.EndedAt, session.ClosingBalance, session.CashTotal,
		session.CardTotal, session.MobileTotal, session.Difference, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close cashier session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Conflictf("cashier session %d is already closed", session.ID)
	}

	return nil
}
