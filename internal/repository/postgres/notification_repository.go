package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/omnistore/stock-ledger/internal/domain"
)

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, store_id, variation_id, type, message, read, created_at, updated_at`

func (r *notificationRepository) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE id = $1
	`

	var n domain.Notification
	err := r.db.GetContext(ctx, &n, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &n, nil
}

func (r *notificationRepository) FindUnread(ctx context.Context, tx *sql.Tx, storeID, variationID int64) (*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE store_id = $1 AND variation_id = $2 AND read = FALSE
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`

	var n domain.Notification
	err := tx.QueryRowContext(ctx, query, storeID, variationID).Scan(
		&n.ID, &n.StoreID, &n.VariationID, &n.Type, &n.Message, &n.Read, &n.CreatedAt, &n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find unread notification: %w", err)
	}

	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, tx *sql.Tx, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (store_id, variation_id, type, message, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
	`
	if _, err := tx.ExecContext(ctx, query, n.StoreID, n.VariationID, n.Type, n.Message); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Touch(ctx context.Context, tx *sql.Tx, id int64, message string) error {
	query := `UPDATE notifications SET message = $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, message, id); err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, storeID int64, unreadOnly bool) ([]domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE store_id = $1 AND ($2 = FALSE OR read = FALSE)
		ORDER BY updated_at DESC
	`

	var notifications []domain.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, storeID, unreadOnly); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET read = TRUE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("notification %d not found", id)
	}

	return nil
}
