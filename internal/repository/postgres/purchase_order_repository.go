package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/omnistore/stock-ledger/internal/domain"
)

type purchaseOrderRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) *purchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Get(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, store_id, status, created_at
		FROM purchase_orders
		WHERE id = $1
	`

	var order domain.PurchaseOrder
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, variation_id, ordered_quantity, received_quantity, price
		FROM purchase_order_items
		WHERE order_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &order.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get purchase order items: %w", err)
	}

	return &order, nil
}

func (r *purchaseOrderRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, store_id, status, created_at
		FROM purchase_orders
		WHERE id = $1
		FOR UPDATE
	`

	var order domain.PurchaseOrder
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.SupplierID, &order.StoreID, &order.Status, &order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock purchase order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, variation_id, ordered_quantity, received_quantity, price
		FROM purchase_order_items
		WHERE order_id = $1
		ORDER BY id
		FOR UPDATE
	`
	rows, err := tx.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock purchase order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.VariationID, &item.OrderedQuantity, &item.ReceivedQuantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

func (r *purchaseOrderRepository) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.POStatus) error {
	query := `UPDATE purchase_orders SET status = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}
	return nil
}

func (r *purchaseOrderRepository) SetItemReceived(ctx context.Context, tx *sql.Tx, itemID int64, received int) error {
	query := `UPDATE purchase_order_items SET received_quantity = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, received, itemID); err != nil {
		return fmt.Errorf("failed to update received quantity: %w", err)
	}
	return nil
}

func (r *purchaseOrderRepository) ReplaceItems(ctx context.Context, tx *sql.Tx, orderID int64, items []domain.PurchaseOrderItem) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to clear purchase order items: %w", err)
	}

	query := `
		INSERT INTO purchase_order_items (order_id, variation_id, ordered_quantity, received_quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, orderID, item.VariationID, item.OrderedQuantity, item.ReceivedQuantity, item.Price); err != nil {
			return fmt.Errorf("failed to insert purchase order item: %w", err)
		}
	}

	return nil
}
