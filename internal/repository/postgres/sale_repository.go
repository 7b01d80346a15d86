package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnistore/stock-ledger/internal/domain"
)

type saleRepository struct {
	db *DB
}

func NewSaleRepository(db *DB) *saleRepository {
	return &saleRepository{db: db}
}

// GetForUpdate locks the sales row for the rest of the transaction. The
// sale itself is immutable; the lock serializes concurrent returns
// against the same sale so the returned-quantity cap holds.
func (r *saleRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Sale, error) {
	query := `
		SELECT id, store_id, created_at
		FROM sales
		WHERE id = $1
		FOR UPDATE
	`

	var sale domain.Sale
	err := tx.QueryRowContext(ctx, query, id).Scan(&sale.ID, &sale.StoreID, &sale.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock sale: %w", err)
	}

	itemsQuery := `
		SELECT id, sale_id, variation_id, quantity, unit_price
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id
	`
	rows, err := tx.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.VariationID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}

	return &sale, rows.Err()
}

func (r *saleRepository) SumPaymentsByMethod(ctx context.Context, tx *sql.Tx, storeID int64, since time.Time) (map[domain.PaymentMethod]decimal.Decimal, error) {
	query := `
		SELECT p.method, COALESCE(SUM(p.amount), 0) AS total
		FROM payments p
		JOIN sales s ON p.sale_id = s.id
		WHERE s.store_id = $1 AND s.created_at >= $2
		GROUP BY p.method
	`

	// A nil tx is a plain pooled read; inside a unit of work the
	// aggregation shares the transaction's snapshot.
	var q interface {
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	} = r.db
	if tx != nil {
		q = tx
	}

	rows, err := q.QueryContext(ctx, query, storeID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.PaymentMethod]decimal.Decimal)
	for rows.Next() {
		var (
			method domain.PaymentMethod
			total  decimal.Decimal
		)
		if err := rows.Scan(&method, &total); err != nil {
			return nil, fmt.Errorf("failed to scan payment total: %w", err)
		}
		totals[method] = total
	}

	return totals, rows.Err()
}

func (r *saleRepository) SalesCountAndTotal(ctx context.Context, storeID int64, since time.Time) (int, decimal.Decimal, error) {
	query := `
		SELECT COUNT(DISTINCT s.id), COALESCE(SUM(p.amount), 0)
		FROM sales s
		LEFT JOIN payments p ON p.sale_id = s.id
		WHERE s.store_id = $1 AND s.created_at >= $2
	`

	var (
		count int
		total decimal.Decimal
	)
	if err := r.db.QueryRowContext(ctx, query, storeID, since).Scan(&count, &total); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	return count, total, nil
}

func (r *saleRepository) ReturnedQuantities(ctx context.Context, tx *sql.Tx, saleID int64) (map[int64]int, error) {
	query := `
		SELECT ri.variation_id, COALESCE(SUM(ri.quantity), 0)
		FROM sale_return_items ri
		JOIN sale_returns ret ON ri.return_id = ret.id
		WHERE ret.sale_id = $1
		GROUP BY ri.variation_id
	`

	rows, err := tx.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum returned quantities: %w", err)
	}
	defer rows.Close()

	returned := make(map[int64]int)
	for rows.Next() {
		var (
			variationID int64
			quantity    int
		)
		if err := rows.Scan(&variationID, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan returned quantity: %w", err)
		}
		returned[variationID] = quantity
	}

	return returned, rows.Err()
}

func (r *saleRepository) CreateReturn(ctx context.Context, tx *sql.Tx, ret *domain.SaleReturn) (int64, error) {
	var id int64
	query := `
		INSERT INTO sale_returns (sale_id, created_at)
		VALUES ($1, NOW())
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, ret.SaleID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create sale return: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_return_items (return_id, variation_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range ret.Items {
		if _, err := stmt.ExecContext(ctx, id, item.VariationID, item.Quantity, item.UnitPrice); err != nil {
			return 0, fmt.Errorf("failed to insert sale return item: %w", err)
		}
	}

	return id, nil
}
