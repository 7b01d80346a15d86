package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/omnistore/stock-ledger/internal/domain"
)

// catalogRepository is a read-only view into the catalog tables, which
// are owned and written by the catalog service.
type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Threshold(ctx context.Context, variationID int64) (int, bool, error) {
	query := `SELECT low_stock_threshold FROM catalog_variations WHERE id = $1`

	var threshold sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, variationID).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get threshold: %w", err)
	}
	if !threshold.Valid {
		return 0, false, nil
	}

	return int(threshold.Int64), true, nil
}

func (r *catalogRepository) DisplayInfo(ctx context.Context, variationID int64) (*domain.VariationInfo, error) {
	query := `SELECT id, sku, name FROM catalog_variations WHERE id = $1`

	var info domain.VariationInfo
	err := r.db.GetContext(ctx, &info, query, variationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get variation info: %w", err)
	}

	return &info, nil
}
