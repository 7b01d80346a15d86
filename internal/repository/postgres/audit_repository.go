package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omnistore/stock-ledger/internal/domain"
)

type auditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) *auditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, tx *sql.Tx, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, action, entity_type, entity_id, actor, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	if _, err := tx.ExecContext(ctx, query, entry.ID, entry.Action, entry.EntityType, entry.EntityID, entry.Actor, entry.Details); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}
