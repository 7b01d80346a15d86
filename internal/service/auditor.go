package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// Auditor records one audit row per mutation inside the mutation's own
// unit of work. Recording is best-effort: a failed audit write is
// logged and never fails the call that triggered it.
type Auditor struct {
	repo repository.AuditRepository
}

func NewAuditor(repo repository.AuditRepository) *Auditor {
	return &Auditor{repo: repo}
}

func (a *Auditor) Record(ctx context.Context, tx *sql.Tx, actor domain.Actor, action, entityType string, entityID int64, details string) {
	if a == nil || a.repo == nil {
		return
	}

	entry := &domain.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor.Name,
		Details:    details,
	}

	if err := a.repo.Record(ctx, tx, entry); err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Int64("entity_id", entityID).
			Msg("failed to record audit entry")
	}
}
