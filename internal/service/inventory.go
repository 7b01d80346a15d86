package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// CountInput is one counted item of an updateCounts call.
type CountInput struct {
	VariationID     int64 `json:"variation_id" binding:"required"`
	CountedQuantity int   `json:"counted_quantity"`
}

// InventorySessionWorkflow drives physical stock counts: snapshot the
// store's stock, record counted figures, then commit the counted values
// over the ledger. Confirm is the only operation that overwrites stock
// absolutely rather than by delta.
type InventorySessionWorkflow struct {
	uow      repository.UnitOfWork
	sessions repository.InventoryRepository
	stock    repository.StockRepository
	notifier *LowStockNotifier
	audit    *Auditor
}

func NewInventorySessionWorkflow(uow repository.UnitOfWork, sessions repository.InventoryRepository, stock repository.StockRepository, notifier *LowStockNotifier, audit *Auditor) *InventorySessionWorkflow {
	return &InventorySessionWorkflow{uow: uow, sessions: sessions, stock: stock, notifier: notifier, audit: audit}
}

// Start opens an IN_PROGRESS session snapshotting every current stock
// entry of the store as its theoretical quantity.
func (w *InventorySessionWorkflow) Start(ctx context.Context, actor domain.Actor, storeID int64) (*domain.InventorySession, error) {
	storeID, err := actor.ResolveStore(storeID)
	if err != nil {
		return nil, err
	}

	var sessionID int64
	err = w.uow.WithTx(ctx, func(tx *sql.Tx) error {
		entries, err := w.stock.ListByStore(ctx, tx, storeID)
		if err != nil {
			return err
		}

		session := &domain.InventorySession{
			StoreID: storeID,
			Status:  domain.SessionInProgress,
		}
		for _, entry := range entries {
			session.Items = append(session.Items, domain.InventoryCountItem{
				VariationID:         entry.VariationID,
				TheoreticalQuantity: entry.Quantity,
			})
		}

		sessionID, err = w.sessions.Create(ctx, tx, session)
		if err != nil {
			return err
		}

		w.audit.Record(ctx, tx, actor, "inventory.start", "inventory_session", sessionID,
			fmt.Sprintf("store=%d items=%d", storeID, len(session.Items)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.sessions.Get(ctx, sessionID)
}

// UpdateCounts writes counted quantities for the named items. With
// finalize the session moves to REVIEW whether or not every item has
// been counted; Confirm is where completeness is enforced.
func (w *InventorySessionWorkflow) UpdateCounts(ctx context.Context, actor domain.Actor, sessionID int64, counts []CountInput, finalize bool) (*domain.InventorySession, error) {
	for _, count := range counts {
		if count.VariationID <= 0 {
			return nil, domain.Validationf("variation id is required")
		}
		if count.CountedQuantity < 0 {
			return nil, domain.Validationf("counted quantity must be a non-negative integer")
		}
	}

	err := w.uow.WithTx(ctx, func(tx *sql.Tx) error {
		session, err := w.sessions.GetForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.NotFoundf("inventory session %d not found", sessionID)
		}
		if _, err := actor.ResolveStore(session.StoreID); err != nil {
			return err
		}
		if session.Status == domain.SessionCompleted {
			return domain.Conflictf("inventory session %d is completed and immutable", sessionID)
		}

		for _, count := range counts {
			if err := w.sessions.SetCount(ctx, tx, sessionID, count.VariationID, count.CountedQuantity); err != nil {
				return err
			}
		}

		if finalize && session.Status != domain.SessionReview {
			if err := w.sessions.SetStatus(ctx, tx, sessionID, domain.SessionReview, nil); err != nil {
				return err
			}
		}

		w.audit.Record(ctx, tx, actor, "inventory.update_counts", "inventory_session", sessionID,
			fmt.Sprintf("counts=%d finalize=%t", len(counts), finalize))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.sessions.Get(ctx, sessionID)
}

// Confirm commits the counted figures over the ledger. It requires the
// session to be in REVIEW with every item counted, and emits one audit
// record per item showing before and after.
func (w *InventorySessionWorkflow) Confirm(ctx context.Context, actor domain.Actor, sessionID int64) error {
	return w.uow.WithTx(ctx, func(tx *sql.Tx) error {
		session, err := w.sessions.GetForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.NotFoundf("inventory session %d not found", sessionID)
		}
		if _, err := actor.ResolveStore(session.StoreID); err != nil {
			return err
		}
		if session.Status != domain.SessionReview {
			return domain.Conflictf("inventory session %d is not in REVIEW (current status %s)", sessionID, session.Status)
		}
		for _, item := range session.Items {
			if !item.Counted() {
				return domain.Conflictf("uncounted items remain in session %d", sessionID)
			}
		}

		for _, item := range session.Items {
			before := 0
			entry, err := w.stock.GetForUpdate(ctx, tx, session.StoreID, item.VariationID)
			if err != nil {
				return err
			}
			if entry != nil {
				before = entry.Quantity
			}

			counted := *item.CountedQuantity
			if err := w.stock.Upsert(ctx, tx, session.StoreID, item.VariationID, counted); err != nil {
				return err
			}

			w.audit.Record(ctx, tx, actor, "inventory.confirm", "stock_entry", item.VariationID,
				fmt.Sprintf("store=%d session=%d before=%d after=%d", session.StoreID, sessionID, before, counted))
			w.notifier.Check(ctx, tx, session.StoreID, item.VariationID, counted)
		}

		now := time.Now()
		return w.sessions.SetStatus(ctx, tx, sessionID, domain.SessionCompleted, &now)
	})
}
