package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// TransferItem is one line of a multi-item inter-store transfer.
type TransferItem struct {
	VariationID int64 `json:"variation_id" binding:"required"`
	Quantity    int   `json:"quantity" binding:"required"`
}

// StockLedger owns per-store per-item quantities. Every other workflow
// funnels its stock mutations through here.
type StockLedger struct {
	uow      repository.UnitOfWork
	stock    repository.StockRepository
	notifier *LowStockNotifier
	audit    *Auditor
}

func NewStockLedger(uow repository.UnitOfWork, stock repository.StockRepository, notifier *LowStockNotifier, audit *Auditor) *StockLedger {
	return &StockLedger{uow: uow, stock: stock, notifier: notifier, audit: audit}
}

// Adjust sets the absolute quantity for a (store, variation) pair,
// creating the entry if absent.
func (s *StockLedger) Adjust(ctx context.Context, actor domain.Actor, storeID, variationID int64, newQuantity int) error {
	storeID, err := actor.ResolveStore(storeID)
	if err != nil {
		return err
	}
	if variationID <= 0 {
		return domain.Validationf("variation id is required")
	}
	if newQuantity < 0 {
		return domain.Validationf("quantity must be a non-negative integer")
	}

	return s.uow.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.stock.Upsert(ctx, tx, storeID, variationID, newQuantity); err != nil {
			return err
		}

		s.audit.Record(ctx, tx, actor, "stock.adjust", "stock_entry", variationID,
			fmt.Sprintf("store=%d quantity=%d", storeID, newQuantity))
		s.notifier.Check(ctx, tx, storeID, variationID, newQuantity)
		return nil
	})
}

// Transfer moves quantities of one or more variations between two
// stores in one unit of work. Any shortfall anywhere in the batch
// fails the whole call; no stock entry is left mutated.
func (s *StockLedger) Transfer(ctx context.Context, actor domain.Actor, fromStoreID, toStoreID int64, items []TransferItem) error {
	fromStoreID, err := actor.ResolveStore(fromStoreID)
	if err != nil {
		return err
	}
	if toStoreID <= 0 {
		return domain.Validationf("destination store id is required")
	}
	if toStoreID == fromStoreID {
		return domain.Validationf("source and destination stores must differ")
	}
	if len(items) == 0 {
		return domain.Validationf("at least one item is required")
	}
	for _, item := range items {
		if item.VariationID <= 0 {
			return domain.Validationf("variation id is required")
		}
		if item.Quantity <= 0 {
			return domain.Validationf("transfer quantity must be a positive integer")
		}
	}

	return s.uow.WithTx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			source, err := s.stock.GetForUpdate(ctx, tx, fromStoreID, item.VariationID)
			if err != nil {
				return err
			}

			have := 0
			if source != nil {
				have = source.Quantity
			}
			if have < item.Quantity {
				return domain.Conflictf("insufficient stock for variation %d in store %d: have %d, need %d",
					item.VariationID, fromStoreID, have, item.Quantity)
			}

			if err := s.stock.Upsert(ctx, tx, fromStoreID, item.VariationID, have-item.Quantity); err != nil {
				return err
			}

			dest, err := s.stock.GetForUpdate(ctx, tx, toStoreID, item.VariationID)
			if err != nil {
				return err
			}
			destHave := 0
			if dest != nil {
				destHave = dest.Quantity
			}
			if err := s.stock.Upsert(ctx, tx, toStoreID, item.VariationID, destHave+item.Quantity); err != nil {
				return err
			}

			s.audit.Record(ctx, tx, actor, "stock.transfer", "stock_entry", item.VariationID,
				fmt.Sprintf("from=%d to=%d quantity=%d", fromStoreID, toStoreID, item.Quantity))
			s.notifier.Check(ctx, tx, fromStoreID, item.VariationID, have-item.Quantity)
			s.notifier.Check(ctx, tx, toStoreID, item.VariationID, destHave+item.Quantity)
		}

		return nil
	})
}

// receiveIntoStock is the shared increment path used by purchase-order
// receiving and sale returns: add quantity to the destination store's
// entry, creating it if absent, and run the low-stock check.
func (s *StockLedger) receiveIntoStock(ctx context.Context, tx *sql.Tx, storeID, variationID int64, quantity int) (int, error) {
	entry, err := s.stock.GetForUpdate(ctx, tx, storeID, variationID)
	if err != nil {
		return 0, err
	}

	current := 0
	if entry != nil {
		current = entry.Quantity
	}

	newQuantity := current + quantity
	if err := s.stock.Upsert(ctx, tx, storeID, variationID, newQuantity); err != nil {
		return 0, err
	}

	s.notifier.Check(ctx, tx, storeID, variationID, newQuantity)
	return newQuantity, nil
}
