package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// ReceiveItem is one delivered line of a receive call.
type ReceiveItem struct {
	VariationID int64 `json:"variation_id" binding:"required"`
	Quantity    int   `json:"quantity" binding:"required"`
}

// OrderItemInput is one order line in a DRAFT edit.
type OrderItemInput struct {
	VariationID     int64           `json:"variation_id" binding:"required"`
	OrderedQuantity int             `json:"ordered_quantity" binding:"required"`
	Price           decimal.Decimal `json:"price"`
}

// OrderPatch carries the caller-requested changes to an order. A nil
// Status leaves the status untouched; nil Items leaves the lines alone.
type OrderPatch struct {
	Status *domain.POStatus
	Items  []OrderItemInput
}

// PurchaseOrderWorkflow gates when supplier-order quantities may enter
// the ledger: explicit status moves follow the transition table, and
// receiving drives RECEIVED / PARTIALLY_RECEIVED from line totals.
type PurchaseOrderWorkflow struct {
	uow    repository.UnitOfWork
	orders repository.PurchaseOrderRepository
	ledger *StockLedger
	audit  *Auditor
}

func NewPurchaseOrderWorkflow(uow repository.UnitOfWork, orders repository.PurchaseOrderRepository, ledger *StockLedger, audit *Auditor) *PurchaseOrderWorkflow {
	return &PurchaseOrderWorkflow{uow: uow, orders: orders, ledger: ledger, audit: audit}
}

// Get returns an order the actor is allowed to see.
func (w *PurchaseOrderWorkflow) Get(ctx context.Context, actor domain.Actor, orderID int64) (*domain.PurchaseOrder, error) {
	order, err := w.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundf("purchase order %d not found", orderID)
	}
	if _, err := actor.ResolveStore(order.StoreID); err != nil {
		return nil, err
	}
	return order, nil
}

// Update applies a status move and/or a line edit. Line edits are only
// legal while the order is in DRAFT; status moves must follow the
// transition table.
func (w *PurchaseOrderWorkflow) Update(ctx context.Context, actor domain.Actor, orderID int64, patch OrderPatch) (*domain.PurchaseOrder, error) {
	if patch.Status == nil && patch.Items == nil {
		return nil, domain.Validationf("nothing to update")
	}
	for _, item := range patch.Items {
		if item.VariationID <= 0 {
			return nil, domain.Validationf("variation id is required")
		}
		if item.OrderedQuantity <= 0 {
			return nil, domain.Validationf("ordered quantity must be a positive integer")
		}
		if item.Price.IsNegative() {
			return nil, domain.Validationf("price must be non-negative")
		}
	}

	err := w.uow.WithTx(ctx, func(tx *sql.Tx) error {
		order, err := w.orders.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFoundf("purchase order %d not found", orderID)
		}
		if _, err := actor.ResolveStore(order.StoreID); err != nil {
			return err
		}

		if patch.Items != nil {
			if order.Status != domain.PODraft {
				return domain.Conflictf("order lines may only be edited while the order is in DRAFT (current status %s)", order.Status)
			}

			items := make([]domain.PurchaseOrderItem, 0, len(patch.Items))
			for _, in := range patch.Items {
				items = append(items, domain.PurchaseOrderItem{
					VariationID:     in.VariationID,
					OrderedQuantity: in.OrderedQuantity,
					Price:           in.Price,
				})
			}
			if err := w.orders.ReplaceItems(ctx, tx, orderID, items); err != nil {
				return err
			}
			w.audit.Record(ctx, tx, actor, "po.update_items", "purchase_order", orderID,
				fmt.Sprintf("lines=%d", len(items)))
		}

		if patch.Status != nil {
			if !domain.CanTransition(order.Status, *patch.Status) {
				return domain.Conflictf("cannot move order from %s to %s", order.Status, *patch.Status)
			}
			if err := w.orders.SetStatus(ctx, tx, orderID, *patch.Status); err != nil {
				return err
			}
			w.audit.Record(ctx, tx, actor, "po.status", "purchase_order", orderID,
				fmt.Sprintf("from=%s to=%s", order.Status, *patch.Status))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.orders.Get(ctx, orderID)
}

// Receive applies supplier-delivered quantities against an open order:
// each line's received quantity is raised, capped at the ordered
// quantity, and the delivered units enter the destination store's
// stock. The order status is recomputed from line totals afterwards.
func (w *PurchaseOrderWorkflow) Receive(ctx context.Context, actor domain.Actor, orderID int64, items []ReceiveItem) error {
	if len(items) == 0 {
		return domain.Validationf("at least one item is required")
	}
	for _, item := range items {
		if item.VariationID <= 0 {
			return domain.Validationf("variation id is required")
		}
		if item.Quantity <= 0 {
			return domain.Validationf("received quantity must be a positive integer")
		}
	}

	return w.uow.WithTx(ctx, func(tx *sql.Tx) error {
		order, err := w.orders.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFoundf("purchase order %d not found", orderID)
		}
		if _, err := actor.ResolveStore(order.StoreID); err != nil {
			return err
		}

		switch order.Status {
		case domain.POCancelled:
			return domain.Conflictf("purchase order %d is cancelled", orderID)
		case domain.POReceived:
			return domain.Conflictf("purchase order %d is already received in full", orderID)
		}

		for _, in := range items {
			line := findOrderLine(order.Items, in.VariationID)
			if line == nil {
				return domain.Validationf("variation %d is not part of order %d", in.VariationID, orderID)
			}

			newReceived := line.ReceivedQuantity + in.Quantity
			if newReceived > line.OrderedQuantity {
				return domain.Conflictf("over-receipt for variation %d: ordered %d, already received %d, attempted %d more",
					in.VariationID, line.OrderedQuantity, line.ReceivedQuantity, in.Quantity)
			}

			if err := w.orders.SetItemReceived(ctx, tx, line.ID, newReceived); err != nil {
				return err
			}
			line.ReceivedQuantity = newReceived

			newQuantity, err := w.ledger.receiveIntoStock(ctx, tx, order.StoreID, in.VariationID, in.Quantity)
			if err != nil {
				return err
			}

			w.audit.Record(ctx, tx, actor, "po.receive", "purchase_order", orderID,
				fmt.Sprintf("variation=%d quantity=%d received=%d/%d stock=%d",
					in.VariationID, in.Quantity, newReceived, line.OrderedQuantity, newQuantity))
		}

		if next := domain.DerivePOStatus(order.Items); next != "" && next != order.Status {
			if err := w.orders.SetStatus(ctx, tx, orderID, next); err != nil {
				return err
			}
			w.audit.Record(ctx, tx, actor, "po.status", "purchase_order", orderID,
				fmt.Sprintf("from=%s to=%s", order.Status, next))
		}

		return nil
	})
}

func findOrderLine(items []domain.PurchaseOrderItem, variationID int64) *domain.PurchaseOrderItem {
	for i := range items {
		if items[i].VariationID == variationID {
			return &items[i]
		}
	}
	return nil
}
