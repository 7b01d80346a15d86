package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// ReturnItem is one requested line of a sale return.
type ReturnItem struct {
	VariationID int64 `json:"variation_id" binding:"required"`
	Quantity    int   `json:"quantity" binding:"required"`
}

// SaleReturnProcessor validates returned quantities against a sale's
// history and restocks the sale's store through the ledger's increment
// path. Cumulative returned quantity per variation is capped at the
// quantity originally sold.
type SaleReturnProcessor struct {
	uow    repository.UnitOfWork
	sales  repository.SaleRepository
	ledger *StockLedger
	audit  *Auditor
}

func NewSaleReturnProcessor(uow repository.UnitOfWork, sales repository.SaleRepository, ledger *StockLedger, audit *Auditor) *SaleReturnProcessor {
	return &SaleReturnProcessor{uow: uow, sales: sales, ledger: ledger, audit: audit}
}

// soldLine accumulates a sale's per-variation quantity and revenue so
// repeated lines at different discounts value returns at the weighted
// average unit price.
type soldLine struct {
	quantity int
	amount   decimal.Decimal
}

// ReturnItems records one return against the sale and restocks each
// returned line.
func (p *SaleReturnProcessor) ReturnItems(ctx context.Context, actor domain.Actor, saleID int64, items []ReturnItem) (int64, error) {
	if len(items) == 0 {
		return 0, domain.Validationf("at least one item is required")
	}
	for _, item := range items {
		if item.VariationID <= 0 {
			return 0, domain.Validationf("variation id is required")
		}
		if item.Quantity <= 0 {
			return 0, domain.Validationf("return quantity must be a positive integer")
		}
	}

	var returnID int64
	err := p.uow.WithTx(ctx, func(tx *sql.Tx) error {
		// Lock the sales row first: the returned-quantity cap below is
		// only sound if concurrent returns against the same sale
		// serialize before reading prior returned totals.
		sale, err := p.sales.GetForUpdate(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFoundf("sale %d not found", saleID)
		}
		if _, err := actor.ResolveStore(sale.StoreID); err != nil {
			return err
		}

		sold := make(map[int64]*soldLine)
		for _, line := range sale.Items {
			entry, ok := sold[line.VariationID]
			if !ok {
				entry = &soldLine{}
				sold[line.VariationID] = entry
			}
			entry.quantity += line.Quantity
			entry.amount = entry.amount.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		returned, err := p.sales.ReturnedQuantities(ctx, tx, saleID)
		if err != nil {
			return err
		}

		ret := &domain.SaleReturn{SaleID: saleID}
		requested := make(map[int64]int)
		for _, item := range items {
			line, ok := sold[item.VariationID]
			if !ok {
				return domain.Validationf("variation %d was not part of sale %d", item.VariationID, saleID)
			}

			requested[item.VariationID] += item.Quantity
			cumulative := returned[item.VariationID] + requested[item.VariationID]
			if cumulative > line.quantity {
				return domain.Conflictf("over-return for variation %d: sold %d, already returned %d, attempted %d more",
					item.VariationID, line.quantity, returned[item.VariationID], item.Quantity)
			}

			avgPrice := line.amount.Div(decimal.NewFromInt(int64(line.quantity))).Round(2)
			ret.Items = append(ret.Items, domain.SaleReturnItem{
				VariationID: item.VariationID,
				Quantity:    item.Quantity,
				UnitPrice:   avgPrice,
			})
		}

		returnID, err = p.sales.CreateReturn(ctx, tx, ret)
		if err != nil {
			return err
		}

		for _, item := range ret.Items {
			newQuantity, err := p.ledger.receiveIntoStock(ctx, tx, sale.StoreID, item.VariationID, item.Quantity)
			if err != nil {
				return err
			}

			p.audit.Record(ctx, tx, actor, "sale.return", "sale", saleID,
				fmt.Sprintf("variation=%d quantity=%d unit_price=%s stock=%d",
					item.VariationID, item.Quantity, item.UnitPrice, newQuantity))
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return returnID, nil
}
