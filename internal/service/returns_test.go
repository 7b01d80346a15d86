package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnistore/stock-ledger/internal/domain"
)

func TestReturnRestocksAndRecords(t *testing.T) {
	f := newFixture()
	f.setStock(1, 10, 2)
	saleID := f.addSale(1, time.Now(),
		domain.SaleItem{VariationID: 10, Quantity: 3, UnitPrice: dec("10.00")},
	)

	returnID, err := f.returns.ReturnItems(context.Background(), globalActor, saleID, []ReturnItem{
		{VariationID: 10, Quantity: 2},
	})
	require.NoError(t, err)
	require.NotZero(t, returnID)

	assert.Equal(t, 4, f.stockAt(1, 10))
	require.Len(t, f.state.returns, 1)
	ret := f.state.returns[0]
	assert.Equal(t, saleID, ret.SaleID)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, 2, ret.Items[0].Quantity)
	assert.True(t, ret.Items[0].UnitPrice.Equal(dec("10.00")))
}

func TestReturnUsesWeightedAverageUnitPrice(t *testing.T) {
	f := newFixture()
	// Same variation sold twice at different prices: 2 @ 10.00 and
	// 1 @ 7.00 gives 27.00 over 3 units, so 9.00 per returned unit.
	saleID := f.addSale(1, time.Now(),
		domain.SaleItem{VariationID: 10, Quantity: 2, UnitPrice: dec("10.00")},
		domain.SaleItem{VariationID: 10, Quantity: 1, UnitPrice: dec("7.00")},
	)

	_, err := f.returns.ReturnItems(context.Background(), globalActor, saleID, []ReturnItem{
		{VariationID: 10, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, f.state.returns, 1)
	assert.True(t, f.state.returns[0].Items[0].UnitPrice.Equal(dec("9.00")))
}

func TestOverReturnRejectedAcrossReturns(t *testing.T) {
	f := newFixture()
	f.setStock(1, 10, 0)
	saleID := f.addSale(1, time.Now(),
		domain.SaleItem{VariationID: 10, Quantity: 3, UnitPrice: dec("5.00")},
	)
	ctx := context.Background()

	_, err := f.returns.ReturnItems(ctx, globalActor, saleID, []ReturnItem{{VariationID: 10, Quantity: 2}})
	require.NoError(t, err)

	// Only one unit is still returnable; two is a conflict, and the
	// rejected return must not restock anything.
	_, err = f.returns.ReturnItems(ctx, globalActor, saleID, []ReturnItem{{VariationID: 10, Quantity: 2}})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, 2, f.stockAt(1, 10))
	assert.Len(t, f.state.returns, 1)

	_, err = f.returns.ReturnItems(ctx, globalActor, saleID, []ReturnItem{{VariationID: 10, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, f.stockAt(1, 10))
}

func TestOverReturnRejectedWithinOneRequest(t *testing.T) {
	f := newFixture()
	saleID := f.addSale(1, time.Now(),
		domain.SaleItem{VariationID: 10, Quantity: 3, UnitPrice: dec("5.00")},
	)

	// Duplicate lines in one request count cumulatively.
	_, err := f.returns.ReturnItems(context.Background(), globalActor, saleID, []ReturnItem{
		{VariationID: 10, Quantity: 2},
		{VariationID: 10, Quantity: 2},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Empty(t, f.state.returns)
	assert.False(t, f.hasStock(1, 10))
}

func TestReturnLocksSaleBeforeCapCheck(t *testing.T) {
	f := newFixture()
	saleID := f.addSale(1, time.Now(),
		domain.SaleItem{VariationID: 10, Quantity: 3, UnitPrice: dec("5.00")},
	)

	_, err := f.returns.ReturnItems(context.Background(), globalActor, saleID, []ReturnItem{
		{VariationID: 10, Quantity: 1},
	})
	require.NoError(t, err)

	// The sales row must be locked before prior returned totals are
	// read; two concurrent returns would otherwise both see the same
	// totals and together exceed the quantity sold.
	require.Len(t, f.state.saleOps, 2)
	assert.Equal(t, fmt.Sprintf("lock:%d", saleID), f.state.saleOps[0])
	assert.Equal(t, fmt.Sprintf("sum-returned:%d", saleID), f.state.saleOps[1])
}

func TestReturnValidation(t *testing.T) {
	f := newFixture()
	saleID := f.addSale(1, time.Now(),
		domain.SaleItem{VariationID: 10, Quantity: 3, UnitPrice: dec("5.00")},
	)
	ctx := context.Background()

	_, err := f.returns.ReturnItems(ctx, globalActor, saleID, nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.returns.ReturnItems(ctx, globalActor, saleID, []ReturnItem{{VariationID: 10, Quantity: 0}})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.returns.ReturnItems(ctx, globalActor, saleID, []ReturnItem{{VariationID: 99, Quantity: 1}})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "variation not part of the sale")

	_, err = f.returns.ReturnItems(ctx, globalActor, 999, []ReturnItem{{VariationID: 10, Quantity: 1}})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestReturnScopedToSaleStore(t *testing.T) {
	f := newFixture()
	saleID := f.addSale(2, time.Now(),
		domain.SaleItem{VariationID: 10, Quantity: 3, UnitPrice: dec("5.00")},
	)

	_, err := f.returns.ReturnItems(context.Background(), scopedActor, saleID, []ReturnItem{
		{VariationID: 10, Quantity: 1},
	})
	assert.Equal(t, domain.KindScope, domain.KindOf(err))
}
