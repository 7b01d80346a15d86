// Package repository defines the persistence ports of the stock ledger
// engine. Mutating methods take the *sql.Tx of the enclosing unit of
// work so every multi-row operation commits or rolls back as a whole.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnistore/stock-ledger/internal/domain"
)

// UnitOfWork runs a function inside one transaction. Implemented by
// postgres.DB; test fakes snapshot and restore their state instead.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type StockRepository interface {
	// Get returns nil when no entry exists for the pair.
	Get(ctx context.Context, storeID, variationID int64) (*domain.StockEntry, error)
	// GetForUpdate locks the row for the rest of the transaction;
	// returns nil when no entry exists.
	GetForUpdate(ctx context.Context, tx *sql.Tx, storeID, variationID int64) (*domain.StockEntry, error)
	// Upsert sets the absolute quantity, creating the row if absent.
	Upsert(ctx context.Context, tx *sql.Tx, storeID, variationID int64, quantity int) error
	ListByStore(ctx context.Context, tx *sql.Tx, storeID int64) ([]domain.StockEntry, error)
}

type StoreRepository interface {
	Get(ctx context.Context, id int64) (*domain.Store, error)
}

type PurchaseOrderRepository interface {
	Get(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.PurchaseOrder, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.POStatus) error
	SetItemReceived(ctx context.Context, tx *sql.Tx, itemID int64, received int) error
	// ReplaceItems swaps the full line set; only legal while DRAFT,
	// which the workflow enforces.
	ReplaceItems(ctx context.Context, tx *sql.Tx, orderID int64, items []domain.PurchaseOrderItem) error
}

type InventoryRepository interface {
	Get(ctx context.Context, id int64) (*domain.InventorySession, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.InventorySession, error)
	Create(ctx context.Context, tx *sql.Tx, session *domain.InventorySession) (int64, error)
	SetCount(ctx context.Context, tx *sql.Tx, sessionID, variationID int64, counted int) error
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.SessionStatus, completedAt *time.Time) error
}

type CashierRepository interface {
	Get(ctx context.Context, id int64) (*domain.CashierSession, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.CashierSession, error)
	Create(ctx context.Context, tx *sql.Tx, session *domain.CashierSession) (int64, error)
	// Close persists the aggregated totals, closing balance, difference
	// and end timestamp from the session.
	Close(ctx context.Context, tx *sql.Tx, session *domain.CashierSession) error
}

type SaleRepository interface {
	// GetForUpdate locks the sales row for the rest of the transaction;
	// concurrent returns against the same sale serialize on this lock.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Sale, error)
	// SumPaymentsByMethod aggregates payments on sales of the store
	// created at or after since, grouped by payment method. A nil tx
	// reads through the pool.
	SumPaymentsByMethod(ctx context.Context, tx *sql.Tx, storeID int64, since time.Time) (map[domain.PaymentMethod]decimal.Decimal, error)
	// SalesCountAndTotal returns the number of distinct sales observed
	// in the window and the sum of their payments.
	SalesCountAndTotal(ctx context.Context, storeID int64, since time.Time) (int, decimal.Decimal, error)
	// ReturnedQuantities sums previously returned quantities per
	// variation across all returns of the sale.
	ReturnedQuantities(ctx context.Context, tx *sql.Tx, saleID int64) (map[int64]int, error)
	CreateReturn(ctx context.Context, tx *sql.Tx, ret *domain.SaleReturn) (int64, error)
}

type NotificationRepository interface {
	Get(ctx context.Context, id int64) (*domain.Notification, error)
	// FindUnread returns nil when no unread alert exists for the pair.
	FindUnread(ctx context.Context, tx *sql.Tx, storeID, variationID int64) (*domain.Notification, error)
	Create(ctx context.Context, tx *sql.Tx, n *domain.Notification) error
	// Touch updates the message and timestamp of an existing alert.
	Touch(ctx context.Context, tx *sql.Tx, id int64, message string) error
	List(ctx context.Context, storeID int64, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type AuditRepository interface {
	Record(ctx context.Context, tx *sql.Tx, entry *domain.AuditEntry) error
}

// CatalogRepository is the read-only lookup into the externally owned
// catalog: low-stock thresholds and display info per variation.
type CatalogRepository interface {
	// Threshold returns (0, false, nil) when the variation has no
	// configured low-stock threshold.
	Threshold(ctx context.Context, variationID int64) (int, bool, error)
	DisplayInfo(ctx context.Context, variationID int64) (*domain.VariationInfo, error)
}
