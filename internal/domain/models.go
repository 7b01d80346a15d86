package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a store location
type Store struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// VariationInfo is the display information the catalog exposes for a
// sellable variation. The catalog itself is owned by another service.
type VariationInfo struct {
	ID   int64  `json:"id" db:"id"`
	SKU  string `json:"sku" db:"sku"`
	Name string `json:"name" db:"name"`
}

// StockEntry is the quantity of one variation held at one store.
// Unique per (store_id, variation_id); created lazily on first mutation.
type StockEntry struct {
	ID          int64     `json:"id" db:"id"`
	StoreID     int64     `json:"store_id" db:"store_id"`
	VariationID int64     `json:"variation_id" db:"variation_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PurchaseOrder is a supplier order against one store.
type PurchaseOrder struct {
	ID         int64               `json:"id" db:"id"`
	SupplierID int64               `json:"supplier_id" db:"supplier_id"`
	StoreID    int64               `json:"store_id" db:"store_id"`
	Status     POStatus            `json:"status" db:"status"`
	Items      []PurchaseOrderItem `json:"items" db:"-"`
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
}

// PurchaseOrderItem is one ordered line. received_quantity never exceeds
// ordered_quantity.
type PurchaseOrderItem struct {
	ID               int64           `json:"id" db:"id"`
	OrderID          int64           `json:"order_id" db:"order_id"`
	VariationID      int64           `json:"variation_id" db:"variation_id"`
	OrderedQuantity  int             `json:"ordered_quantity" db:"ordered_quantity"`
	ReceivedQuantity int             `json:"received_quantity" db:"received_quantity"`
	Price            decimal.Decimal `json:"price" db:"price"`
}

// InventorySession is one physical count cycle for a store. Immutable
// once COMPLETED.
type InventorySession struct {
	ID          int64                `json:"id" db:"id"`
	StoreID     int64                `json:"store_id" db:"store_id"`
	Status      SessionStatus        `json:"status" db:"status"`
	Items       []InventoryCountItem `json:"items" db:"-"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty" db:"completed_at"`
}

// InventoryCountItem pairs the system's stock figure at session start
// with the physically observed one. CountedQuantity is nil until the
// item has been counted; the JSON wire format keeps the legacy -1
// sentinel for uncounted items.
type InventoryCountItem struct {
	ID                  int64 `db:"id"`
	SessionID           int64 `db:"session_id"`
	VariationID         int64 `db:"variation_id"`
	TheoreticalQuantity int   `db:"theoretical_quantity"`
	CountedQuantity     *int  `db:"counted_quantity"`
}

// UncountedSentinel is the wire value for "not yet counted".
const UncountedSentinel = -1

func (i InventoryCountItem) MarshalJSON() ([]byte, error) {
	counted := UncountedSentinel
	if i.CountedQuantity != nil {
		counted = *i.CountedQuantity
	}
	return json.Marshal(struct {
		ID                  int64 `json:"id"`
		SessionID           int64 `json:"session_id"`
		VariationID         int64 `json:"variation_id"`
		TheoreticalQuantity int   `json:"theoretical_quantity"`
		CountedQuantity     int   `json:"counted_quantity"`
	}{i.ID, i.SessionID, i.VariationID, i.TheoreticalQuantity, counted})
}

// Counted reports whether the item has a finalized count.
func (i InventoryCountItem) Counted() bool {
	return i.CountedQuantity != nil
}

// PaymentMethod is the tender type of a payment.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

// CashierSession is a shift-level cash-drawer reconciliation. Open while
// ended_at is unset; immutable once closed.
type CashierSession struct {
	ID             int64            `json:"id" db:"id"`
	UserID         int64            `json:"user_id" db:"user_id"`
	StoreID        int64            `json:"store_id" db:"store_id"`
	StartedAt      time.Time        `json:"started_at" db:"started_at"`
	EndedAt        *time.Time       `json:"ended_at,omitempty" db:"ended_at"`
	OpeningBalance decimal.Decimal  `json:"opening_balance" db:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty" db:"closing_balance"`
	CashTotal      *decimal.Decimal `json:"cash_total,omitempty" db:"cash_total"`
	CardTotal      *decimal.Decimal `json:"card_total,omitempty" db:"card_total"`
	MobileTotal    *decimal.Decimal `json:"mobile_total,omitempty" db:"mobile_total"`
	Difference     *decimal.Decimal `json:"difference,omitempty" db:"difference"`
}

// Closed reports whether the session has been reconciled and closed.
func (s CashierSession) Closed() bool {
	return s.EndedAt != nil
}

// CashierSummary is the mid-shift (or closing) aggregation for a session.
type CashierSummary struct {
	SessionID      int64                             `json:"session_id"`
	SalesByMethod  map[PaymentMethod]decimal.Decimal `json:"sales_by_method"`
	ExpectedCash   decimal.Decimal                   `json:"expected_cash"`
	SalesCount     int                               `json:"sales_count"`
	SalesTotal     decimal.Decimal                   `json:"sales_total"`
	OpeningBalance decimal.Decimal                   `json:"opening_balance"`
}

// Sale is a completed transaction, read-only for this engine.
type Sale struct {
	ID        int64      `json:"id" db:"id"`
	StoreID   int64      `json:"store_id" db:"store_id"`
	Items     []SaleItem `json:"items" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type SaleItem struct {
	ID          int64           `json:"id" db:"id"`
	SaleID      int64           `json:"sale_id" db:"sale_id"`
	VariationID int64           `json:"variation_id" db:"variation_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}

type Payment struct {
	ID        int64           `json:"id" db:"id"`
	SaleID    int64           `json:"sale_id" db:"sale_id"`
	Method    PaymentMethod   `json:"method" db:"method"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// SaleReturn records one return request against a sale. Multiple partial
// returns per sale are allowed; cumulative returned quantity per
// variation never exceeds the quantity originally sold.
type SaleReturn struct {
	ID        int64            `json:"id" db:"id"`
	SaleID    int64            `json:"sale_id" db:"sale_id"`
	Items     []SaleReturnItem `json:"items" db:"-"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// SaleReturnItem carries the weighted average unit sale price of the
// returned variation so reporting can value the returned amount.
type SaleReturnItem struct {
	ID          int64           `json:"id" db:"id"`
	ReturnID    int64           `json:"return_id" db:"return_id"`
	VariationID int64           `json:"variation_id" db:"variation_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// NotificationAlert is the only notification type this engine emits.
const NotificationAlert = "ALERT"

// Notification is a deduplicated low-stock alert: at most one unread
// alert per (store, variation) at a time.
type Notification struct {
	ID          int64     `json:"id" db:"id"`
	StoreID     int64     `json:"store_id" db:"store_id"`
	VariationID int64     `json:"variation_id" db:"variation_id"`
	Type        string    `json:"type" db:"type"`
	Message     string    `json:"message" db:"message"`
	Read        bool      `json:"read" db:"read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AuditEntry is one audit record; persisted in the same unit of work as
// the mutation it describes.
type AuditEntry struct {
	ID         string    `json:"id" db:"id"`
	Action     string    `json:"action" db:"action"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   int64     `json:"entity_id" db:"entity_id"`
	Actor      string    `json:"actor" db:"actor"`
	Details    string    `json:"details" db:"details"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
