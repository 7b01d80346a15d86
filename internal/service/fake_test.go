package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// fakeState is the shared in-memory store behind the per-interface
// fakes. fakeUOW snapshots it before each unit of work and restores it
// when the callback fails, so rollback behavior is observable in tests.
type fakeState struct {
	stock         map[pairKey]int
	stores        map[int64]domain.Store
	orders        map[int64]*domain.PurchaseOrder
	sessions      map[int64]*domain.InventorySession
	cashiers      map[int64]*domain.CashierSession
	sales         map[int64]*domain.Sale
	payments      []domain.Payment
	returns       []*domain.SaleReturn
	notifications []*domain.Notification
	audits        []domain.AuditEntry
	thresholds    map[int64]int
	variations    map[int64]domain.VariationInfo
	nextID        int64

	// observation logs, for asserting how repositories were driven
	saleOps         []string
	paymentSumsInTx []bool
}

type pairKey struct {
	store, variation int64
}

func newFakeState() *fakeState {
	return &fakeState{
		stock:      make(map[pairKey]int),
		stores:     make(map[int64]domain.Store),
		orders:     make(map[int64]*domain.PurchaseOrder),
		sessions:   make(map[int64]*domain.InventorySession),
		cashiers:   make(map[int64]*domain.CashierSession),
		sales:      make(map[int64]*domain.Sale),
		thresholds: make(map[int64]int),
		variations: make(map[int64]domain.VariationInfo),
		nextID:     100,
	}
}

func (s *fakeState) id() int64 {
	s.nextID++
	return s.nextID
}

func copyOrder(o *domain.PurchaseOrder) *domain.PurchaseOrder {
	cp := *o
	cp.Items = append([]domain.PurchaseOrderItem(nil), o.Items...)
	return &cp
}

func copySession(s *domain.InventorySession) *domain.InventorySession {
	cp := *s
	cp.Items = make([]domain.InventoryCountItem, len(s.Items))
	for i, item := range s.Items {
		cp.Items[i] = item
		if item.CountedQuantity != nil {
			counted := *item.CountedQuantity
			cp.Items[i].CountedQuantity = &counted
		}
	}
	return &cp
}

func copyCashier(s *domain.CashierSession) *domain.CashierSession {
	cp := *s
	return &cp
}

func (s *fakeState) snapshot() *fakeState {
	cp := newFakeState()
	cp.nextID = s.nextID
	for k, v := range s.stock {
		cp.stock[k] = v
	}
	for k, v := range s.stores {
		cp.stores[k] = v
	}
	for k, v := range s.orders {
		cp.orders[k] = copyOrder(v)
	}
	for k, v := range s.sessions {
		cp.sessions[k] = copySession(v)
	}
	for k, v := range s.cashiers {
		cp.cashiers[k] = copyCashier(v)
	}
	for k, v := range s.sales {
		cp.sales[k] = v
	}
	cp.payments = append([]domain.Payment(nil), s.payments...)
	for _, r := range s.returns {
		rc := *r
		rc.Items = append([]domain.SaleReturnItem(nil), r.Items...)
		cp.returns = append(cp.returns, &rc)
	}
	for _, n := range s.notifications {
		nc := *n
		cp.notifications = append(cp.notifications, &nc)
	}
	cp.audits = append([]domain.AuditEntry(nil), s.audits...)
	cp.saleOps = append([]string(nil), s.saleOps...)
	cp.paymentSumsInTx = append([]bool(nil), s.paymentSumsInTx...)
	for k, v := range s.thresholds {
		cp.thresholds[k] = v
	}
	for k, v := range s.variations {
		cp.variations[k] = v
	}
	return cp
}

func (s *fakeState) restore(from *fakeState) {
	*s = *from
}

type fakeUOW struct {
	state *fakeState
}

func (u *fakeUOW) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	saved := u.state.snapshot()
	// A sentinel tx so repositories can tell transactional reads from
	// pooled ones; the fakes never dereference it.
	if err := fn(new(sql.Tx)); err != nil {
		u.state.restore(saved)
		return err
	}
	return nil
}

type fakeStock struct{ state *fakeState }

func (f *fakeStock) entry(storeID, variationID int64) *domain.StockEntry {
	quantity, ok := f.state.stock[pairKey{storeID, variationID}]
	if !ok {
		return nil
	}
	return &domain.StockEntry{StoreID: storeID, VariationID: variationID, Quantity: quantity}
}

func (f *fakeStock) Get(ctx context.Context, storeID, variationID int64) (*domain.StockEntry, error) {
	return f.entry(storeID, variationID), nil
}

func (f *fakeStock) GetForUpdate(ctx context.Context, tx *sql.Tx, storeID, variationID int64) (*domain.StockEntry, error) {
	return f.entry(storeID, variationID), nil
}

func (f *fakeStock) Upsert(ctx context.Context, tx *sql.Tx, storeID, variationID int64, quantity int) error {
	f.state.stock[pairKey{storeID, variationID}] = quantity
	return nil
}

func (f *fakeStock) ListByStore(ctx context.Context, tx *sql.Tx, storeID int64) ([]domain.StockEntry, error) {
	var entries []domain.StockEntry
	for key, quantity := range f.state.stock {
		if key.store == storeID {
			entries = append(entries, domain.StockEntry{StoreID: storeID, VariationID: key.variation, Quantity: quantity})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].VariationID < entries[j].VariationID })
	return entries, nil
}

type fakeStores struct{ state *fakeState }

func (f *fakeStores) Get(ctx context.Context, id int64) (*domain.Store, error) {
	store, ok := f.state.stores[id]
	if !ok {
		return nil, nil
	}
	return &store, nil
}

type fakeOrders struct{ state *fakeState }

func (f *fakeOrders) Get(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	order, ok := f.state.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(order), nil
}

func (f *fakeOrders) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.PurchaseOrder, error) {
	return f.Get(ctx, id)
}

func (f *fakeOrders) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.POStatus) error {
	f.state.orders[id].Status = status
	return nil
}

func (f *fakeOrders) SetItemReceived(ctx context.Context, tx *sql.Tx, itemID int64, received int) error {
	for _, order := range f.state.orders {
		for i := range order.Items {
			if order.Items[i].ID == itemID {
				order.Items[i].ReceivedQuantity = received
				return nil
			}
		}
	}
	return domain.NotFoundf("order item %d not found", itemID)
}

func (f *fakeOrders) ReplaceItems(ctx context.Context, tx *sql.Tx, orderID int64, items []domain.PurchaseOrderItem) error {
	order := f.state.orders[orderID]
	order.Items = nil
	for _, item := range items {
		item.ID = f.state.id()
		item.OrderID = orderID
		order.Items = append(order.Items, item)
	}
	return nil
}

type fakeSessions struct{ state *fakeState }

func (f *fakeSessions) Get(ctx context.Context, id int64) (*domain.InventorySession, error) {
	session, ok := f.state.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(session), nil
}

func (f *fakeSessions) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.InventorySession, error) {
	return f.Get(ctx, id)
}

func (f *fakeSessions) Create(ctx context.Context, tx *sql.Tx, session *domain.InventorySession) (int64, error) {
	cp := copySession(session)
	cp.ID = f.state.id()
	cp.CreatedAt = time.Now()
	for i := range cp.Items {
		cp.Items[i].ID = f.state.id()
		cp.Items[i].SessionID = cp.ID
	}
	f.state.sessions[cp.ID] = cp
	return cp.ID, nil
}

func (f *fakeSessions) SetCount(ctx context.Context, tx *sql.Tx, sessionID, variationID int64, counted int) error {
	session, ok := f.state.sessions[sessionID]
	if !ok {
		return domain.NotFoundf("inventory session %d not found", sessionID)
	}
	for i := range session.Items {
		if session.Items[i].VariationID == variationID {
			value := counted
			session.Items[i].CountedQuantity = &value
			return nil
		}
	}
	return domain.NotFoundf("variation %d is not part of session %d", variationID, sessionID)
}

func (f *fakeSessions) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.SessionStatus, completedAt *time.Time) error {
	session := f.state.sessions[id]
	session.Status = status
	session.CompletedAt = completedAt
	return nil
}

type fakeCashiers struct{ state *fakeState }

func (f *fakeCashiers) Get(ctx context.Context, id int64) (*domain.CashierSession, error) {
	session, ok := f.state.cashiers[id]
	if !ok {
		return nil, nil
	}
	return copyCashier(session), nil
}

func (f *fakeCashiers) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.CashierSession, error) {
	return f.Get(ctx, id)
}

func (f *fakeCashiers) Create(ctx context.Context, tx *sql.Tx, session *domain.CashierSession) (int64, error) {
	cp := copyCashier(session)
	cp.ID = f.state.id()
	f.state.cashiers[cp.ID] = cp
	return cp.ID, nil
}

func (f *fakeCashiers) Close(ctx context.Context, tx *sql.Tx, session *domain.CashierSession) error {
	existing := f.state.cashiers[session.ID]
	if existing.Closed() {
		return domain.Conflictf("cashier session %d is already closed", session.ID)
	}
	f.state.cashiers[session.ID] = copyCashier(session)
	return nil
}

type fakeSales struct{ state *fakeState }

func (f *fakeSales) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Sale, error) {
	f.state.saleOps = append(f.state.saleOps, fmt.Sprintf("lock:%d", id))
	sale, ok := f.state.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	cp.Items = append([]domain.SaleItem(nil), sale.Items...)
	return &cp, nil
}

func (f *fakeSales) SumPaymentsByMethod(ctx context.Context, tx *sql.Tx, storeID int64, since time.Time) (map[domain.PaymentMethod]decimal.Decimal, error) {
	f.state.paymentSumsInTx = append(f.state.paymentSumsInTx, tx != nil)
	totals := make(map[domain.PaymentMethod]decimal.Decimal)
	for _, payment := range f.state.payments {
		sale, ok := f.state.sales[payment.SaleID]
		if !ok || sale.StoreID != storeID || sale.CreatedAt.Before(since) {
			continue
		}
		totals[payment.Method] = totals[payment.Method].Add(payment.Amount)
	}
	return totals, nil
}

func (f *fakeSales) SalesCountAndTotal(ctx context.Context, storeID int64, since time.Time) (int, decimal.Decimal, error) {
	seen := make(map[int64]bool)
	total := decimal.Zero
	for _, payment := range f.state.payments {
		sale, ok := f.state.sales[payment.SaleID]
		if !ok || sale.StoreID != storeID || sale.CreatedAt.Before(since) {
			continue
		}
		seen[sale.ID] = true
		total = total.Add(payment.Amount)
	}
	return len(seen), total, nil
}

func (f *fakeSales) ReturnedQuantities(ctx context.Context, tx *sql.Tx, saleID int64) (map[int64]int, error) {
	f.state.saleOps = append(f.state.saleOps, fmt.Sprintf("sum-returned:%d", saleID))
	returned := make(map[int64]int)
	for _, ret := range f.state.returns {
		if ret.SaleID != saleID {
			continue
		}
		for _, item := range ret.Items {
			returned[item.VariationID] += item.Quantity
		}
	}
	return returned, nil
}

func (f *fakeSales) CreateReturn(ctx context.Context, tx *sql.Tx, ret *domain.SaleReturn) (int64, error) {
	cp := *ret
	cp.ID = f.state.id()
	cp.CreatedAt = time.Now()
	cp.Items = append([]domain.SaleReturnItem(nil), ret.Items...)
	f.state.returns = append(f.state.returns, &cp)
	return cp.ID, nil
}

type fakeNotifications struct{ state *fakeState }

func (f *fakeNotifications) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	for _, n := range f.state.notifications {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeNotifications) FindUnread(ctx context.Context, tx *sql.Tx, storeID, variationID int64) (*domain.Notification, error) {
	for _, n := range f.state.notifications {
		if n.StoreID == storeID && n.VariationID == variationID && !n.Read {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeNotifications) Create(ctx context.Context, tx *sql.Tx, n *domain.Notification) error {
	cp := *n
	cp.ID = f.state.id()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.state.notifications = append(f.state.notifications, &cp)
	return nil
}

func (f *fakeNotifications) Touch(ctx context.Context, tx *sql.Tx, id int64, message string) error {
	for _, n := range f.state.notifications {
		if n.ID == id {
			n.Message = message
			n.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.NotFoundf("notification %d not found", id)
}

func (f *fakeNotifications) List(ctx context.Context, storeID int64, unreadOnly bool) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.state.notifications {
		if n.StoreID == storeID && (!unreadOnly || !n.Read) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(ctx context.Context, id int64) error {
	for _, n := range f.state.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.NotFoundf("notification %d not found", id)
}

type fakeAudit struct{ state *fakeState }

func (f *fakeAudit) Record(ctx context.Context, tx *sql.Tx, entry *domain.AuditEntry) error {
	f.state.audits = append(f.state.audits, *entry)
	return nil
}

type fakeCatalog struct{ state *fakeState }

func (f *fakeCatalog) Threshold(ctx context.Context, variationID int64) (int, bool, error) {
	threshold, ok := f.state.thresholds[variationID]
	return threshold, ok, nil
}

func (f *fakeCatalog) DisplayInfo(ctx context.Context, variationID int64) (*domain.VariationInfo, error) {
	info, ok := f.state.variations[variationID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

var (
	_ repository.UnitOfWork              = (*fakeUOW)(nil)
	_ repository.StockRepository         = (*fakeStock)(nil)
	_ repository.StoreRepository         = (*fakeStores)(nil)
	_ repository.PurchaseOrderRepository = (*fakeOrders)(nil)
	_ repository.InventoryRepository     = (*fakeSessions)(nil)
	_ repository.CashierRepository       = (*fakeCashiers)(nil)
	_ repository.SaleRepository          = (*fakeSales)(nil)
	_ repository.NotificationRepository  = (*fakeNotifications)(nil)
	_ repository.AuditRepository         = (*fakeAudit)(nil)
	_ repository.CatalogRepository       = (*fakeCatalog)(nil)
)

// fixture wires every workflow over one shared fake state.
type fixture struct {
	state *fakeState

	ledger    *StockLedger
	orders    *PurchaseOrderWorkflow
	inventory *InventorySessionWorkflow
	cashier   *CashierSessionReconciler
	returns   *SaleReturnProcessor
	center    *NotificationCenter
}

func newFixture() *fixture {
	state := newFakeState()
	uow := &fakeUOW{state: state}

	auditor := NewAuditor(&fakeAudit{state: state})
	notifier := NewLowStockNotifier(&fakeCatalog{state: state}, &fakeNotifications{state: state}, &fakeStores{state: state})
	ledger := NewStockLedger(uow, &fakeStock{state: state}, notifier, auditor)

	return &fixture{
		state:     state,
		ledger:    ledger,
		orders:    NewPurchaseOrderWorkflow(uow, &fakeOrders{state: state}, ledger, auditor),
		inventory: NewInventorySessionWorkflow(uow, &fakeSessions{state: state}, &fakeStock{state: state}, notifier, auditor),
		cashier:   NewCashierSessionReconciler(uow, &fakeCashiers{state: state}, &fakeSales{state: state}, auditor),
		returns:   NewSaleReturnProcessor(uow, &fakeSales{state: state}, ledger, auditor),
		center:    NewNotificationCenter(&fakeNotifications{state: state}),
	}
}

func (f *fixture) setStock(storeID, variationID int64, quantity int) {
	f.state.stock[pairKey{storeID, variationID}] = quantity
}

func (f *fixture) stockAt(storeID, variationID int64) int {
	return f.state.stock[pairKey{storeID, variationID}]
}

func (f *fixture) hasStock(storeID, variationID int64) bool {
	_, ok := f.state.stock[pairKey{storeID, variationID}]
	return ok
}

func (f *fixture) unreadAlerts(storeID, variationID int64) []*domain.Notification {
	var out []*domain.Notification
	for _, n := range f.state.notifications {
		if n.StoreID == storeID && n.VariationID == variationID && !n.Read {
			out = append(out, n)
		}
	}
	return out
}

func (f *fixture) addOrder(storeID int64, status domain.POStatus, items ...domain.PurchaseOrderItem) int64 {
	id := f.state.id()
	for i := range items {
		items[i].ID = f.state.id()
		items[i].OrderID = id
	}
	f.state.orders[id] = &domain.PurchaseOrder{
		ID:         id,
		SupplierID: 1,
		StoreID:    storeID,
		Status:     status,
		Items:      items,
		CreatedAt:  time.Now(),
	}
	return id
}

func (f *fixture) addSale(storeID int64, createdAt time.Time, items ...domain.SaleItem) int64 {
	id := f.state.id()
	for i := range items {
		items[i].ID = f.state.id()
		items[i].SaleID = id
	}
	f.state.sales[id] = &domain.Sale{ID: id, StoreID: storeID, Items: items, CreatedAt: createdAt}
	return id
}

func (f *fixture) addPayment(saleID int64, method domain.PaymentMethod, amount string) {
	f.state.payments = append(f.state.payments, domain.Payment{
		ID:     f.state.id(),
		SaleID: saleID,
		Method: method,
		Amount: decimal.RequireFromString(amount),
	})
}

var (
	globalActor = domain.Actor{UserID: 1, Name: "hq-admin", Role: domain.RoleAdmin}
	scopedActor = domain.Actor{UserID: 2, Name: "store-manager", Role: "manager", StoreID: 1}
)
