package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// CashierSessionReconciler reconciles expected against declared cash
// for a shift. It never touches item quantities but shares the same
// transactional and scoping discipline as the ledger workflows.
type CashierSessionReconciler struct {
	uow      repository.UnitOfWork
	sessions repository.CashierRepository
	sales    repository.SaleRepository
	audit    *Auditor
}

func NewCashierSessionReconciler(uow repository.UnitOfWork, sessions repository.CashierRepository, sales repository.SaleRepository, audit *Auditor) *CashierSessionReconciler {
	return &CashierSessionReconciler{uow: uow, sessions: sessions, sales: sales, audit: audit}
}

// Start opens a session with the declared opening balance. One open
// session per (user, store) is a convention, not enforced here.
func (r *CashierSessionReconciler) Start(ctx context.Context, actor domain.Actor, userID, storeID int64, openingBalance decimal.Decimal) (*domain.CashierSession, error) {
	storeID, err := actor.ResolveStore(storeID)
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, domain.Validationf("user id is required")
	}
	if openingBalance.IsNegative() {
		return nil, domain.Validationf("opening balance must be non-negative")
	}

	var sessionID int64
	err = r.uow.WithTx(ctx, func(tx *sql.Tx) error {
		session := &domain.CashierSession{
			UserID:         userID,
			StoreID:        storeID,
			StartedAt:      time.Now(),
			OpeningBalance: openingBalance,
		}

		sessionID, err = r.sessions.Create(ctx, tx, session)
		if err != nil {
			return err
		}

		r.audit.Record(ctx, tx, actor, "cashier.start", "cashier_session", sessionID,
			fmt.Sprintf("store=%d user=%d opening=%s", storeID, userID, openingBalance))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.sessions.Get(ctx, sessionID)
}

// Close aggregates the shift's payments by method, computes the
// expected cash and the difference against the declared closing
// balance, and seals the session.
func (r *CashierSessionReconciler) Close(ctx context.Context, actor domain.Actor, sessionID int64, closingBalance decimal.Decimal) (*domain.CashierSession, error) {
	if closingBalance.IsNegative() {
		return nil, domain.Validationf("closing balance must be non-negative")
	}

	err := r.uow.WithTx(ctx, func(tx *sql.Tx) error {
		session, err := r.sessions.GetForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.NotFoundf("cashier session %d not found", sessionID)
		}
		if _, err := actor.ResolveStore(session.StoreID); err != nil {
			return err
		}
		if session.Closed() {
			return domain.Conflictf("cashier session %d is already closed", sessionID)
		}

		// Aggregate through the transaction so the persisted totals and
		// the session-row update see one consistent snapshot.
		totals, err := r.sales.SumPaymentsByMethod(ctx, tx, session.StoreID, session.StartedAt)
		if err != nil {
			return err
		}

		cash := totals[domain.PaymentCash]
		card := totals[domain.PaymentCard]
		mobile := totals[domain.PaymentMobile]
		expected := session.OpeningBalance.Add(cash)
		difference := closingBalance.Sub(expected)

		now := time.Now()
		session.EndedAt = &now
		session.ClosingBalance = &closingBalance
		session.CashTotal = &cash
		session.CardTotal = &card
		session.MobileTotal = &mobile
		session.Difference = &difference

		if err := r.sessions.Close(ctx, tx, session); err != nil {
			return err
		}

		r.audit.Record(ctx, tx, actor, "cashier.close", "cashier_session", sessionID,
			fmt.Sprintf("expected=%s declared=%s difference=%s", expected, closingBalance, difference))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.sessions.Get(ctx, sessionID)
}

// LiveSummary returns the same aggregation Close would produce, without
// closing, for mid-shift visibility.
func (r *CashierSessionReconciler) LiveSummary(ctx context.Context, actor domain.Actor, sessionID int64) (*domain.CashierSummary, error) {
	session, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.NotFoundf("cashier session %d not found", sessionID)
	}
	if _, err := actor.ResolveStore(session.StoreID); err != nil {
		return nil, err
	}

	totals, err := r.sales.SumPaymentsByMethod(ctx, nil, session.StoreID, session.StartedAt)
	if err != nil {
		return nil, err
	}
	for _, method := range []domain.PaymentMethod{domain.PaymentCash, domain.PaymentCard, domain.PaymentMobile} {
		if _, ok := totals[method]; !ok {
			totals[method] = decimal.Zero
		}
	}

	count, total, err := r.sales.SalesCountAndTotal(ctx, session.StoreID, session.StartedAt)
	if err != nil {
		return nil, err
	}

	return &domain.CashierSummary{
		SessionID:      sessionID,
		SalesByMethod:  totals,
		ExpectedCash:   session.OpeningBalance.Add(totals[domain.PaymentCash]),
		SalesCount:     count,
		SalesTotal:     total,
		OpeningBalance: session.OpeningBalance,
	}, nil
}
