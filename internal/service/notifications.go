package service

import (
	"context"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// NotificationCenter is the consumer-facing side of the alert store:
// listing and dismissing the alerts the notifier raises. The engine
// never auto-clears alerts; dismissal is always an explicit call here.
type NotificationCenter struct {
	notifications repository.NotificationRepository
}

func NewNotificationCenter(notifications repository.NotificationRepository) *NotificationCenter {
	return &NotificationCenter{notifications: notifications}
}

func (nc *NotificationCenter) List(ctx context.Context, actor domain.Actor, storeID int64, unreadOnly bool) ([]domain.Notification, error) {
	storeID, err := actor.ResolveStore(storeID)
	if err != nil {
		return nil, err
	}
	return nc.notifications.List(ctx, storeID, unreadOnly)
}

func (nc *NotificationCenter) MarkRead(ctx context.Context, actor domain.Actor, id int64) error {
	n, err := nc.notifications.Get(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.NotFoundf("notification %d not found", id)
	}
	if _, err := actor.ResolveStore(n.StoreID); err != nil {
		return err
	}
	return nc.notifications.MarkRead(ctx, id)
}
