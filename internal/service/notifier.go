package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/omnistore/stock-ledger/internal/domain"
	"github.com/omnistore/stock-ledger/internal/repository"
)

// LowStockNotifier runs after every ledger mutation. When a variation's
// new quantity is below its configured threshold it raises a
// deduplicated alert: the existing unread alert for the (store,
// variation) pair is updated in place instead of creating another one.
//
// Alert maintenance is best-effort; a failure here is logged and never
// rolls back the mutation that triggered it.
type LowStockNotifier struct {
	catalog       repository.CatalogRepository
	notifications repository.NotificationRepository
	stores        repository.StoreRepository
}

func NewLowStockNotifier(catalog repository.CatalogRepository, notifications repository.NotificationRepository, stores repository.StoreRepository) *LowStockNotifier {
	return &LowStockNotifier{catalog: catalog, notifications: notifications, stores: stores}
}

// Check compares the post-mutation quantity to the variation's
// threshold. No threshold configured means no-op; at or above threshold
// means no-op as well, existing unread alerts are left for the consumer
// to dismiss.
func (n *LowStockNotifier) Check(ctx context.Context, tx *sql.Tx, storeID, variationID int64, quantity int) {
	threshold, ok, err := n.catalog.Threshold(ctx, variationID)
	if err != nil {
		log.Warn().Err(err).Int64("variation_id", variationID).Msg("threshold lookup failed, skipping low-stock check")
		return
	}
	if !ok || quantity >= threshold {
		return
	}

	message := n.message(ctx, storeID, variationID, quantity, threshold)

	existing, err := n.notifications.FindUnread(ctx, tx, storeID, variationID)
	if err != nil {
		log.Error().Err(err).Int64("store_id", storeID).Int64("variation_id", variationID).Msg("failed to look up unread alert")
		return
	}

	if existing != nil {
		err = n.notifications.Touch(ctx, tx, existing.ID, message)
	} else {
		err = n.notifications.Create(ctx, tx, &domain.Notification{
			StoreID:     storeID,
			VariationID: variationID,
			Type:        domain.NotificationAlert,
			Message:     message,
		})
	}
	if err != nil {
		log.Error().Err(err).Int64("store_id", storeID).Int64("variation_id", variationID).Msg("failed to write low-stock alert")
	}
}

func (n *LowStockNotifier) message(ctx context.Context, storeID, variationID int64, quantity, threshold int) string {
	label := fmt.Sprintf("variation %d", variationID)
	if info, err := n.catalog.DisplayInfo(ctx, variationID); err == nil && info != nil {
		label = fmt.Sprintf("%s (%s)", info.Name, info.SKU)
	}

	storeName := fmt.Sprintf("store %d", storeID)
	if store, err := n.stores.Get(ctx, storeID); err == nil && store != nil {
		storeName = store.Name
	}

	return fmt.Sprintf("Low stock: %s at %s is down to %d (threshold %d)", label, storeName, quantity, threshold)
}
