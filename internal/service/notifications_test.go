package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnistore/stock-ledger/internal/domain"
)

func TestListNotifications(t *testing.T) {
	f := newFixture()
	f.state.thresholds[10] = 5
	f.state.thresholds[11] = 5
	ctx := context.Background()

	require.NoError(t, f.ledger.Adjust(ctx, globalActor, 1, 10, 2))
	require.NoError(t, f.ledger.Adjust(ctx, globalActor, 1, 11, 3))
	require.NoError(t, f.ledger.Adjust(ctx, globalActor, 2, 10, 1))

	all, err := f.center.List(ctx, globalActor, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2, "listing is per store")

	require.NoError(t, f.center.MarkRead(ctx, globalActor, all[0].ID))
	unread, err := f.center.List(ctx, globalActor, 1, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestListNotificationsScope(t *testing.T) {
	f := newFixture()

	_, err := f.center.List(context.Background(), scopedActor, 2, false)
	assert.Equal(t, domain.KindScope, domain.KindOf(err))
}

func TestMarkReadScopeAndMissing(t *testing.T) {
	f := newFixture()
	f.state.thresholds[10] = 5
	ctx := context.Background()
	require.NoError(t, f.ledger.Adjust(ctx, globalActor, 2, 10, 1))
	alert := f.unreadAlerts(2, 10)[0]

	err := f.center.MarkRead(ctx, scopedActor, alert.ID)
	assert.Equal(t, domain.KindScope, domain.KindOf(err))
	assert.False(t, f.state.notifications[0].Read)

	err = f.center.MarkRead(ctx, globalActor, 999)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	require.NoError(t, f.center.MarkRead(ctx, globalActor, alert.ID))
	assert.True(t, f.state.notifications[0].Read)
}
