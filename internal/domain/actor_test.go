package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStoreGlobalActor(t *testing.T) {
	admin := Actor{UserID: 1, Name: "hq", Role: RoleAdmin}

	storeID, err := admin.ResolveStore(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), storeID)

	// Global actors have no default store to fall back to.
	_, err = admin.ResolveStore(0)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestResolveStoreScopedActor(t *testing.T) {
	manager := Actor{UserID: 2, Name: "mgr", Role: "manager", StoreID: 4}

	storeID, err := manager.ResolveStore(0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), storeID)

	storeID, err = manager.ResolveStore(4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), storeID)

	_, err = manager.ResolveStore(5)
	assert.Equal(t, KindScope, KindOf(err))
}

func TestResolveStoreUnassignedScopedActor(t *testing.T) {
	orphan := Actor{UserID: 3, Name: "temp", Role: "cashier"}

	_, err := orphan.ResolveStore(1)
	assert.Equal(t, KindScope, KindOf(err))
}
