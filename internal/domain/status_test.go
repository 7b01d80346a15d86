package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to POStatus }{
		{PODraft, POPending},
		{PODraft, POOrdered},
		{PODraft, POCancelled},
		{POPending, POOrdered},
		{POPending, POCancelled},
		{POOrdered, POCancelled},
		{POPartiallyReceived, POReceived},
		{POPartiallyReceived, POCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to POStatus }{
		{POPending, PODraft},
		{POOrdered, PODraft},
		{POOrdered, POReceived},
		{POReceived, POCancelled},
		{POReceived, PODraft},
		{POCancelled, PODraft},
		{POCancelled, POOrdered},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, POReceived.Terminal())
	assert.True(t, POCancelled.Terminal())
	assert.False(t, PODraft.Terminal())
	assert.False(t, POOrdered.Terminal())
}

func TestParsePOStatus(t *testing.T) {
	status, ok := ParsePOStatus(" ordered ")
	assert.True(t, ok)
	assert.Equal(t, POOrdered, status)

	_, ok = ParsePOStatus("SHIPPED")
	assert.False(t, ok)
}

func TestDerivePOStatus(t *testing.T) {
	tests := []struct {
		name  string
		items []PurchaseOrderItem
		want  POStatus
	}{
		{
			name: "nothing received yet",
			items: []PurchaseOrderItem{
				{OrderedQuantity: 5},
				{OrderedQuantity: 3},
			},
			want: "",
		},
		{
			name: "partially received",
			items: []PurchaseOrderItem{
				{OrderedQuantity: 5, ReceivedQuantity: 3},
				{OrderedQuantity: 3},
			},
			want: POPartiallyReceived,
		},
		{
			name: "received in full",
			items: []PurchaseOrderItem{
				{OrderedQuantity: 5, ReceivedQuantity: 5},
				{OrderedQuantity: 3, ReceivedQuantity: 3},
			},
			want: POReceived,
		},
		{
			name:  "no lines",
			items: nil,
			want:  "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DerivePOStatus(tc.items))
		})
	}
}
